package seqio

import (
	"bufio"
	"bytes"
	"io"

	"github.com/zwets/khc/errs"
)

// bareReader treats the entire stream as a single sequence with no header,
// per spec.md §6's "bare base text" query/subject format.
type bareReader struct {
	r    io.Reader
	id   string
	done bool
	err  error
	cur  Sequence
}

// NewBareReader returns a Reader that yields one Sequence with id as both ID
// and Header, containing the lines of r concatenated, each with its leading
// and trailing whitespace trimmed.
func NewBareReader(r io.Reader, id string) Reader {
	return &bareReader{r: r, id: id}
}

func (b *bareReader) Scan() bool {
	if b.done {
		return false
	}
	b.done = true

	var out bytes.Buffer
	sc := bufio.NewScanner(b.r)
	sc.Buffer(make([]byte, 0, 1<<16), 1<<30)
	for sc.Scan() {
		out.Write(bytes.TrimSpace(sc.Bytes()))
	}
	if err := sc.Err(); err != nil {
		b.err = errs.Wrap(errs.IO, err, "reading bare sequence")
		return false
	}
	if out.Len() == 0 {
		return false // empty input yields no sequence at all
	}
	b.cur = Sequence{ID: b.id, Header: b.id, Data: out.Bytes()}
	return true
}

func (b *bareReader) Sequence() Sequence { return b.cur }
func (b *bareReader) Err() error         { return b.err }
