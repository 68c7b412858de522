package seqio

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/zwets/khc/errs"
)

// fastaReader streams `>`-delimited FASTA records one at a time. It is
// adapted from encoding/fasta's eager, whole-file newEagerUnindexed parser:
// same header/ID splitting rule (first whitespace-delimited token), but
// single-pass rather than building an in-memory map of every sequence.
type fastaReader struct {
	br   *bufio.Reader
	err  error
	next string // header line already consumed for the following record, "" if none
	done bool
	cur  Sequence
}

// NewFASTAReader returns a Reader over FASTA-formatted r.
func NewFASTAReader(r io.Reader) Reader {
	return &fastaReader{br: bufio.NewReaderSize(r, 1<<16)}
}

func (f *fastaReader) Scan() bool {
	if f.err != nil || f.done {
		return false
	}

	header := f.next
	f.next = ""
	if header == "" {
		var ok bool
		header, ok = f.nextHeader()
		if !ok {
			return false
		}
	}

	var data bytes.Buffer
	for {
		line, err := f.br.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(trimmed, ">") {
			f.next = trimmed[1:]
			break
		}
		data.WriteString(trimmed)
		if err != nil {
			f.done = true
			if err != io.EOF {
				f.err = errs.Wrap(errs.IO, err, "reading FASTA body")
				return false
			}
			break
		}
	}

	id := header
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		id = header[:i]
	}
	f.cur = Sequence{ID: id, Header: header, Data: data.Bytes()}
	return true
}

// nextHeader scans forward to the next `>` line, skipping anything before
// the first record (stray blank lines, etc).
func (f *fastaReader) nextHeader() (string, bool) {
	for {
		line, err := f.br.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(trimmed, ">") {
			return trimmed[1:], true
		}
		if err != nil {
			f.done = true
			if err != io.EOF {
				f.err = errs.Wrap(errs.IO, err, "reading FASTA header")
			}
			return "", false
		}
	}
}

func (f *fastaReader) Sequence() Sequence { return f.cur }
func (f *fastaReader) Err() error         { return f.err }
