package seqio

import (
	"bufio"
	"io"
	"strings"

	"github.com/zwets/khc/errs"
)

// fastqReader adapts a four-line FASTQ record scanner (ID/Seq/Unk/Qual) to
// Reader, keeping only ID and Seq — the core has no use for quality scores.
// Grounded on encoding/fastq.Scanner's Scan/Err shape and its line-3 "+"
// validation.
type fastqReader struct {
	sc  *bufio.Scanner
	err error
	cur Sequence
}

// NewFASTQReader returns a Reader over FASTQ-formatted r.
func NewFASTQReader(r io.Reader) Reader {
	return &fastqReader{sc: bufio.NewScanner(r)}
}

func (f *fastqReader) scanLine() (string, bool) {
	if !f.sc.Scan() {
		if err := f.sc.Err(); err != nil {
			f.err = errs.Wrap(errs.Parse, err, "reading FASTQ")
		}
		return "", false
	}
	return f.sc.Text(), true
}

func (f *fastqReader) Scan() bool {
	if f.err != nil {
		return false
	}
	idLine, ok := f.scanLine()
	if !ok {
		return false // clean EOF between records
	}
	if !strings.HasPrefix(idLine, "@") {
		f.err = errs.New(errs.Parse, "FASTQ record does not start with '@': %q", idLine)
		return false
	}
	seqLine, ok := f.scanLine()
	if !ok {
		if f.err == nil {
			f.err = errs.New(errs.Parse, "truncated FASTQ file after ID line %q", idLine)
		}
		return false
	}
	unkLine, ok := f.scanLine()
	if !ok {
		if f.err == nil {
			f.err = errs.New(errs.Parse, "truncated FASTQ file after sequence line")
		}
		return false
	}
	if !strings.HasPrefix(unkLine, "+") {
		f.err = errs.New(errs.Parse, "FASTQ separator line does not start with '+': %q", unkLine)
		return false
	}
	if _, ok := f.scanLine(); !ok {
		if f.err == nil {
			f.err = errs.New(errs.Parse, "truncated FASTQ file after '+' line")
		}
		return false
	}

	header := strings.TrimPrefix(idLine, "@")
	id := header
	if i := strings.IndexAny(header, " \t"); i >= 0 {
		id = header[:i]
	}
	f.cur = Sequence{ID: id, Header: header, Data: []byte(seqLine)}
	return true
}

func (f *fastqReader) Sequence() Sequence { return f.cur }
func (f *fastqReader) Err() error         { return f.err }
