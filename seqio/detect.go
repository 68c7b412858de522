package seqio

import (
	"bufio"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/zwets/khc/errs"
)

// Format is a sniffed input format, per spec.md §6: "the first non-whitespace
// byte is '~' for binary, '>' for FASTA, else bare." Query sources may
// additionally be FASTQ ('@').
type Format int

const (
	// FormatBinary marks a previously-written khc index (magic '~'). Detect
	// never constructs a Reader for this case; the caller (cmd/khc) routes
	// it to binfmt.Read instead.
	FormatBinary Format = iota
	FormatFASTA
	FormatFASTQ
	FormatBare
)

// Detect peeks the first non-whitespace byte of r without consuming it, and
// classifies the stream per spec.md §6.
func Detect(r *bufio.Reader) (Format, error) {
	for {
		b, err := r.Peek(1)
		if err != nil {
			if err == io.EOF {
				return FormatBare, nil // empty input; treated as bare with zero sequences
			}
			return 0, errs.Wrap(errs.IO, err, "detecting input format")
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := r.Discard(1); err != nil {
				return 0, errs.Wrap(errs.IO, err, "detecting input format")
			}
			continue
		case '~':
			return FormatBinary, nil
		case '>':
			return FormatFASTA, nil
		case '@':
			return FormatFASTQ, nil
		default:
			return FormatBare, nil
		}
	}
}

// gzipMagic is the two-byte gzip stream header.
var gzipMagic = [2]byte{0x1f, 0x8b}

// MaybeGunzip peeks r for the gzip magic and, if present, wraps it with a
// transparently decompressing reader backed by klauspost/compress/gzip (the
// teacher's own drop-in replacement for compress/gzip). If the magic isn't
// present, r is returned unwrapped so callers pay no cost for uncompressed
// input.
func MaybeGunzip(r *bufio.Reader) (io.Reader, error) {
	head, err := r.Peek(2)
	if err != nil {
		if err == io.EOF {
			return r, nil
		}
		return nil, errs.Wrap(errs.IO, err, "sniffing gzip magic")
	}
	if head[0] != gzipMagic[0] || head[1] != gzipMagic[1] {
		return r, nil
	}
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "opening gzip stream")
	}
	return gz, nil
}
