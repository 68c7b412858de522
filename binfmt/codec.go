// Package binfmt implements IndexBinaryCodec: a deterministic,
// endianness-sensitive binary layout for a built kmerindex.KmerIndex plus its
// subject metadata (spec.md §4.9, §6).
//
// Grounded on zwets/kcst's templatedb.h read/write pair (which serializes the
// same three things: header, subject table, index body) and, for the checksum
// enrichment, on fusion/kmer_index.go's use of github.com/dgryski/go-farm.
package binfmt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	farm "github.com/dgryski/go-farm"

	"github.com/zwets/khc/errs"
	"github.com/zwets/khc/kmerindex"
)

// Magic is the fixed header token identifying a khc binary index, per
// spec.md §6.
const Magic = "~khc~"

// byteOrder is the fixed-width integer encoding used for the binary body.
// spec.md §6 calls the format "host-endian" and explicitly not
// endian-portable; this codec commits to little-endian deterministically so
// that the "not portable" caveat is about differing machine endianness, not
// about non-determinism within this implementation.
var byteOrder = binary.LittleEndian

// Header is the parsed ASCII header line of a khc binary index.
type Header struct {
	NumSequences int
	TotalBases   uint64
	KSize        int
	MaxVariants  int
}

// Subject is one subject's persisted metadata: its ID and length in k-mers.
type Subject struct {
	ID     string
	Length uint32
}

// Write serializes header, subjects, and idx to w in the format spec.md §4.9
// and §6 describe. It is the caller's responsibility to pass a subjects slice
// whose length equals header.NumSequences.
func Write(w io.Writer, header Header, subjects []Subject, idx kmerindex.Persistable) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s nseq %d nbases %d ksize %d maxvars %d\n",
		Magic, header.NumSequences, header.TotalBases, header.KSize, header.MaxVariants); err != nil {
		return errs.Wrap(errs.IO, err, "writing header")
	}
	for _, s := range subjects {
		if _, err := fmt.Fprintf(bw, "%s %d\n", s.ID, s.Length); err != nil {
			return errs.Wrap(errs.IO, err, "writing subject %q", s.ID)
		}
	}

	// The index body is hashed separately from the header/subject lines so a
	// reader can verify it without re-parsing ASCII.
	var body bytes.Buffer
	if err := writeBody(&body, idx); err != nil {
		return err
	}
	if _, err := bw.Write(body.Bytes()); err != nil {
		return errs.Wrap(errs.IO, err, "writing index body")
	}

	// The trailer is separated from the body by a newline so a reader can
	// locate it with bytes.LastIndex even though the body itself ends in
	// raw binary (the last (code,slot) record), not '\n'.
	checksum := farm.Hash64(body.Bytes())
	if _, err := fmt.Fprintf(bw, "\nchk %016x\n", checksum); err != nil {
		return errs.Wrap(errs.IO, err, "writing checksum trailer")
	}

	if err := bw.Flush(); err != nil {
		return errs.Wrap(errs.IO, err, "flushing index")
	}
	return nil
}

func writeBody(w io.Writer, idx kmerindex.Persistable) error {
	lists := idx.RawLists()
	if _, err := fmt.Fprintf(w, "%d\n", len(lists)); err != nil {
		return errs.Wrap(errs.IO, err, "writing list count")
	}
	for _, list := range lists {
		if _, err := fmt.Fprintf(w, "%d ", len(list)); err != nil {
			return errs.Wrap(errs.IO, err, "writing list length")
		}
		for _, loc := range list {
			if err := binary.Write(w, byteOrder, uint64(loc)); err != nil {
				return errs.Wrap(errs.IO, err, "writing location")
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return errs.Wrap(errs.IO, err, "writing list terminator")
		}
	}

	var writeErr error
	idx.Entries(func(code uint64, slot uint32) {
		if writeErr != nil {
			return
		}
		if err := binary.Write(w, byteOrder, code); err != nil {
			writeErr = errs.Wrap(errs.IO, err, "writing code")
			return
		}
		if err := binary.Write(w, byteOrder, slot); err != nil {
			writeErr = errs.Wrap(errs.IO, err, "writing slot")
		}
	})
	return writeErr
}

// Read parses a khc binary index from r, verifying its header against
// expectedK (pass 0 to skip the k check, e.g. when the caller wants to learn
// k from the file). It constructs a fresh index via newIndex and returns the
// parsed header, subjects, and populated index.
//
// Read fails with errs.FormatMismatch if the magic, or (when expectedK != 0)
// the k-mer size, doesn't match.
func Read(r io.Reader, expectedK int, newIndex func(k int) (kmerindex.Persistable, error)) (Header, []Subject, kmerindex.Persistable, error) {
	br := bufio.NewReader(r)

	header, err := readHeader(br)
	if err != nil {
		return Header{}, nil, nil, err
	}
	if expectedK != 0 && header.KSize != expectedK {
		return Header{}, nil, nil, errs.New(errs.FormatMismatch,
			"index built for k=%d, expected k=%d", header.KSize, expectedK)
	}

	subjects := make([]Subject, header.NumSequences)
	for i := range subjects {
		line, err := br.ReadString('\n')
		if err != nil {
			return Header{}, nil, nil, errs.Wrap(errs.IO, err, "reading subject %d", i)
		}
		var s Subject
		if _, err := fmt.Sscanf(line, "%s %d", &s.ID, &s.Length); err != nil {
			return Header{}, nil, nil, errs.Wrap(errs.FormatMismatch, err, "parsing subject line %q", line)
		}
		subjects[i] = s
	}

	idx, err := newIndex(header.KSize)
	if err != nil {
		return Header{}, nil, nil, err
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return Header{}, nil, nil, errs.Wrap(errs.IO, err, "reading index body")
	}
	body, checksum, err := splitTrailer(rest)
	if err != nil {
		return Header{}, nil, nil, err
	}
	if checksum != nil && farm.Hash64(body) != *checksum {
		return Header{}, nil, nil, errs.New(errs.FormatMismatch, "index body checksum mismatch")
	}

	if err := readBody(bufio.NewReader(bytes.NewReader(body)), idx); err != nil {
		return Header{}, nil, nil, err
	}
	return header, subjects, idx, nil
}

// splitTrailer separates the index body from an optional trailing
// "\nchk <hex>\n" checksum line written by Write. The leading '\n' is the
// separator Write inserts between the raw binary body and the ASCII
// trailer, not part of the body itself, so it belongs to neither half.
// Files without the trailer (e.g. hand-constructed for tests) verify as
// unchecked.
func splitTrailer(rest []byte) (body []byte, checksum *uint64, err error) {
	i := bytes.LastIndex(rest, []byte("\nchk "))
	if i < 0 {
		return rest, nil, nil
	}
	trailer := rest[i+1:]
	body = rest[:i]
	var hex string
	if _, err := fmt.Sscanf(string(trailer), "chk %s", &hex); err != nil {
		return nil, nil, errs.Wrap(errs.FormatMismatch, err, "parsing checksum trailer")
	}
	var sum uint64
	if _, err := fmt.Sscanf(hex, "%016x", &sum); err != nil {
		return nil, nil, errs.Wrap(errs.FormatMismatch, err, "parsing checksum value")
	}
	return body, &sum, nil
}

func readHeader(br *bufio.Reader) (Header, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		return Header{}, errs.Wrap(errs.IO, err, "reading header")
	}
	var magic string
	var h Header
	n, err := fmt.Sscanf(line, "%s nseq %d nbases %d ksize %d maxvars %d",
		&magic, &h.NumSequences, &h.TotalBases, &h.KSize, &h.MaxVariants)
	if err != nil || n != 5 {
		return Header{}, errs.Wrap(errs.FormatMismatch, err, "malformed header %q", line)
	}
	if magic != Magic {
		return Header{}, errs.New(errs.FormatMismatch, "bad magic %q, want %q", magic, Magic)
	}
	return h, nil
}

func readBody(br *bufio.Reader, idx kmerindex.Persistable) error {
	countLine, err := br.ReadString('\n')
	if err != nil {
		return errs.Wrap(errs.IO, err, "reading list count")
	}
	var numLists int
	if _, err := fmt.Sscanf(countLine, "%d", &numLists); err != nil {
		return errs.Wrap(errs.FormatMismatch, err, "parsing list count %q", countLine)
	}

	lists := make([][]kmerindex.Location, numLists)
	for i := 0; i < numLists; i++ {
		count, err := readUint(br, ' ')
		if err != nil {
			return errs.Wrap(errs.FormatMismatch, err, "reading list %d length", i)
		}
		list := make([]kmerindex.Location, count)
		for j := range list {
			var raw uint64
			if err := binary.Read(br, byteOrder, &raw); err != nil {
				return errs.Wrap(errs.IO, err, "reading location %d of list %d", j, i)
			}
			list[j] = kmerindex.Location(raw)
		}
		if _, err := br.ReadByte(); err != nil { // trailing '\n'
			return errs.Wrap(errs.IO, err, "reading list terminator")
		}
		lists[i] = list
	}
	idx.SetLists(lists)

	for {
		var code uint64
		if err := binary.Read(br, byteOrder, &code); err != nil {
			if err == io.EOF {
				break
			}
			return errs.Wrap(errs.FormatMismatch, err, "reading code record")
		}
		var slot uint32
		if err := binary.Read(br, byteOrder, &slot); err != nil {
			return errs.Wrap(errs.FormatMismatch, err, "reading slot record")
		}
		idx.SetEntry(code, slot)
	}
	return nil
}

// readUint reads decimal digits up to and including delim.
func readUint(br *bufio.Reader, delim byte) (int, error) {
	field, err := br.ReadString(delim)
	if err != nil {
		return 0, err
	}
	field = field[:len(field)-1]
	var n int
	if _, err := fmt.Sscanf(field, "%d", &n); err != nil {
		return 0, err
	}
	return n, nil
}
