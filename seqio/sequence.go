// Package seqio streams sequence records from FASTA, FASTQ, and bare base
// text, optionally gzip-compressed. It is spec.md's external "sequence
// reader" collaborator (§1: "out of scope"), implemented here because every
// Go repo needs it wired to something real.
//
// Grounded on github.com/grailbio/bio's encoding/fastq (the Scan/Err scanner
// shape) and encoding/fasta (header/ID splitting), adapted
// from fasta's eager whole-file map to a single-pass streaming iterator
// because the core wants a {id, header, data} iterator, not random access.
package seqio

// Sequence is one record read from a Reader: an ID (the first
// whitespace-delimited token of the header), the full header line verbatim,
// and the sequence bytes.
type Sequence struct {
	ID     string
	Header string
	Data   []byte
}

// Reader streams Sequences one at a time. Scan returns false once the
// stream is exhausted or an error occurs; the caller must check Err to
// distinguish the two, exactly as bufio.Scanner and fastq.Scanner do.
type Reader interface {
	Scan() bool
	Sequence() Sequence
	Err() error
}
