// Package database implements TemplateDatabase and CoverageEngine: the
// subject library built from a FASTA-like sequence stream, and the
// per-query coverage computation against it (spec.md §4.7, §4.8).
//
// Grounded on github.com/grailbio/bio's fusion.GeneDB (a singleton owning a
// kmerIndex, built once from a sequence source and then queried) and its
// Opts/DefaultOpts configuration pattern.
package database

import (
	"github.com/zwets/khc/kmer"
	"github.com/zwets/khc/kmerindex"
	"github.com/zwets/khc/seqio"
)

// Subject is one sequence in the template database: its ID and its length
// measured in k-mers (bases - k + 1, or 0 if shorter than k).
type Subject struct {
	ID     string
	Length uint32
}

// TemplateDatabase owns the ordered subject list and the KmerIndex built
// from them. Once built it is immutable (spec.md §5); CoverageEngine-backed
// Query calls only read from it.
type TemplateDatabase struct {
	opts       Opts
	subjects   []Subject
	index      kmerindex.Persistable
	totalBases uint64
}

// Build reads every sequence from r in order, appends a Subject for each,
// and indexes its canonical k-mers (expanded for degenerate bases per
// opts.MaxVariants) into a fresh KmerIndex chosen by opts.MemoryBudget.
//
// Per spec.md §4.7: all variants of one degenerate window share a single
// location, so the in-flight position counter only advances when the
// expander reports variant 0 (a new window position, not a new variant of
// the same position).
func Build(r seqio.Reader, opts Opts) (*TemplateDatabase, error) {
	index, err := kmerindex.New(opts.KmerLength, opts.MemoryBudget)
	if err != nil {
		return nil, err
	}
	window, err := kmer.NewExpandingWindow(opts.KmerLength, opts.MaxVariants)
	if err != nil {
		return nil, err
	}

	db := &TemplateDatabase{opts: opts, index: index}
	var subjectIndex uint32
	for r.Scan() {
		seq := r.Sequence()
		length := kmerLength(len(seq.Data), opts.KmerLength)
		db.subjects = append(db.subjects, Subject{ID: seq.ID, Length: length})
		db.totalBases += uint64(len(seq.Data))

		if length > 0 {
			if err := window.Set(seq.Data); err != nil {
				return nil, err
			}
			// position starts "one before the first k-mer": unsigned wraparound
			// (^uint32(0) == 0xFFFFFFFF) makes the first increment land on 0,
			// the same one-before-start trick as kmer.Cursor.Retreat.
			position := ^uint32(0)
			for {
				ok, err := window.Next()
				if err != nil {
					return nil, err
				}
				if !ok {
					break
				}
				if window.Variant() == 0 {
					position++
				}
				index.Add(uint64(window.Code()), kmerindex.NewLocation(subjectIndex, position))
			}
		}
		subjectIndex++
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return db, nil
}

// kmerLength computes a subject's length in k-mers: bases - k + 1, or 0 if
// the sequence is shorter than k.
func kmerLength(bases, k int) uint32 {
	n := bases - k + 1
	if n < 0 {
		n = 0
	}
	return uint32(n)
}

// Subjects returns the subject list in database order.
func (db *TemplateDatabase) Subjects() []Subject { return db.subjects }

// KSize returns the k-mer size the database was built for.
func (db *TemplateDatabase) KSize() int { return db.opts.KmerLength }

// Index returns the underlying persistable index, for binfmt.Write.
func (db *TemplateDatabase) Index() kmerindex.Persistable { return db.index }

// TotalBases returns the sum of every subject's raw base count, as tracked
// during Build. It is informational only: it feeds binfmt.Header.TotalBases
// on write and is never checked on read (spec.md §4.9's Read contract only
// verifies magic and k).
func (db *TemplateDatabase) TotalBases() uint64 { return db.totalBases }

// FromPersisted reconstructs a TemplateDatabase from subjects and an index
// already populated by binfmt.Read (e.g. from a previously-written -w
// file), under the given query-time options. totalBases is carried through
// from the binary header purely so a re-write of a loaded database reports
// the same nbases figure.
func FromPersisted(subjects []Subject, index kmerindex.Persistable, opts Opts, totalBases uint64) *TemplateDatabase {
	return &TemplateDatabase{opts: opts, subjects: subjects, index: index, totalBases: totalBases}
}
