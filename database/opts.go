package database

import "github.com/zwets/khc/kmerindex"

// Opts holds the tunables of a TemplateDatabase build and query, mirroring
// fusion.Opts/fusion.DefaultOpts: every scalar knob lives here, and cmd/khc
// copies its flag values onto a copy of DefaultOpts.
type Opts struct {
	// KmerLength is k, the k-mer size in bases. Must be odd, 1..kmer.MaxK.
	KmerLength int

	// MaxVariants caps the number of canonical k-mers a single degenerate
	// subject window may expand into; 0 means unlimited. Go: -j.
	MaxVariants int

	// MinCoveragePercent is the minimum per-subject coverage percentage a
	// query result must meet to be reported. Go: -c.
	MinCoveragePercent float64

	// SkipDegenerates, when true, causes query k-mers containing a
	// degenerate base to be silently skipped rather than raising
	// errs.DegenerateBase. Go: -s.
	SkipDegenerates bool

	// MemoryBudget governs whether the built index uses DenseIndex or
	// SparseIndex; see kmerindex.Budget. Go: -m.
	MemoryBudget kmerindex.Budget
}

// DefaultOpts gives the defaults spec.md §6 assigns the khc CLI flags.
var DefaultOpts = Opts{
	KmerLength:         0, // no sensible default: required when building from FASTA
	MaxVariants:        1024,
	MinCoveragePercent: 90.0,
	SkipDegenerates:    false,
	MemoryBudget:       kmerindex.Budget{}, // cmd/khc fills this from DefaultBudget()
}
