package kmer

import "github.com/zwets/khc/errs"

// StrictWindow slides a k-mer window over a sequence, producing one
// canonical Code per position. It rejects (or, if SkipDegenerates is set,
// silently skips) windows that contain a degenerate symbol.
//
// This is the window CoverageEngine uses to kmerize queries (spec.md §4.4,
// §4.8): queries are never expanded into variants, only matched against
// the index built from the (possibly expanded) subject k-mers.
type StrictWindow struct {
	k               int
	skipDegenerates bool

	seq []byte
	pos int // index of the current window's first base; -1 before the first Next
}

// NewStrictWindow creates a StrictWindow for k-mers of size k. k must be odd
// and in [1, MaxK].
func NewStrictWindow(k int, skipDegenerates bool) (*StrictWindow, error) {
	if err := validateK(k); err != nil {
		return nil, err
	}
	return &StrictWindow{k: k, skipDegenerates: skipDegenerates}, nil
}

// Set binds the window to seq, resetting it to "one before the first k-mer".
func (w *StrictWindow) Set(seq []byte) {
	w.seq = seq
	w.pos = -1
}

// lastStart is the last valid window start offset, per spec.md §4.4:
// len(seq) - k + 1 windows total, so starts run [0, len(seq)-k].
func (w *StrictWindow) lastStart() int { return len(w.seq) - w.k }

// Next advances to the next valid window. It returns false once the window
// has walked past the last valid start. If SkipDegenerates is set, windows
// containing a degenerate symbol are skipped rather than raising an error.
func (w *StrictWindow) Next() (bool, error) {
	for {
		w.pos++
		if w.pos > w.lastStart() {
			return false, nil
		}
		if !w.skipDegenerates {
			return true, nil
		}
		// Scan the window for a degenerate symbol; if found, jump the window
		// to just past it (spec.md: "scanning forward k positions at a time
		// on hit") rather than re-examining bytes we've already checked.
		degenAt := -1
		for i := 0; i < w.k; i++ {
			sym := w.seq[w.pos+i]
			codes, err := Codes(sym)
			if err != nil {
				return false, err
			}
			if len(codes) > 1 {
				degenAt = i
				break
			}
		}
		if degenAt == -1 {
			return true, nil
		}
		w.pos += degenAt // next loop iteration's pos++ moves past the degenerate byte
	}
}

// Code returns the canonical code of the current window. It fails with
// errs.InvalidSymbol if a non-IUPAC letter appears, and errs.DegenerateBase
// if a degenerate symbol appears and SkipDegenerates is false.
func (w *StrictWindow) Code() (Code, error) {
	codes := make([]Base, w.k)
	for i := 0; i < w.k; i++ {
		bases, err := Codes(w.seq[w.pos+i])
		if err != nil {
			return 0, err
		}
		if len(bases) > 1 {
			return 0, errs.New(errs.DegenerateBase, "degenerate base %q at offset %d", w.seq[w.pos+i], w.pos+i)
		}
		codes[i] = bases[0]
	}
	return Encode(codes), nil
}

// Pos returns the 0-based start offset of the current window.
func (w *StrictWindow) Pos() int { return w.pos }
