package kmer

import "github.com/zwets/khc/errs"

// ExpandingWindow slides a k-mer window over a sequence like StrictWindow,
// but additionally enumerates every canonical k-mer consistent with
// degenerate symbols at the current position (spec.md §4.5).
//
// It owns k Cursors, one per offset in the window, and steps them like an
// odometer: the rightmost cursor advances fastest, carrying into its left
// neighbor on rollover. This mirrors zwets/kcst's kmerator/baserator pair.
type ExpandingWindow struct {
	k           int
	maxVariants int // 0 = unlimited

	seq     []byte
	pos     int // start offset of the current window
	cursors []Cursor
	variant int
}

// NewExpandingWindow creates an ExpandingWindow for k-mers of size k, capping
// the number of variants produced per window at maxVariants (0 = unlimited).
func NewExpandingWindow(k, maxVariants int) (*ExpandingWindow, error) {
	if err := validateK(k); err != nil {
		return nil, err
	}
	return &ExpandingWindow{
		k:           k,
		maxVariants: maxVariants,
		cursors:     make([]Cursor, k),
	}, nil
}

func (w *ExpandingWindow) lastStart() int { return len(w.seq) - w.k }

// loadCursors loads the k cursors from the window starting at w.pos.
func (w *ExpandingWindow) loadCursors() error {
	for i := 0; i < w.k; i++ {
		if err := w.cursors[i].Set(w.seq[w.pos+i]); err != nil {
			return err
		}
	}
	return nil
}

// Set binds the window to seq and positions it so that the first call to
// Next yields the first variant of the first window.
func (w *ExpandingWindow) Set(seq []byte) error {
	w.seq = seq
	w.pos = 0
	w.variant = -1
	if w.pos > w.lastStart() {
		return nil // empty sequence; Next will immediately return false
	}
	if err := w.loadCursors(); err != nil {
		return err
	}
	// Seed the "one-before-start" state: the rightmost cursor retreats one
	// step so the first Next's Advance lands back on variant 0.
	w.cursors[w.k-1].Retreat()
	return nil
}

// Next advances to the next variant, rolling the window forward once all
// variants of the current position have been produced. It returns false once
// the window has walked past the last valid start, and fails with
// errs.VariantExplosion if a single window's variant count would exceed
// maxVariants.
func (w *ExpandingWindow) Next() (bool, error) {
	if w.pos > w.lastStart() {
		return false, nil
	}
	for i := w.k - 1; i >= 0; i-- {
		if w.cursors[i].Advance() {
			w.variant++
			if w.maxVariants > 0 && w.variant >= w.maxVariants {
				return false, errs.New(errs.VariantExplosion,
					"variant cap %d exceeded at offset %d", w.maxVariants, w.pos)
			}
			return true, nil
		}
		// This cursor rolled over; carry into the cursor to its left.
	}
	// All cursors rolled over: slide the window one position right.
	w.pos++
	if w.pos > w.lastStart() {
		return false, nil
	}
	if err := w.loadCursors(); err != nil {
		return false, err
	}
	w.variant = 0
	return true, nil
}

// Variant returns the index of the current variant within the current
// window position (0 for the first variant at each position).
func (w *ExpandingWindow) Variant() int { return w.variant }

// Pos returns the 0-based start offset of the current window.
func (w *ExpandingWindow) Pos() int { return w.pos }

// Code returns the canonical code of the current variant.
func (w *ExpandingWindow) Code() Code { return EncodeCursors(w.cursors) }

// VariantCount returns the total number of variants the window at the
// current position would produce — the product of each offset's cursor
// cardinality (spec.md §8's universal invariant). It does not fail on
// overflow of maxVariants; callers that only need the count (rather than
// enumerating) can use this to pre-check before calling Next in a loop.
func (w *ExpandingWindow) VariantCount() int {
	n := 1
	for i := range w.cursors {
		n *= w.cursors[i].Variants()
	}
	return n
}
