// Package kmer implements canonical k-mer encoding under reverse-complement
// equivalence, and the two window generators (StrictWindow, ExpandingWindow)
// that slide a k-mer window over a sequence.
//
// Grounded on github.com/grailbio/bio's fusion package (asciiToKmerMap-style
// lookup tables, the kmerizer sliding-window shape) and on the single-bit
// middle-base trick from zwets/kcst's kmerise.h.
package kmer

import "github.com/zwets/khc/errs"

// MaxK is the largest supported k-mer size: the canonical code needs 2k-1
// bits, and must fit in a uint64.
const MaxK = 31

// Code is a canonical k-mer encoding: (2k-1) bits, packed high-to-low as
// described in encoder.go's Encode.
type Code uint64

// validateK checks that k is odd and in [1, MaxK], returning errs.UnsupportedK
// otherwise.
func validateK(k int) error {
	if k < 1 || k > MaxK {
		return errs.New(errs.UnsupportedK, "k=%d out of range [1,%d]", k, MaxK)
	}
	if k%2 == 0 {
		return errs.New(errs.UnsupportedK, "k=%d must be odd", k)
	}
	return nil
}

// Encode computes the canonical code for the k bases in codes.
//
// The middle base (index k/2) decides strand: if it is A or C, the bases are
// encoded forward; otherwise the reverse complement is encoded instead (bases
// reversed, each XORed with 3). Every base contributes 2 bits except the
// middle base, which contributes 1 (its low bit, which is 0 for A and 1 for C
// after canonicalization). This halves the code space relative to a naive
// 2k-bit encoding, at the cost of reconstructing strand choice on decode.
func Encode(codes []Base) Code {
	k := len(codes)
	mid := k / 2
	forward := codes[mid] == A || codes[mid] == C

	var res Code
	if forward {
		for i := 0; i < mid; i++ {
			res = (res << 2) | Code(codes[i])
		}
		res = (res << 1) | Code(codes[mid]&1)
		for i := mid + 1; i < k; i++ {
			res = (res << 2) | Code(codes[i])
		}
	} else {
		for i := k - 1; i > mid; i-- {
			res = (res << 2) | Code(codes[i].Complement())
		}
		res = (res << 1) | Code(codes[mid].Complement()&1)
		for i := mid - 1; i >= 0; i-- {
			res = (res << 2) | Code(codes[i].Complement())
		}
	}
	return res
}

// cursorSource is satisfied by cursorSlice (a []Cursor): EncodeCursors reads the current
// base of each cursor without requiring the caller to materialize a []Base.
type cursorSource interface {
	len() int
	base(i int) Base
}

type cursorSlice []Cursor

func (c cursorSlice) len() int        { return len(c) }
func (c cursorSlice) base(i int) Base { return c[i].Current() }

// EncodeCursors computes the canonical code of the k-mer whose bases are the
// current positions of cursors (one Cursor per k-mer offset). Used by
// ExpandingWindow, where bases come from degenerate-symbol cursors rather
// than a plain byte slice.
func EncodeCursors(cursors []Cursor) Code {
	return encodeSource(cursorSlice(cursors))
}

func encodeSource(src cursorSource) Code {
	k := src.len()
	mid := k / 2
	forward := src.base(mid) == A || src.base(mid) == C

	var res Code
	if forward {
		for i := 0; i < mid; i++ {
			res = (res << 2) | Code(src.base(i))
		}
		res = (res << 1) | Code(src.base(mid)&1)
		for i := mid + 1; i < k; i++ {
			res = (res << 2) | Code(src.base(i))
		}
	} else {
		for i := k - 1; i > mid; i-- {
			res = (res << 2) | Code(src.base(i).Complement())
		}
		res = (res << 1) | Code(src.base(mid).Complement()&1)
		for i := mid - 1; i >= 0; i-- {
			res = (res << 2) | Code(src.base(i).Complement())
		}
	}
	return res
}
