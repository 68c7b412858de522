package kmerindex

import (
	"github.com/zwets/khc/errs"
	"github.com/zwets/khc/kmer"
)

// validateK enforces the same range spec.md requires of the encoder
// (k odd, 1..kmer.MaxK), naming the compiled maximum in the error per
// spec.md §4.6.
func validateK(k int) error {
	if k < 1 || k > kmer.MaxK {
		return errs.New(errs.UnsupportedK, "k=%d out of range [1,%d]", k, kmer.MaxK)
	}
	if k%2 == 0 {
		return errs.New(errs.UnsupportedK, "k=%d must be odd", k)
	}
	return nil
}
