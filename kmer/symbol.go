package kmer

import "github.com/zwets/khc/errs"

// Base is one of the four DNA bases, numerically 0..3 (A, C, G, T). The
// reverse complement of a base is its value XOR 3.
type Base uint8

const (
	A Base = 0
	C Base = 1
	G Base = 2
	T Base = 3
)

// Complement returns the Watson-Crick complement of b.
func (b Base) Complement() Base { return b ^ 3 }

// symbolCodes maps each IUPAC DNA letter to the (non-empty) list of bases it
// denotes. Absent letters (E,F,I,J,L,O,P,Q,U,X,Z) have a nil entry and fail
// lookup with errs.InvalidSymbol. Indexed by uppercase ASCII letter minus 'A'.
var symbolCodes = [26][]Base{
	'A' - 'A': {A},
	'B' - 'A': {C, G, T},
	'C' - 'A': {C},
	'D' - 'A': {A, G, T},
	'G' - 'A': {G},
	'H' - 'A': {A, C, T},
	'K' - 'A': {G, T},
	'M' - 'A': {A, C},
	'N' - 'A': {A, C, G, T},
	'R' - 'A': {A, G},
	'S' - 'A': {C, G},
	'T' - 'A': {T},
	'V' - 'A': {A, C, G},
	'W' - 'A': {A, T},
	'Y' - 'A': {C, T},
}

// Codes returns the base codes denoted by the IUPAC letter sym (case
// insensitive). It fails with errs.InvalidSymbol for any letter outside the
// IUPAC DNA alphabet.
func Codes(sym byte) ([]Base, error) {
	var o byte
	switch {
	case sym >= 'a' && sym <= 'z':
		o = sym - 'a'
	case sym >= 'A' && sym <= 'Z':
		o = sym - 'A'
	default:
		return nil, errs.New(errs.InvalidSymbol, "invalid symbol: %q", sym)
	}
	codes := symbolCodes[o]
	if codes == nil {
		return nil, errs.New(errs.InvalidSymbol, "invalid symbol: %q", sym)
	}
	return codes, nil
}

// IsDegenerate reports whether sym denotes more than one base.
func IsDegenerate(sym byte) bool {
	codes, err := Codes(sym)
	return err == nil && len(codes) > 1
}
