package kmer

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func encodeString(t *testing.T, s string) Code {
	t.Helper()
	codes := make([]Base, len(s))
	for i := 0; i < len(s); i++ {
		bases, err := Codes(s[i])
		if err != nil {
			t.Fatalf("Codes(%q): %v", s[i], err)
		}
		codes[i] = bases[0]
	}
	return Encode(codes)
}

func revcomp(s string) string {
	comp := map[byte]byte{'A': 'T', 'C': 'G', 'G': 'C', 'T': 'A'}
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[len(s)-1-i] = comp[s[i]]
	}
	return string(out)
}

// Scenario 1: k=3, subject ACGTCA. Windows ACG, CGT, GTC, TCA encode to
// 6, 6, 17, 28.
func TestEncodeCanonical3mer(t *testing.T) {
	expect.EQ(t, encodeString(t, "ACG"), Code(6))
	expect.EQ(t, encodeString(t, "CGT"), Code(6)) // reverse-complements to ACG
	expect.EQ(t, encodeString(t, "GTC"), Code(17))
	expect.EQ(t, encodeString(t, "TCA"), Code(28))
}

// Universal invariant: encode(s) == encode(revcomp(s)) for all k.
func TestEncodeReverseComplementInvariant(t *testing.T) {
	seqs := []string{"ACG", "GGGCCCAAA", "ACGATTAGCGATAGG", "T", "A"}
	for _, s := range seqs {
		if len(s)%2 == 0 {
			continue // k must be odd
		}
		expect.EQ(t, encodeString(t, s), encodeString(t, revcomp(s)))
	}
}

// Scenario 2: k=7, a sequence and its reverse complement produce the same
// multiset of codes (in reversed order, since window i of one aligns with
// window len-k-i of the other's reverse complement).
func TestEncodeReverseComplementSequence(t *testing.T) {
	fwd := "ACGATTAGCGATAGGGT"
	rev := revcomp(fwd)
	const k = 7
	var fwdCodes, revCodes []Code
	for i := 0; i+k <= len(fwd); i++ {
		fwdCodes = append(fwdCodes, encodeString(t, fwd[i:i+k]))
	}
	for i := 0; i+k <= len(rev); i++ {
		revCodes = append(revCodes, encodeString(t, rev[i:i+k]))
	}
	expect.EQ(t, len(fwdCodes), len(revCodes))
	for i := range fwdCodes {
		expect.EQ(t, fwdCodes[i], revCodes[len(revCodes)-1-i])
	}
}

// Boundary: k=1, T canonicalizes to A's code (0).
func TestEncodeK1Boundary(t *testing.T) {
	expect.EQ(t, encodeString(t, "A"), Code(0))
	expect.EQ(t, encodeString(t, "T"), Code(0))
	expect.EQ(t, encodeString(t, "C"), Code(1))
	expect.EQ(t, encodeString(t, "G"), Code(1))
}
