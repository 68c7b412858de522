package kmer

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"

	"github.com/zwets/khc/errs"
)

func scanStrict(t *testing.T, w *StrictWindow, seq string) []Code {
	t.Helper()
	w.Set([]byte(seq))
	var codes []Code
	for {
		ok, err := w.Next()
		assert.NoError(t, err)
		if !ok {
			break
		}
		c, err := w.Code()
		assert.NoError(t, err)
		codes = append(codes, c)
	}
	return codes
}

func TestStrictWindowScenario1(t *testing.T) {
	w, err := NewStrictWindow(3, false)
	assert.NoError(t, err)
	codes := scanStrict(t, w, "ACGTCA")
	expect.EQ(t, codes, []Code{6, 6, 17, 28})
}

// Universal invariant: for k odd and len(seq) >= k, StrictWindow yields
// exactly len(seq) - k + 1 codes.
func TestStrictWindowCount(t *testing.T) {
	w, err := NewStrictWindow(5, false)
	assert.NoError(t, err)
	seq := "ACGTACGTACG"
	codes := scanStrict(t, w, seq)
	expect.EQ(t, len(codes), len(seq)-5+1)
}

// Boundary: sequence shorter than k yields no windows.
func TestStrictWindowShortSequence(t *testing.T) {
	w, err := NewStrictWindow(7, false)
	assert.NoError(t, err)
	codes := scanStrict(t, w, "ACGT")
	expect.EQ(t, len(codes), 0)
}

func TestStrictWindowDegenerateErrorsWhenNotSkipping(t *testing.T) {
	w, err := NewStrictWindow(3, false)
	assert.NoError(t, err)
	w.Set([]byte("ACN"))
	ok, err := w.Next()
	assert.NoError(t, err)
	expect.True(t, ok)
	_, err = w.Code()
	assert.NotNil(t, err)
	expect.True(t, errs.Is(err, errs.DegenerateBase))
}

func TestStrictWindowSkipsDegenerate(t *testing.T) {
	w, err := NewStrictWindow(3, true)
	assert.NoError(t, err)
	// "ACNTGA": every window covering the N is skipped; only "TGA" survives.
	codes := scanStrict(t, w, "ACNTGA")
	expect.EQ(t, codes, []Code{encodeString(t, "TGA")})
}
