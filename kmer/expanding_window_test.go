package kmer

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"

	"github.com/zwets/khc/errs"
)

type variantTuple struct {
	pos     int
	variant int
	code    Code
}

func scanExpanding(t *testing.T, w *ExpandingWindow, seq string) ([]variantTuple, error) {
	t.Helper()
	if err := w.Set([]byte(seq)); err != nil {
		return nil, err
	}
	var tuples []variantTuple
	for {
		ok, err := w.Next()
		if err != nil {
			return tuples, err
		}
		if !ok {
			break
		}
		tuples = append(tuples, variantTuple{w.Pos(), w.Variant(), w.Code()})
	}
	return tuples, nil
}

// Scenario 4: k=3, max_variants=0 (unlimited), subject NNNNN yields exactly
// 3 window positions * 64 variants = 192 tuples.
func TestExpandingWindowUnlimitedExpansion(t *testing.T) {
	w, err := NewExpandingWindow(3, 0)
	assert.NoError(t, err)
	tuples, err := scanExpanding(t, w, "NNNNN")
	assert.NoError(t, err)
	expect.EQ(t, len(tuples), 192)

	// Each window position contributes exactly 64 variants, numbered 0..63.
	counts := map[int]int{}
	for _, tup := range tuples {
		counts[tup.pos]++
		expect.True(t, tup.variant >= 0 && tup.variant < 64)
	}
	expect.EQ(t, len(counts), 3)
	for pos, n := range counts {
		expect.EQ(t, n, 64, "pos=%d", pos)
	}
}

// The first variant at each window position is numbered 0.
func TestExpandingWindowFirstVariantIsZero(t *testing.T) {
	w, err := NewExpandingWindow(3, 0)
	assert.NoError(t, err)
	tuples, err := scanExpanding(t, w, "NNN")
	assert.NoError(t, err)
	expect.True(t, len(tuples) > 0)
	expect.EQ(t, tuples[0].variant, 0)
}

// Universal invariant: a window's total variant count is the product of
// each offset's symbol cardinality.
func TestExpandingWindowVariantCountProduct(t *testing.T) {
	w, err := NewExpandingWindow(3, 0)
	assert.NoError(t, err)
	assert.NoError(t, w.Set([]byte("ANS"))) // A:1, N:4, S:2 -> product 8
	ok, err := w.Next()
	assert.NoError(t, err)
	expect.True(t, ok)
	expect.EQ(t, w.VariantCount(), 8)
}

// Variant explosion: capping below a window's true product fails.
func TestExpandingWindowVariantExplosion(t *testing.T) {
	w, err := NewExpandingWindow(3, 8)
	assert.NoError(t, err)
	// A:1, N:4, N:4 -> product 16 > 8
	_, err = scanExpanding(t, w, "ANN")
	assert.NotNil(t, err)
	expect.True(t, errs.Is(err, errs.VariantExplosion))
}

// Strict symbols (no degeneracy) still produce exactly one variant per
// window, matching StrictWindow's output.
func TestExpandingWindowNonDegenerateMatchesStrict(t *testing.T) {
	w, err := NewExpandingWindow(3, 0)
	assert.NoError(t, err)
	tuples, err := scanExpanding(t, w, "ACGTCA")
	assert.NoError(t, err)
	var codes []Code
	for _, tup := range tuples {
		expect.EQ(t, tup.variant, 0)
		codes = append(codes, tup.code)
	}
	expect.EQ(t, codes, []Code{6, 6, 17, 28})
}
