package kmerindex

import (
	"testing"

	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestLocationPacking(t *testing.T) {
	loc := NewLocation(3, 12345)
	expect.EQ(t, loc.SubjectIndex(), uint32(3))
	expect.EQ(t, loc.Position(), uint32(12345))
}

func TestDensePrimarySize(t *testing.T) {
	expect.EQ(t, DensePrimarySize(3), uint64(1)<<5)
	expect.EQ(t, DensePrimarySize(5), uint64(1)<<9)
}

func TestBudgetFits(t *testing.T) {
	b := Budget{Bytes: DensePrimarySize(3) * denseEntrySize}
	expect.True(t, b.Fits(3))
	expect.False(t, b.Fits(5))
}

func TestNewSelectsByBudget(t *testing.T) {
	idx, err := New(3, Budget{Bytes: 1 << 30})
	assert.NoError(t, err)
	_, isDense := idx.(*DenseIndex)
	expect.True(t, isDense)

	idx, err = New(3, Budget{Bytes: 0})
	assert.NoError(t, err)
	_, isSparse := idx.(*SparseIndex)
	expect.True(t, isSparse)
}

// Universal invariant: DenseIndex.Get and SparseIndex.Get return identical
// lists for identical construction sequences.
func TestDenseSparseParity(t *testing.T) {
	dense, err := NewDenseIndex(5)
	assert.NoError(t, err)
	sparse, err := NewSparseIndex(5)
	assert.NoError(t, err)

	adds := []struct {
		code uint64
		loc  Location
	}{
		{7, NewLocation(0, 0)},
		{7, NewLocation(0, 4)},
		{200, NewLocation(1, 2)},
		{7, NewLocation(1, 9)},
	}
	for _, a := range adds {
		dense.Add(a.code, a.loc)
		sparse.Add(a.code, a.loc)
	}

	expect.EQ(t, dense.Get(7), sparse.Get(7))
	expect.EQ(t, dense.Get(200), sparse.Get(200))
	expect.EQ(t, dense.Size(), sparse.Size())
}

func TestGetAbsentCodeReturnsEmptyNotError(t *testing.T) {
	dense, err := NewDenseIndex(5)
	assert.NoError(t, err)
	sparse, err := NewSparseIndex(5)
	assert.NoError(t, err)

	expect.EQ(t, len(dense.Get(999)), 0)
	expect.EQ(t, len(sparse.Get(999)), 0)
}

func TestValidateKRejectsEvenAndOutOfRange(t *testing.T) {
	_, err := NewDenseIndex(4)
	assert.NotNil(t, err)
	_, err = NewDenseIndex(33)
	assert.NotNil(t, err)
	_, err = NewSparseIndex(0)
	assert.NotNil(t, err)
}

func TestPersistableRoundTripsEntries(t *testing.T) {
	for _, idx := range []Persistable{mustDense(t, 3), mustSparse(t, 3)} {
		idx.Add(5, NewLocation(0, 0))
		idx.Add(9, NewLocation(0, 1))

		seen := map[uint64]uint32{}
		idx.Entries(func(code uint64, slot uint32) { seen[code] = slot })
		expect.EQ(t, len(seen), 2)

		fresh := freshLike(t, idx)
		fresh.SetLists(idx.RawLists())
		for code, slot := range seen {
			fresh.SetEntry(code, slot)
		}
		expect.EQ(t, fresh.Get(5), idx.Get(5))
		expect.EQ(t, fresh.Get(9), idx.Get(9))
	}
}

func mustDense(t *testing.T, k int) Persistable {
	t.Helper()
	d, err := NewDenseIndex(k)
	assert.NoError(t, err)
	return d
}

func mustSparse(t *testing.T, k int) Persistable {
	t.Helper()
	s, err := NewSparseIndex(k)
	assert.NoError(t, err)
	return s
}

func freshLike(t *testing.T, idx Persistable) Persistable {
	t.Helper()
	switch idx.(type) {
	case *DenseIndex:
		return mustDense(t, idx.KSize())
	default:
		return mustSparse(t, idx.KSize())
	}
}
