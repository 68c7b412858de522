package kmerindex

import "github.com/biogo/store/llrb"

// codeSlot is the llrb.Comparable entry stored in SparseIndex's tree: a
// canonical code paired with its slot in the shared secondary
// vector-of-vectors. Only code participates in ordering.
type codeSlot struct {
	code uint64
	slot uint32
}

// Compare implements llrb.Comparable.
func (e codeSlot) Compare(other llrb.Comparable) int {
	o := other.(codeSlot)
	switch {
	case e.code < o.code:
		return -1
	case e.code > o.code:
		return 1
	default:
		return 0
	}
}

// SparseIndex backs the code -> slot mapping with a left-leaning
// red-black tree (github.com/biogo/store/llrb) instead of DenseIndex's
// direct-addressed array, giving O(log n) lookup in the number of distinct
// codes rather than O(1) at the cost of the full primary array. It is
// selected when DenseIndex's primary array would exceed the memory budget
// (spec.md §4.6).
type SparseIndex struct {
	k     int
	tree  llrb.Tree
	lists [][]Location // lists[0] is always empty
}

// NewSparseIndex creates a SparseIndex for k-mers of size k.
func NewSparseIndex(k int) (*SparseIndex, error) {
	if err := validateK(k); err != nil {
		return nil, err
	}
	return &SparseIndex{
		k:     k,
		lists: [][]Location{nil},
	}, nil
}

// Add appends loc to code's location list, preserving insertion order.
func (s *SparseIndex) Add(code uint64, loc Location) {
	found := s.tree.Get(codeSlot{code: code})
	var slot uint32
	if found == nil {
		slot = uint32(len(s.lists))
		s.lists = append(s.lists, nil)
		s.tree.Insert(codeSlot{code: code, slot: slot})
	} else {
		slot = found.(codeSlot).slot
	}
	s.lists[slot] = append(s.lists[slot], loc)
}

// Get returns code's location list, or nil if code was never added.
func (s *SparseIndex) Get(code uint64) []Location {
	found := s.tree.Get(codeSlot{code: code})
	if found == nil {
		return nil
	}
	return s.lists[found.(codeSlot).slot]
}

// Size returns the number of distinct codes with a non-empty list.
func (s *SparseIndex) Size() int { return s.tree.Len() }

// KSize returns the k this index was constructed for.
func (s *SparseIndex) KSize() int { return s.k }

// Entries iterates the (code, slot) pairs in ascending code order, for the
// codec to persist. SparseIndex writes all map entries, per spec.md §4.9
// ("SparseIndex writes all map entries").
func (s *SparseIndex) Entries(fn func(code uint64, slot uint32)) {
	s.tree.Do(func(c llrb.Comparable) bool {
		e := c.(codeSlot)
		fn(e.code, e.slot)
		return false
	})
}

// RawLists returns the raw secondary vector-of-vectors, for the codec to
// serialize in slot order.
func (s *SparseIndex) RawLists() [][]Location { return s.lists }

// SetEntry is used by the codec while reading: it installs a previously
// decoded (code, slot) mapping into the tree.
func (s *SparseIndex) SetEntry(code uint64, slot uint32) {
	s.tree.Insert(codeSlot{code: code, slot: slot})
}

// SetLists is used by the codec while reading: it replaces the secondary
// vector-of-vectors wholesale with the decoded lists.
func (s *SparseIndex) SetLists(lists [][]Location) {
	s.lists = lists
}
