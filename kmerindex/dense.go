package kmerindex

// DenseIndex direct-addresses a primary array of size 2^(2k-1), one slot per
// possible canonical code. Each slot holds either 0 ("no list yet") or the
// index of that code's location list in the secondary vector-of-vectors.
// Slot 0 of the secondary vector is always the (shared, empty) list, so
// "absent" and "empty" are the same representation — a non-owning, small
// integer handle rather than a pointer, per spec.md §9's pointer-into-vector
// design note.
//
// Lookup is O(1); the primary array is allocated eagerly at construction, so
// DenseIndex's memory footprint is dominated by 4*2^(2k-1) bytes regardless
// of how many codes are ever added (spec.md §4.6).
type DenseIndex struct {
	k       int
	primary []uint32     // code -> slot, 0 means "empty"
	lists   [][]Location // lists[0] is always empty; lists[slot] for slot>0 holds Add'd locations
}

// NewDenseIndex allocates a DenseIndex for k-mers of size k. The primary
// array is sized to the full (2k-1)-bit code space.
func NewDenseIndex(k int) (*DenseIndex, error) {
	if err := validateK(k); err != nil {
		return nil, err
	}
	return &DenseIndex{
		k:       k,
		primary: make([]uint32, DensePrimarySize(k)),
		lists:   [][]Location{nil}, // slot 0: the shared empty list
	}, nil
}

// Add appends loc to code's location list, preserving insertion order.
func (d *DenseIndex) Add(code uint64, loc Location) {
	slot := d.primary[code]
	if slot == 0 {
		slot = uint32(len(d.lists))
		d.lists = append(d.lists, nil)
		d.primary[code] = slot
	}
	d.lists[slot] = append(d.lists[slot], loc)
}

// Get returns code's location list, or nil if code was never added.
func (d *DenseIndex) Get(code uint64) []Location {
	slot := d.primary[code]
	if slot == 0 {
		return nil
	}
	return d.lists[slot]
}

// Size returns the number of distinct codes with a non-empty list.
func (d *DenseIndex) Size() int { return len(d.lists) - 1 }

// KSize returns the k this index was constructed for.
func (d *DenseIndex) KSize() int { return d.k }

// Entries iterates the (code, slot) pairs the codec needs to persist: only
// the non-empty primary slots, per spec.md §4.9 ("DenseIndex writes only
// non-empty slots").
func (d *DenseIndex) Entries(fn func(code uint64, slot uint32)) {
	for code, slot := range d.primary {
		if slot != 0 {
			fn(uint64(code), slot)
		}
	}
}

// RawLists returns the raw secondary vector-of-vectors, for the codec to
// serialize in slot order.
func (d *DenseIndex) RawLists() [][]Location { return d.lists }

// SetEntry is used by the codec while reading: it installs a previously
// decoded (code, slot) primary mapping, assuming RawLists has already been
// populated with at least slot+1 entries.
func (d *DenseIndex) SetEntry(code uint64, slot uint32) {
	d.primary[code] = slot
}

// SetLists is used by the codec while reading: it replaces the secondary
// vector-of-vectors wholesale with the decoded lists (lists[0] must be empty).
func (d *DenseIndex) SetLists(lists [][]Location) {
	d.lists = lists
}
