package database

import (
	"github.com/zwets/khc/kmer"
)

// Hit is one subject reported from a query: its identity, length, and the
// coverage the query achieved against it.
type Hit struct {
	ID      string
	Length  uint32
	Hits    uint32
	Percent float64
}

// Query runs a single query sequence against the database (spec.md §4.8):
// it builds one coverage bit-vector per subject, marks positions hit by any
// query k-mer, and returns every subject whose coverage percentage meets
// opts.MinCoveragePercent, in subject order.
//
// A query k-mer containing a degenerate base fails with errs.DegenerateBase
// unless the database's SkipDegenerates option is set, in which case such
// k-mers are silently skipped instead (spec.md §7).
func (db *TemplateDatabase) Query(seq []byte) ([]Hit, error) {
	vectors := make([][]byte, len(db.subjects))
	for i, s := range db.subjects {
		vectors[i] = make([]byte, s.Length)
	}

	window, err := kmer.NewStrictWindow(db.opts.KmerLength, db.opts.SkipDegenerates)
	if err != nil {
		return nil, err
	}
	window.Set(seq)
	for {
		ok, err := window.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		code, err := window.Code()
		if err != nil {
			return nil, err
		}
		for _, loc := range db.index.Get(uint64(code)) {
			si, pos := loc.SubjectIndex(), loc.Position()
			if int(si) >= len(vectors) || int(pos) >= len(vectors[si]) {
				continue // stale location from a differently-sized rebuild; ignore rather than panic
			}
			vectors[si][pos] = 1 // idempotent: duplicate sets are harmless, which is why a bit-vector (not a counter) is used
		}
	}

	var hits []Hit
	for i, s := range db.subjects {
		n := popcount(vectors[i])
		var percent float64
		if s.Length > 0 {
			percent = 100 * float64(n) / float64(s.Length)
		}
		if percent >= db.opts.MinCoveragePercent {
			hits = append(hits, Hit{ID: s.ID, Length: s.Length, Hits: uint32(n), Percent: percent})
		}
	}
	return hits, nil
}

func popcount(vector []byte) int {
	n := 0
	for _, b := range vector {
		n += int(b)
	}
	return n
}
