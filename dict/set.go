package dict

import (
	"bytes"
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// Merge returns a Dict containing every key from big and small, with small's
// values winning on key collisions. small and big must share identical
// key/value widths. The algorithm is a single linear walk over small,
// splicing each of its records into the remaining tail of big using a
// moving index — the same technique BulkInsert uses.
func Merge(small, big Dict) (Dict, error) {
	if small.keySize != big.keySize || small.valueSize != big.valueSize {
		return Dict{}, badArgf("dict: merge requires identical key/value widths")
	}
	return big.BulkInsert(small.ToOrdDict())
}

// Intersection returns a Dict containing exactly the keys present in every
// one of dicts, with values taken from whichever input was smallest (by
// packed buffer size). All inputs must share identical widths; fewer than
// two inputs is an error.
//
// It implements SvS (Small-vs-Small): sort the inputs by size ascending,
// treat the smallest as the candidate set, and filter it down against each
// remaining input in turn. The candidate set only shrinks, so later passes
// do less work, and because both the candidate and probed sets are walked
// in key order, each probe resumes from the rank the previous probe
// returned (rankFrom) instead of re-searching the whole probed set.
func Intersection(dicts ...Dict) (Dict, error) {
	if len(dicts) < 2 {
		return Dict{}, badArgf("dict: intersection requires at least two inputs")
	}
	ks, vs := dicts[0].keySize, dicts[0].valueSize
	for _, d := range dicts[1:] {
		if d.keySize != ks || d.valueSize != vs {
			return Dict{}, badArgf("dict: intersection requires identical key/value widths")
		}
	}

	ordered := append([]Dict(nil), dicts...)
	sort.SliceStable(ordered, func(i, j int) bool { return len(ordered[i].buf) < len(ordered[j].buf) })

	candidate := ordered[0]

	// First pass: filter the packed candidate buffer against ordered[1]
	// directly, marking survivors in a bitset instead of materializing an
	// intermediate buffer or list — the parallel bit-vector alternative
	// the design notes describe.
	probe := ordered[1]
	n := candidate.NumKeys()
	survivors := bitset.New(uint(n))
	prevRank := 0
	for i := 0; i < n; i++ {
		k := candidate.keyAt(i)
		r := probe.rankFrom(prevRank, probe.NumKeys(), k)
		prevRank = r
		if r < probe.NumKeys() && bytes.Equal(probe.keyAt(r), k) {
			survivors.Set(uint(i))
		}
	}

	pairs := make([]Pair, 0, survivors.Count())
	for i := uint(0); i < uint(n); i++ {
		if survivors.Test(i) {
			pairs = append(pairs, Pair{Key: candidate.keyAt(int(i)), Value: candidate.valueAt(int(i))})
		}
	}

	// Subsequent passes operate on the already-shrunk pair list: rebuilding
	// a packed buffer each round would cost more than the list filter once
	// most candidates have already been eliminated.
	for _, probe := range ordered[2:] {
		if len(pairs) == 0 {
			break
		}
		next := pairs[:0:0]
		prevRank = 0
		for _, p := range pairs {
			r := probe.rankFrom(prevRank, probe.NumKeys(), p.Key)
			prevRank = r
			if r < probe.NumKeys() && bytes.Equal(probe.keyAt(r), p.Key) {
				next = append(next, p)
			}
		}
		pairs = next
	}

	return FromOrdDict(ks, vs, pairs)
}
