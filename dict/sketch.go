package dict

import "github.com/bits-and-blooms/bloom/v3"

// Sketch is an optional Bloom-filter companion for a Dict, giving a
// constant-time "definitely absent" check a caller can run ahead of a
// binary-search Find once a Dict is large enough that most lookups miss.
// It is adapted from the bloom filter the teacher's SST writer builds
// alongside each on-disk block; here it is built in one pass over an
// in-memory Dict instead of while streaming writes to a file.
//
// The dict package's own algorithms never consult a Sketch: it is
// constructed and owned by the caller, matching the "building block"
// framing of this package — a Sketch is a cache a caller may or may not
// choose to keep next to a given Dict.
type Sketch struct {
	filter *bloom.BloomFilter
}

// NewSketchFromDict builds a Sketch sized for d's current key count at the
// given target false-positive rate, then adds every key in d.
func NewSketchFromDict(d Dict, falsePositiveRate float64) *Sketch {
	n := uint(d.NumKeys())
	if n == 0 {
		n = 1
	}
	filter := bloom.NewWithEstimates(n, falsePositiveRate)
	s := &Sketch{filter: filter}
	Foldl(d, func(key, _ []byte, _ struct{}) struct{} {
		s.filter.Add(key)
		return struct{}{}
	}, struct{}{})
	return s
}

// MayContain reports whether k might be present in the Dict the Sketch was
// built from. A false return is a proof of absence; a true return means
// the caller still needs to consult the Dict itself.
func (s *Sketch) MayContain(k []byte) bool {
	return s.filter.Test(k)
}
