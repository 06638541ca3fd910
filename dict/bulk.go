package dict

import "bytes"

// BulkInsert merges pairs, which the caller must supply in ascending key
// order, into d in a single linear pass: far cheaper than |pairs|
// independent Insert calls, which would each re-copy the whole buffer.
// Passing unsorted pairs produces a Dict with undefined — but still
// fixed-width-packed — ordering; it is not detected.
func (d Dict) BulkInsert(pairs []Pair) (Dict, error) {
	for _, p := range pairs {
		if err := d.checkPair(p.Key, p.Value); err != nil {
			return Dict{}, err
		}
	}
	bs := d.blockSize()
	n := d.NumKeys()

	out := make([]byte, 0, len(d.buf)+len(pairs)*bs)
	i := 0 // index into the old buffer, in records
	for _, p := range pairs {
		for i < n && bytes.Compare(d.keyAt(i), p.Key) < 0 {
			out = append(out, d.buf[i*bs:(i+1)*bs]...)
			i++
		}
		if i < n && bytes.Equal(d.keyAt(i), p.Key) {
			i++ // overwritten below
		}
		out = append(out, p.Key...)
		out = append(out, p.Value...)
	}
	if i < n {
		out = append(out, d.buf[i*bs:]...)
	}
	return Dict{keySize: d.keySize, valueSize: d.valueSize, buf: out}, nil
}

// FromOrdDict builds a new, maximally compact Dict directly from pairs,
// which must already be sorted ascending by key with no duplicates; each
// pair is validated against keySize/valueSize.
func FromOrdDict(keySize, valueSize int, pairs []Pair) (Dict, error) {
	d, err := New(keySize, valueSize)
	if err != nil {
		return Dict{}, err
	}
	bs := d.blockSize()
	buf := make([]byte, 0, len(pairs)*bs)
	for _, p := range pairs {
		if err := d.checkPair(p.Key, p.Value); err != nil {
			return Dict{}, err
		}
		buf = append(buf, p.Key...)
		buf = append(buf, p.Value...)
	}
	d.buf = buf
	return d, nil
}
