package dict

import "bytes"

// Find returns the value stored under k, if any.
func (d Dict) Find(k []byte) (value []byte, ok bool) {
	if err := d.checkKey(k); err != nil {
		return nil, false
	}
	i := d.rank(k)
	if i < d.NumKeys() && bytes.Equal(d.keyAt(i), k) {
		return d.valueAt(i), true
	}
	return nil, false
}

// Result is one answer from FindMany, in the same order as the query keys.
type Result struct {
	Value []byte
	OK    bool
}

// FindMany maps Find over ks, preserving order; it does not deduplicate or
// reorder the input.
func (d Dict) FindMany(ks [][]byte) []Result {
	out := make([]Result, len(ks))
	for i, k := range ks {
		v, ok := d.Find(k)
		out[i] = Result{Value: v, OK: ok}
	}
	return out
}

// Insert returns a new Dict with (k, v) present, overwriting any existing
// value for k.
func (d Dict) Insert(k, v []byte) (Dict, error) {
	if err := d.checkPair(k, v); err != nil {
		return Dict{}, err
	}
	i := d.rank(k)
	bs := d.blockSize()
	if i < d.NumKeys() && bytes.Equal(d.keyAt(i), k) {
		buf := make([]byte, len(d.buf))
		copy(buf, d.buf)
		copy(buf[i*bs+d.keySize:i*bs+bs], v)
		return Dict{keySize: d.keySize, valueSize: d.valueSize, buf: buf}, nil
	}
	buf := make([]byte, len(d.buf)+bs)
	off := i * bs
	copy(buf, d.buf[:off])
	copy(buf[off:off+d.keySize], k)
	copy(buf[off+d.keySize:off+bs], v)
	copy(buf[off+bs:], d.buf[off:])
	return Dict{keySize: d.keySize, valueSize: d.valueSize, buf: buf}, nil
}

// Update applies f to the current value stored under k and stores the
// result; if k is absent, it stores initial under k without calling f. If
// f returns byte-identical output to
// the current value, d is returned unchanged without allocating. f must
// return exactly ValueSize() bytes.
func (d Dict) Update(k, initial []byte, f func(old []byte) []byte) (Dict, error) {
	if err := d.checkKey(k); err != nil {
		return Dict{}, err
	}
	if err := d.checkValue(initial); err != nil {
		return Dict{}, err
	}
	i := d.rank(k)
	bs := d.blockSize()
	if i < d.NumKeys() && bytes.Equal(d.keyAt(i), k) {
		old := d.valueAt(i)
		next := f(old)
		if err := d.checkValue(next); err != nil {
			return Dict{}, err
		}
		if bytes.Equal(old, next) {
			return d, nil
		}
		buf := make([]byte, len(d.buf))
		copy(buf, d.buf)
		copy(buf[i*bs+d.keySize:i*bs+bs], next)
		return Dict{keySize: d.keySize, valueSize: d.valueSize, buf: buf}, nil
	}
	return d.Insert(k, initial)
}

// Delete returns a new Dict with k removed. It is an error to delete an
// absent key.
func (d Dict) Delete(k []byte) (Dict, error) {
	if err := d.checkKey(k); err != nil {
		return Dict{}, err
	}
	i := d.rank(k)
	if i >= d.NumKeys() || !bytes.Equal(d.keyAt(i), k) {
		return Dict{}, badArgf("dict: delete of absent key")
	}
	bs := d.blockSize()
	off := i * bs
	buf := make([]byte, len(d.buf)-bs)
	copy(buf, d.buf[:off])
	copy(buf[off:], d.buf[off+bs:])
	return Dict{keySize: d.keySize, valueSize: d.valueSize, buf: buf}, nil
}

// CAS performs Insert(k, v) only if the current value under k matches
// (expected, expectedOK) — expectedOK false means "k must currently be
// absent". It fails with ErrBadArgument on mismatch, making it the one
// operation suited to coordinating concurrent writers (see store.Store).
func (d Dict) CAS(k, expected []byte, expectedOK bool, v []byte) (Dict, error) {
	cur, ok := d.Find(k)
	if ok != expectedOK || (ok && !bytes.Equal(cur, expected)) {
		return Dict{}, badArgf("dict: cas mismatch for key")
	}
	return d.Insert(k, v)
}

// Append concatenates (k, v) to the end of the buffer without a binary
// search. It requires d to be empty or k to strictly exceed the current
// last key; violating that corrupts sort order and is a programming error,
// reported as ErrBadArgument.
func (d Dict) Append(k, v []byte) (Dict, error) {
	if err := d.checkPair(k, v); err != nil {
		return Dict{}, err
	}
	if n := d.NumKeys(); n > 0 {
		if bytes.Compare(k, d.keyAt(n-1)) <= 0 {
			return Dict{}, badArgf("dict: append key must exceed current last key")
		}
	}
	bs := d.blockSize()
	buf := make([]byte, len(d.buf)+bs)
	copy(buf, d.buf)
	copy(buf[len(d.buf):len(d.buf)+d.keySize], k)
	copy(buf[len(d.buf)+d.keySize:], v)
	return Dict{keySize: d.keySize, valueSize: d.valueSize, buf: buf}, nil
}

// First returns the smallest-keyed pair, if any.
func (d Dict) First() (key, value []byte, ok bool) { return d.At(0) }

// Last returns the largest-keyed pair, if any.
func (d Dict) Last() (key, value []byte, ok bool) { return d.At(d.NumKeys() - 1) }

// Next returns the pair with the smallest key strictly greater than k.
func (d Dict) Next(k []byte) (key, value []byte, ok bool) {
	return d.NextNth(k, 1)
}

// NextNth returns the n-th pair (1-indexed) with a key strictly greater
// than k. Callers must not call this with k already at the maximum
// representable key of KeySize() width; that increment has no successor
// and is undefined here.
func (d Dict) NextNth(k []byte, n int) (key, value []byte, ok bool) {
	if n < 1 {
		return nil, nil, false
	}
	if err := d.checkKey(k); err != nil {
		return nil, nil, false
	}
	succ := incrementKey(k)
	i := d.rank(succ)
	return d.At(i + n - 1)
}

// incrementKey returns k+1 treating k as a big-endian unsigned integer of
// its own width. It does not mutate k.
func incrementKey(k []byte) []byte {
	out := make([]byte, len(k))
	copy(out, k)
	for i := len(out) - 1; i >= 0; i-- {
		out[i]++
		if out[i] != 0 {
			break
		}
	}
	return out
}
