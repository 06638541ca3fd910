package dict

import "bytes"

// Dict is an ordered dictionary of fixed-width (key, value) pairs packed
// into a single contiguous buffer in ascending key order. The zero value is
// not usable; construct one with New or FromBuffer.
type Dict struct {
	keySize   int
	valueSize int
	buf       []byte
}

// Pair is a single (key, value) record of the widths declared by the Dict
// it came from or is destined for.
type Pair struct {
	Key   []byte
	Value []byte
}

// New returns an empty Dict with the given fixed key and value widths.
// keySize and valueSize must both be positive.
func New(keySize, valueSize int) (Dict, error) {
	if keySize <= 0 || valueSize <= 0 {
		return Dict{}, badArgf("dict: keySize and valueSize must be positive, got %d, %d", keySize, valueSize)
	}
	return Dict{keySize: keySize, valueSize: valueSize}, nil
}

// FromBuffer wraps a pre-existing buffer the caller asserts is well-formed
// under the declared sizes: its length must be a multiple of
// keySize+valueSize and its records must already be sorted by key with no
// duplicates. FromBuffer does not verify sortedness; it only checks the
// length-multiple invariant.
func FromBuffer(keySize, valueSize int, buf []byte) (Dict, error) {
	d, err := New(keySize, valueSize)
	if err != nil {
		return Dict{}, err
	}
	if len(buf)%d.blockSize() != 0 {
		return Dict{}, badArgf("dict: buffer length %d is not a multiple of block size %d", len(buf), d.blockSize())
	}
	d.buf = buf
	return d, nil
}

func (d Dict) blockSize() int { return d.keySize + d.valueSize }

// KeySize returns the fixed byte width of every key in d.
func (d Dict) KeySize() int { return d.keySize }

// ValueSize returns the fixed byte width of every value in d.
func (d Dict) ValueSize() int { return d.valueSize }

// BlockSize returns KeySize()+ValueSize(), the number of bytes per record.
func (d Dict) BlockSize() int { return d.blockSize() }

// NumKeys returns the number of records currently packed into d.
func (d Dict) NumKeys() int {
	bs := d.blockSize()
	if bs == 0 {
		return 0
	}
	return len(d.buf) / bs
}

// Size returns the length of d's packed buffer, in bytes.
func (d Dict) Size() int { return len(d.buf) }

// ExpectedSize returns the buffer length a Dict with the same widths as d
// would have if it held n records. Useful for capacity planning ahead of a
// bulk build.
func (d Dict) ExpectedSize(n int) int { return n * d.blockSize() }

// Compact returns a Dict whose buffer is a freshly allocated contiguous
// copy of d's buffer, defragmenting any incidental slice sharing left over
// from a chain of incremental mutations.
func (d Dict) Compact() Dict {
	cp := make([]byte, len(d.buf))
	copy(cp, d.buf)
	d.buf = cp
	return d
}

func (d Dict) keyAt(i int) []byte {
	off := i * d.blockSize()
	return d.buf[off : off+d.keySize]
}

func (d Dict) valueAt(i int) []byte {
	off := i*d.blockSize() + d.keySize
	return d.buf[off : off+d.valueSize]
}

// At returns the i-th record in ascending key order.
func (d Dict) At(i int) (key, value []byte, ok bool) {
	if i < 0 || i >= d.NumKeys() {
		return nil, nil, false
	}
	return d.keyAt(i), d.valueAt(i), true
}

func (d Dict) checkKey(k []byte) error {
	if len(k) != d.keySize {
		return badArgf("dict: key length %d, want %d", len(k), d.keySize)
	}
	return nil
}

func (d Dict) checkValue(v []byte) error {
	if len(v) != d.valueSize {
		return badArgf("dict: value length %d, want %d", len(v), d.valueSize)
	}
	return nil
}

func (d Dict) checkPair(k, v []byte) error {
	if err := d.checkKey(k); err != nil {
		return err
	}
	return d.checkValue(v)
}

// rank returns the index at which k resides, or, if absent, the index at
// which it would need to be inserted to preserve ascending order. Binary
// search over the packed buffer; O(log NumKeys()).
func (d Dict) rank(k []byte) int {
	return d.rankFrom(0, d.NumKeys(), k)
}

// rankFrom is rank restricted to the half-open window [lo, hi), letting a
// caller that already knows k can't live before lo (e.g. the SvS
// intersection, walking two Dicts in lockstep) skip re-scanning the
// prefix.
func (d Dict) rankFrom(lo, hi int, k []byte) int {
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch bytes.Compare(d.keyAt(mid), k) {
		case 0:
			return mid
		case 1: // keyAt(mid) > k
			hi = mid
		default: // keyAt(mid) < k
			lo = mid + 1
		}
	}
	return lo
}
