package dict

// ToOrdDict returns every (key, value) pair in d, in ascending key order.
func (d Dict) ToOrdDict() []Pair {
	n := d.NumKeys()
	out := make([]Pair, n)
	for i := 0; i < n; i++ {
		out[i] = Pair{Key: d.keyAt(i), Value: d.valueAt(i)}
	}
	return out
}

// Foldl walks d's pairs in ascending key order, threading acc through f. On
// an empty Dict, acc is returned unchanged — the ordinary fold identity.
func Foldl[T any](d Dict, f func(key, value []byte, acc T) T, acc T) T {
	n := d.NumKeys()
	for i := 0; i < n; i++ {
		acc = f(d.keyAt(i), d.valueAt(i), acc)
	}
	return acc
}
