// Package dict implements a space-efficient ordered dictionary whose entire
// state is a single contiguous byte buffer holding fixed-width (key, value)
// records in ascending key order. Every entry costs exactly
// keySize+valueSize bytes: no pointers, no headers, no padding. Lookups and
// ordered traversals use binary search over the packed buffer.
//
// A Dict is immutable by convention: every mutating function returns a new
// Dict value, which may share its backing array with the one it was derived
// from. There is no synchronization inside this package; it performs no I/O
// and never blocks. Callers that need a single mutable instance shared
// across goroutines should look at the sibling store package, which wraps a
// Dict behind CAS-coordinated writes and atomic-pointer reads.
package dict
