// Package journal is an optional, external write-ahead log for processes
// that embed a dict.Dict and want to recover its mutations after a crash.
// It has no awareness of dict.Dict's packed-buffer layout; it only records
// (operation, key, value) triples in the order they were applied, the way
// the store package's Store replays them to rebuild a Dict on Open.
//
// This is adapted from the teacher repository's wal and segmentmanager
// packages: the same CRC-framed record format and the same rotating
// segment files, generalized from an arbitrary log-structured-merge-tree
// write-ahead log to a journal of dict.Dict mutations specifically.
package journal
