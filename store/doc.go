// Package store is the single-writer collaborator that sits outside the
// dict package's scope: it owns a directory on disk, replays a journal of
// mutations into a dict.Dict at startup, and coordinates concurrent
// writers via dict.Dict.CAS so that Put/Delete observe a consistent
// read-modify-write cycle instead of racing on a shared Dict value.
//
// It also owns on-demand compaction (Store.Compact): folding the journal into a
// dict.Serialize snapshot on disk and truncating the journal, so recovery
// after a long-running process never has to replay its entire history.
package store
