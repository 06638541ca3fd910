package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	natomic "github.com/natefinch/atomic"

	"github.com/flashpack/ordpk/dict"
	"github.com/flashpack/ordpk/journal"
)

const snapshotFileName = "snapshot.bin"
const journalDirName = "journal"

func snapshotPath(dir string) string { return filepath.Join(dir, snapshotFileName) }

// Store is a crash-recoverable, single-writer-at-a-time dict.Dict: Open
// replays a snapshot plus whatever journal.Records were appended after it,
// and every subsequent Put/Delete is journaled before it takes effect so a
// process that dies mid-write can recover cleanly on the next Open.
//
// Reads (Get, FindMany, Foldl via Snapshot) never block on the writer:
// they observe whatever Dict was atomically installed by the most
// recently completed write.
type Store struct {
	dir  string
	jw   *journal.Writer
	cur  atomic.Pointer[dict.Dict]
	wmu  sync.Mutex // serializes the read-modify-CAS-write cycle of Put/Delete
}

// Open replays dir's snapshot (if any) and journal, then starts accepting
// writes. keySize and valueSize are only used when dir has no snapshot, to
// create the fresh empty dict.Dict that the journal (if any) is replayed
// into; when a snapshot exists, its own widths are used.
func Open(dir string, keySize, valueSize int) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: failed to create directory: %w", err)
	}

	d, err := loadSnapshot(dir, keySize, valueSize)
	if err != nil {
		return nil, err
	}

	jdir := filepath.Join(dir, journalDirName)
	d, err = replayJournal(jdir, d)
	if err != nil {
		return nil, err
	}

	jw, err := journal.NewWriter(jdir)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open journal for writing: %w", err)
	}

	s := &Store{dir: dir, jw: jw}
	s.cur.Store(&d)
	return s, nil
}

func loadSnapshot(dir string, keySize, valueSize int) (dict.Dict, error) {
	blob, err := os.ReadFile(snapshotPath(dir))
	if os.IsNotExist(err) {
		return dict.New(keySize, valueSize)
	}
	if err != nil {
		return dict.Dict{}, fmt.Errorf("store: failed to read snapshot: %w", err)
	}
	d, err := dict.Deserialize(blob)
	if err != nil {
		return dict.Dict{}, fmt.Errorf("store: failed to deserialize snapshot: %w", err)
	}
	return d, nil
}

func replayJournal(jdir string, d dict.Dict) (dict.Dict, error) {
	if _, err := os.Stat(jdir); os.IsNotExist(err) {
		return d, nil
	}
	r, err := journal.NewReader(jdir)
	if err != nil {
		return dict.Dict{}, fmt.Errorf("store: failed to open journal for replay: %w", err)
	}
	defer r.Close()

	for rec, err := range r.Iter() {
		if err != nil {
			return dict.Dict{}, fmt.Errorf("store: journal replay failed: %w", err)
		}
		switch rec.Op {
		case journal.OpPut:
			d, err = d.Insert(rec.Key, rec.Value)
		case journal.OpDelete:
			d, err = deleteIfPresent(d, rec.Key)
		default:
			err = fmt.Errorf("store: unknown journal op %v", rec.Op)
		}
		if err != nil {
			return dict.Dict{}, fmt.Errorf("store: failed to apply journaled record: %w", err)
		}
	}
	return d, nil
}

func deleteIfPresent(d dict.Dict, k []byte) (dict.Dict, error) {
	if _, ok := d.Find(k); !ok {
		return d, nil
	}
	return d.Delete(k)
}

// Snapshot returns the Dict as of the most recently completed write. The
// returned value is safe to read concurrently with further Puts/Deletes;
// dict.Dict mutation methods never modify a Dict in place.
func (s *Store) Snapshot() dict.Dict {
	return *s.cur.Load()
}

// Get reads a single value from the current snapshot.
func (s *Store) Get(k []byte) (value []byte, ok bool) {
	return s.Snapshot().Find(k)
}

// Put journals and applies an upsert of (k, v), serialized against other
// writers by the write mutex and applied with a single CAS against whatever
// the current snapshot is.
func (s *Store) Put(k, v []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := s.jw.Append(&journal.Record{Op: journal.OpPut, Key: k, Value: v}); err != nil {
		return fmt.Errorf("store: failed to journal put: %w", err)
	}

	cur := s.cur.Load()
	expected, ok := cur.Find(k)
	next, err := cur.CAS(k, expected, ok, v)
	if err != nil {
		return fmt.Errorf("store: put CAS failed: %w", err)
	}
	s.cur.Store(&next)
	return nil
}

// Delete journals and applies removal of k. Deleting an absent key is a
// no-op, not an error, matching the idempotent replay semantics the
// journal needs on crash recovery.
func (s *Store) Delete(k []byte) error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if err := s.jw.Append(&journal.Record{Op: journal.OpDelete, Key: k, Value: []byte{}}); err != nil {
		return fmt.Errorf("store: failed to journal delete: %w", err)
	}

	cur := s.cur.Load()
	if _, ok := cur.Find(k); !ok {
		return nil
	}
	next, err := cur.Delete(k)
	if err != nil {
		return fmt.Errorf("store: delete failed: %w", err)
	}
	s.cur.Store(&next)
	return nil
}

// Compact folds the current snapshot to disk atomically and truncates the
// journal, so the next Open need only replay writes that happened after
// this call. It blocks new writes for the duration of the snapshot write.
func (s *Store) Compact() error {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	blob := dict.Serialize(s.Snapshot())
	if err := natomic.WriteFile(snapshotPath(s.dir), bytes.NewReader(blob)); err != nil {
		return fmt.Errorf("store: failed to write snapshot: %w", err)
	}

	if err := s.jw.Close(); err != nil {
		return fmt.Errorf("store: failed to close journal before truncation: %w", err)
	}
	jdir := filepath.Join(s.dir, journalDirName)
	if err := os.RemoveAll(jdir); err != nil {
		return fmt.Errorf("store: failed to truncate journal: %w", err)
	}
	jw, err := journal.NewWriter(jdir)
	if err != nil {
		return fmt.Errorf("store: failed to reopen journal after compaction: %w", err)
	}
	s.jw = jw
	return nil
}

// Close stops accepting writes and releases the journal's file handles.
func (s *Store) Close() error {
	return s.jw.Close()
}
