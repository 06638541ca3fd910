package journal

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"iter"
	"os"
)

// Reader replays the Records written to a journal directory, in the order
// they were appended, across however many rotated segment files exist.
// Adapted from the teacher's WALReader, generalized from a single log
// file to a sequence of segments.
type Reader struct {
	paths []string
	idx   int
	f     *os.File
}

// NewReader opens a journal directory for replay. It does not start a
// Writer's background goroutine; a directory can be read and appended to
// independently, as store.Open does (replay first, then open a Writer for
// new mutations).
func NewReader(dir string) (*Reader, error) {
	sm, err := newSegmentManager(dir, defaultMaxSegmentSize)
	if err != nil {
		return nil, err
	}
	paths, err := sm.segmentPaths()
	if err != nil {
		sm.Close()
		return nil, err
	}
	if err := sm.Close(); err != nil {
		return nil, err
	}
	return &Reader{paths: paths}, nil
}

func (r *Reader) openNext() (bool, error) {
	if r.f != nil {
		if err := r.f.Close(); err != nil {
			return false, err
		}
		r.f = nil
	}
	if r.idx >= len(r.paths) {
		return false, nil
	}
	f, err := os.Open(r.paths[r.idx])
	if err != nil {
		return false, err
	}
	r.idx++
	r.f = f
	return true, nil
}

// Read returns the next Record across all segments, or io.EOF once every
// segment has been fully (and cleanly) consumed. A torn record at the end
// of the last segment — the shape a crash mid-Append leaves behind — also
// surfaces as io.EOF rather than as an error, since segment rotation means
// a multi-segment replay must treat "nothing more to apply" and "the
// writer died mid-record" the same way: stop, don't fail the whole
// directory over the most recent, possibly incomplete, mutation.
func (r *Reader) Read() (*Record, error) {
	for {
		if r.f == nil {
			ok, err := r.openNext()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, io.EOF
			}
		}

		rec, err := decodeRecord(r.f)
		if err == io.EOF {
			if _, rerr := r.openNext(); rerr != nil {
				return nil, rerr
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("journal: replay stopped at segment %d: %w", r.idx, err)
		}
		return rec, nil
	}
}

// Iter exposes the replay as a sequence of (Record, error) pairs, the same
// shape as the teacher's WALReader.Iter.
func (r *Reader) Iter() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := r.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(Record{}, err)
				return
			}
			if !yield(*rec, nil) {
				return
			}
		}
	}
}

// Close releases the currently open segment file, if any.
func (r *Reader) Close() error {
	if r.f == nil {
		return nil
	}
	return r.f.Close()
}

func cleanEOF(err error) error {
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return io.EOF
	}
	return err
}

// decodeRecord reads one Record from r, the counterpart to encodeRecord.
// A torn trailing record decodes as io.EOF rather than ErrCorrupt; Read
// relies on that to fall through to the next segment, or to end replay
// cleanly, instead of failing on a crash-truncated final write.
func decodeRecord(r io.Reader) (*Record, error) {
	var storedCRC uint32
	if err := binary.Read(r, binary.LittleEndian, &storedCRC); err != nil {
		return nil, cleanEOF(err)
	}
	if storedCRC == invalidCRC {
		return nil, io.EOF
	}

	var totalLen uint32
	if err := binary.Read(r, binary.LittleEndian, &totalLen); err != nil {
		return nil, cleanEOF(err)
	}
	if totalLen > maxRecordLen || totalLen < 5 {
		return nil, ErrCorrupt
	}

	payload := make([]byte, totalLen)
	binary.LittleEndian.PutUint32(payload[0:4], totalLen)
	if _, err := io.ReadFull(r, payload[4:]); err != nil {
		return nil, cleanEOF(err)
	}
	if crc32.ChecksumIEEE(payload) != storedCRC {
		return nil, ErrCorrupt
	}

	pos := 4
	rec := &Record{Op: Op(payload[pos])}
	pos++

	keyLen := binary.LittleEndian.Uint32(payload[pos:])
	pos += 4
	if keyLen > uint32(len(payload))-uint32(pos) {
		return nil, ErrCorrupt
	}
	rec.Key = append([]byte(nil), payload[pos:pos+int(keyLen)]...)
	pos += int(keyLen)

	valLen := binary.LittleEndian.Uint32(payload[pos:])
	pos += 4
	if valLen > uint32(len(payload))-uint32(pos) {
		return nil, ErrCorrupt
	}
	rec.Value = append([]byte(nil), payload[pos:pos+int(valLen)]...)

	return rec, nil
}
