package journal

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned by Append once the Writer has been closed.
var ErrClosed = os.ErrClosed

const invalidCRC = uint32(0xffffffff)

// request pairs a Record with the channel its Append caller blocks on, so
// Append can report the actual write-or-rotate error instead of firing
// records into the background goroutine blind.
type request struct {
	rec  *Record
	done chan error
}

// Writer is an asynchronous, crash-safe appender of Records, adapted from
// the teacher's WALWriter: a single background goroutine serializes all
// writes to the active segment so concurrent Append callers never race on
// the file offset, and Close drains anything still queued before
// returning.
type Writer struct {
	sm     *segmentManager
	ch     chan request
	done   chan struct{}
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewWriter opens (or creates) the segment directory at dir and starts the
// background writer goroutine.
func NewWriter(dir string, opts ...Option) (*Writer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sm, err := newSegmentManager(dir, o.maxSegmentSize)
	if err != nil {
		return nil, fmt.Errorf("journal: failed to open segment directory: %w", err)
	}

	w := &Writer{
		sm:   sm,
		ch:   make(chan request, o.bufferSize),
		done: make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Append enqueues rec for durable writing and blocks until it has been
// written and fsynced to the active segment (or the Writer has been
// closed, or the write itself failed).
func (w *Writer) Append(rec *Record) error {
	req := request{rec: rec, done: make(chan error, 1)}
	select {
	case w.ch <- req:
	case <-w.done:
		return ErrClosed
	}

	select {
	case err := <-req.done:
		return err
	case <-w.done:
		return ErrClosed
	}
}

// Close stops accepting new records, drains anything already queued, and
// closes the active segment.
func (w *Writer) Close() error {
	if w.closed.Swap(true) {
		return nil
	}
	close(w.done)
	w.wg.Wait()
	return w.sm.Close()
}

func (w *Writer) writeOne(req request) {
	n := req.rec.wireLen()
	req.done <- w.sm.withActive(n, func(f *os.File) error {
		return encodeRecord(f, req.rec)
	})
}

func (w *Writer) loop() {
	defer w.wg.Done()
	for {
		select {
		case req := <-w.ch:
			w.writeOne(req)
		case <-w.done:
			for {
				select {
				case req := <-w.ch:
					w.writeOne(req)
				default:
					return
				}
			}
		}
	}
}

// encodeRecord appends r to f, which withActive guarantees is positioned
// at the active segment's current end. The CRC covers every byte from
// TOTAL_LEN onward, so it can only be known once that's all been written;
// rather than buffer the record in memory first, encodeRecord writes an
// invalid placeholder CRC, streams the fields through, then seeks f back
// to patch in the real checksum before seeking forward again — the same
// seek-back-and-patch trick the teacher's Log.Encode uses on its single
// WAL file, now applied directly against whichever segment is active.
func encodeRecord(f *os.File, r *Record) error {
	crc := crc32.NewIEEE()
	mw := io.MultiWriter(f, crc)

	keyLen := uint32(len(r.Key))
	valLen := uint32(len(r.Value))
	payloadLen := 1 + 4 + keyLen + 4 + valLen
	totalLen := 4 + payloadLen
	if totalLen > maxRecordLen {
		return fmt.Errorf("journal: record too large: %d bytes", totalLen)
	}

	if err := binary.Write(f, binary.LittleEndian, invalidCRC); err != nil {
		return err
	}
	if err := binary.Write(mw, binary.LittleEndian, totalLen); err != nil {
		return err
	}
	if err := binary.Write(mw, binary.LittleEndian, byte(r.Op)); err != nil {
		return err
	}
	if err := binary.Write(mw, binary.LittleEndian, keyLen); err != nil {
		return err
	}
	if _, err := mw.Write(r.Key); err != nil {
		return err
	}
	if err := binary.Write(mw, binary.LittleEndian, valLen); err != nil {
		return err
	}
	if _, err := mw.Write(r.Value); err != nil {
		return err
	}

	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return err
	}
	if _, err := f.Seek(pos-int64(totalLen)-4, io.SeekStart); err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, crc.Sum32()); err != nil {
		return err
	}
	_, err = f.Seek(pos, io.SeekStart)
	return err
}
