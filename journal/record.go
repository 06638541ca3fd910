package journal

import "fmt"

// Op identifies the kind of mutation a Record describes.
type Op uint8

const (
	OpPut Op = iota
	OpDelete
)

func (o Op) String() string {
	switch o {
	case OpPut:
		return "put"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("Op(%d)", o)
	}
}

const maxRecordLen = 16 << 20 // 16MB, matching the teacher's WAL entry cap

// ErrCorrupt is returned when a record's checksum doesn't match its
// payload during journal replay.
var ErrCorrupt = fmt.Errorf("journal: corrupt record")

// Record is one journaled mutation: either a Put(key, value) or a
// Delete(key), applied to whatever Dict the journal's owner holds.
type Record struct {
	Op    Op
	Key   []byte
	Value []byte
}

// wireLen returns the number of bytes r occupies once framed on disk —
// CRC(4) | TOTAL_LEN(4) | OP(1) | KEY_LEN(4) | KEY | VAL_LEN(4) | VALUE —
// the figure segmentManager.withActive needs up front to decide whether
// appending r would overflow the active segment, before a single byte of
// r has been written.
func (r *Record) wireLen() int {
	return 4 + 4 + 1 + 4 + len(r.Key) + 4 + len(r.Value)
}
