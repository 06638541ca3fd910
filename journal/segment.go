package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"
)

// defaultMaxSegmentSize is the size at which the active journal segment is
// rotated to a new file, matching the teacher's segment manager default.
const defaultMaxSegmentSize = 16 * 1024 * 1024

const segmentFileExt = ".journal"

var segmentFileNamePattern = regexp.MustCompile(`^segment-(\d+)\.journal$`)

type segmentEntry struct {
	id   int
	name string
}

type segmentEntries []segmentEntry

func (a segmentEntries) Len() int           { return len(a) }
func (a segmentEntries) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a segmentEntries) Less(i, j int) bool { return a[i].id < a[j].id }

// segmentManager owns the rotating sequence of on-disk journal segment
// files in a directory, adapted from the teacher's DiskSegmentManager:
// same naming scheme, same size-triggered rotation, generalized from an
// arbitrary log directory to one holding journal.Record segments.
type segmentManager struct {
	mu             sync.Mutex
	active         *os.File
	activeID       int
	dir            string
	maxSegmentSize int64
}

func isDirectoryValid(path string) error {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return nil
		}
		return fmt.Errorf("journal: path exists but is not a directory: %s", path)
	}
	return err
}

func newSegmentManager(dir string, maxSegmentSize int64) (*segmentManager, error) {
	if maxSegmentSize <= 0 {
		maxSegmentSize = defaultMaxSegmentSize
	}
	sm := &segmentManager{dir: dir, maxSegmentSize: maxSegmentSize}

	if err := isDirectoryValid(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
			return sm, sm.rotate()
		}
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var found segmentEntries
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if filepath.Ext(entry.Name()) != segmentFileExt {
			continue
		}
		matches := segmentFileNamePattern.FindStringSubmatch(entry.Name())
		if len(matches) != 2 {
			continue
		}
		id, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}
		found = append(found, segmentEntry{id: id, name: entry.Name()})
	}

	if len(found) == 0 {
		return sm, sm.rotate()
	}

	sort.Sort(found)
	for i, e := range found {
		if e.id != i+1 {
			return nil, fmt.Errorf("journal: non-contiguous segment ids in %s", dir)
		}
	}

	sm.activeID = found[len(found)-1].id
	// Deliberately not O_APPEND: encodeRecord seeks the active file
	// backward to patch in a record's CRC after writing its payload, and
	// O_APPEND would force every subsequent write back to EOF regardless
	// of that seek, corrupting the patch. Seek to the end explicitly
	// instead, once, right after open.
	f, err := os.OpenFile(sm.idToPath(sm.activeID), os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: failed to open active segment: %w", err)
	}
	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		f.Close()
		return nil, fmt.Errorf("journal: failed to seek to end of active segment: %w", err)
	}
	sm.active = f
	return sm, nil
}

func (s *segmentManager) segmentPaths() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var found segmentEntries
	for _, entry := range entries {
		matches := segmentFileNamePattern.FindStringSubmatch(entry.Name())
		if len(matches) != 2 {
			continue
		}
		id, err := strconv.Atoi(matches[1])
		if err != nil {
			continue
		}
		found = append(found, segmentEntry{id: id, name: entry.Name()})
	}
	sort.Sort(found)
	paths := make([]string, len(found))
	for i, e := range found {
		paths[i] = filepath.Join(s.dir, e.name)
	}
	return paths, nil
}

func (s *segmentManager) idToPath(id int) string {
	return filepath.Join(s.dir, fmt.Sprintf("segment-%04d%s", id, segmentFileExt))
}

func (s *segmentManager) rotate() error {
	if s.active != nil {
		if err := s.active.Close(); err != nil {
			return fmt.Errorf("journal: failed to close previous segment: %w", err)
		}
	}
	s.activeID++
	f, err := os.Create(s.idToPath(s.activeID))
	if err != nil {
		return err
	}
	s.active = f
	return nil
}

// withActive runs fn against the active segment's file, rotating to a new
// segment first if appending n more bytes would exceed maxSegmentSize.
func (s *segmentManager) withActive(n int, fn func(f *os.File) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int64(n) > s.maxSegmentSize {
		return fmt.Errorf("journal: record of %d bytes exceeds max segment size %d", n, s.maxSegmentSize)
	}

	stat, err := s.active.Stat()
	if err != nil {
		return fmt.Errorf("journal: failed to stat active segment: %w", err)
	}
	if stat.Size()+int64(n) > s.maxSegmentSize {
		if err := s.rotate(); err != nil {
			return fmt.Errorf("journal: failed to rotate segment: %w", err)
		}
	}

	if err := fn(s.active); err != nil {
		return err
	}
	return s.active.Sync()
}

func (s *segmentManager) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	return s.active.Close()
}
