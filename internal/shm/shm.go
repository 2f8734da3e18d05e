// Package shm attaches to the named shared memory segment a frame producer writes into.
//
// The segment holds exactly one frame of width*height*4 bytes. Readers and writers
// coordinate through an exclusive advisory lock on the segment file; WithFrame
// holds that lock only while its callback runs, so callbacks should copy and return.
//
// The reader never waits for a new-frame notification. It free-runs and may see
// the same frame twice when the producer is slower than the inspector, which keeps
// a paused producer from stalling the viewer and vice versa.
package shm

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/smazurov/hsv-inspector/internal/frame"
	"github.com/smazurov/hsv-inspector/internal/metrics"
)

// Dir is where bare segment names are resolved.
const Dir = "/dev/shm"

var (
	// ErrClosed is returned when a closed segment is used.
	ErrClosed = errors.New("segment closed")
	// ErrReadOnly is returned when writing through an attached (read-only) segment.
	ErrReadOnly = errors.New("segment is read-only")
)

// Segment is a mapped shared frame buffer.
type Segment struct {
	name     string
	path     string
	width    int
	height   int
	size     int
	writable bool

	// mu serializes users inside this process; the file lock only excludes other open descriptions.
	mu   sync.Mutex
	fd   int
	data []byte
}

// ResolvePath maps a segment name to its file. Names containing a slash are used verbatim.
func ResolvePath(name string) string {
	if strings.ContainsRune(name, '/') {
		return name
	}
	return filepath.Join(Dir, name)
}

// Attach maps an existing segment read-only. The segment must be exactly width*height*4 bytes.
func Attach(name string, width, height int) (*Segment, error) {
	return openSegment(name, width, height, false)
}

// Create creates (or truncates to size) a segment and maps it read-write.
// Producers and tests use it; the inspector only attaches.
func Create(name string, width, height int) (*Segment, error) {
	return openSegment(name, width, height, true)
}

// Name returns the name the segment was opened with.
func (s *Segment) Name() string { return s.name }

// Path returns the resolved segment file.
func (s *Segment) Path() string { return s.path }

// Size returns the segment size in bytes.
func (s *Segment) Size() int { return s.size }

// Width returns the frame width.
func (s *Segment) Width() int { return s.width }

// Height returns the frame height.
func (s *Segment) Height() int { return s.height }

// WithFrame locks the segment, passes the mapped bytes to fn and unlocks on every exit path.
// fn must not retain pix or write to it.
func (s *Segment) WithFrame(fn func(pix []byte) error) error {
	return s.withLock(fn)
}

// WithWritableFrame is WithFrame for producers.
func (s *Segment) WithWritableFrame(fn func(pix []byte) error) error {
	if !s.writable {
		return ErrReadOnly
	}
	return s.withLock(fn)
}

// Snapshot copies the current frame into dst under the lock.
func (s *Segment) Snapshot(dst *frame.Frame) error {
	if dst.Width != s.width || dst.Height != s.height || len(dst.Pix) != s.size {
		return fmt.Errorf("snapshot into %dx%d frame from %dx%d segment", dst.Width, dst.Height, s.width, s.height)
	}
	return s.WithFrame(func(pix []byte) error {
		copy(dst.Pix, pix)
		return nil
	})
}

func (s *Segment) withLock(fn func(pix []byte) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return ErrClosed
	}

	start := time.Now()
	if err := lockFD(s.fd); err != nil {
		return fmt.Errorf("lock segment %s: %w", s.name, err)
	}
	acquired := time.Now()
	metrics.ObserveLockWait(acquired.Sub(start))

	defer func() {
		_ = unlockFD(s.fd)
		metrics.ObserveLockHold(time.Since(acquired))
	}()

	return fn(s.data)
}

// Close unmaps the segment. It does not remove the segment file.
func (s *Segment) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		return nil
	}
	err := errors.Join(unmap(s.data), closeFD(s.fd))
	s.data = nil
	return err
}
