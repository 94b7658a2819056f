// Package storage persists the macro slot table in a small byte-addressable
// non-volatile medium (an EEPROM or an image of one).
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// Erased is the value of an unwritten byte.
const Erased = 0xFF

// DefaultSize is the EEPROM size of the reference board.
const DefaultSize = 1024

// Medium is byte-addressable non-volatile storage.
type Medium interface {
	io.ReaderAt
	io.WriterAt
	// Len returns the number of addressable bytes.
	Len() int
}

var errOutOfRange = errors.New("access out of range")

func checkRange(m Medium, n int, off int64) error {
	if off < 0 || off+int64(n) > int64(m.Len()) {
		return fmt.Errorf("%d bytes at offset %d (size %d): %w", n, off, m.Len(), errOutOfRange)
	}
	return nil
}

// Mem is a RAM backed medium.
type Mem struct {
	mu sync.Mutex
	b  []byte
}

// NewMem returns an erased medium of the given size.
func NewMem(size int) *Mem {
	b := make([]byte, size)
	for i := range b {
		b[i] = Erased
	}
	return &Mem{b: b}
}

func (m *Mem) Len() int { return len(m.b) }

func (m *Mem) ReadAt(p []byte, off int64) (int, error) {
	if err := checkRange(m, len(p), off); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return copy(p, m.b[off:]), nil
}

func (m *Mem) WriteAt(p []byte, off int64) (int, error) {
	if err := checkRange(m, len(p), off); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return copy(m.b[off:], p), nil
}

// Bytes returns a copy of the whole medium.
func (m *Mem) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]byte, len(m.b))
	copy(out, m.b)
	return out
}

// File is a medium backed by an image file on disk. Reads are served from an
// in-memory copy; writes go to both.
type File struct {
	mem *Mem
	f   *os.File
}

// OpenFile opens or creates an image of the given size. A missing or short
// image is padded with erased bytes; a longer one is rejected.
func OpenFile(path string, size int) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if st.Size() > int64(size) {
		_ = f.Close()
		return nil, fmt.Errorf("image %s is %d bytes, expected at most %d", path, st.Size(), size)
	}

	mem := NewMem(size)
	if _, err := io.ReadFull(f, mem.b[:st.Size()]); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("read image: %w", err)
	}
	if st.Size() < int64(size) {
		if _, err := f.WriteAt(mem.b[st.Size():], st.Size()); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("pad image: %w", err)
		}
	}
	return &File{mem: mem, f: f}, nil
}

func (m *File) Len() int { return m.mem.Len() }

func (m *File) ReadAt(p []byte, off int64) (int, error) {
	return m.mem.ReadAt(p, off)
}

func (m *File) WriteAt(p []byte, off int64) (int, error) {
	if err := checkRange(m, len(p), off); err != nil {
		return 0, err
	}
	if n, err := m.f.WriteAt(p, off); err != nil {
		return n, fmt.Errorf("write image: %w", err)
	}
	return m.mem.WriteAt(p, off)
}

// Close flushes and closes the image file.
func (m *File) Close() error {
	if err := m.f.Sync(); err != nil {
		_ = m.f.Close()
		return err
	}
	return m.f.Close()
}
