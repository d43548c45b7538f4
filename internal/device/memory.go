package device

import (
	"io"
	"sync"
)

// MaxMemorySize is the largest size a Memory device grows to.
const MaxMemorySize = 1 << 30

// Memory is a volatile Device kept in a byte slice. A write ending past
// MaxMemorySize fails with ErrTooLarge.
type Memory struct {
	mu     sync.RWMutex
	buf    []byte
	closed bool
}

// NewMemory returns a Memory device holding a copy of data.
func NewMemory(data []byte) *Memory {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Memory{buf: buf}
}

// ReadAt reads len(p) bytes at off, returning io.EOF past the end.
func (m *Memory) ReadAt(p []byte, off int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrNegativeOffset
	}
	if off >= int64(len(m.buf)) {
		return 0, io.EOF
	}

	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// WriteAt writes p at off, zero-filling any gap before it.
func (m *Memory) WriteAt(p []byte, off int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrNegativeOffset
	}

	if off > MaxMemorySize-int64(len(p)) {
		return 0, ErrTooLarge
	}

	end := off + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	return copy(m.buf[off:], p), nil
}

// Size returns the current length of the buffer.
func (m *Memory) Size() (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrClosed
	}
	return int64(len(m.buf)), nil
}

// Sync is a no-op on an open device.
func (m *Memory) Sync() error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}
	return nil
}

// Close releases the device. Later calls fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.closed = true
	return nil
}

// Bytes returns a copy of the device contents.
func (m *Memory) Bytes() []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]byte, len(m.buf))
	copy(out, m.buf)
	return out
}
