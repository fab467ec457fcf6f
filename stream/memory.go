package stream

import (
	"fmt"
	"io"
	"sync/atomic"
)

var _ WindowedBuffer = &MemoryStream{}

// MemoryStream reads from and writes to a window of a byte slice it does not
// copy. Every MemoryStream over the same slice observes writes made through
// any of them, including clones.
type MemoryStream struct {
	buf      []byte
	origin   int
	length   int
	pos      int64
	writable bool
	closed   atomic.Bool
}

// NewMemoryStream creates a writable stream over the whole of buf.
func NewMemoryStream(buf []byte) *MemoryStream {
	return &MemoryStream{
		buf:      buf,
		length:   len(buf),
		writable: true,
	}
}

// NewMemoryStreamWindow creates a stream over buf[origin:origin+length].
func NewMemoryStreamWindow(buf []byte, origin, length int, writable bool) (*MemoryStream, error) {
	if err := checkWindow(len(buf), origin, length); err != nil {
		return nil, err
	}

	return &MemoryStream{
		buf:      buf,
		origin:   origin,
		length:   length,
		writable: writable,
	}, nil
}

func checkWindow(size, origin, length int) error {
	if origin < 0 || length < 0 || origin > size-length {
		return fmt.Errorf("%w: origin=%d length=%d buffer=%d", ErrInvalidWindow, origin, length, size)
	}

	return nil
}

func (m *MemoryStream) Buffer() []byte {
	return m.buf
}

func (m *MemoryStream) Window() (origin, length int) {
	return m.origin, m.length
}

func (m *MemoryStream) Position() int64 {
	return m.pos
}

// Len returns the number of unread bytes in the window.
func (m *MemoryStream) Len() int {
	if m.pos >= int64(m.length) {
		return 0
	}
	return m.length - int(m.pos)
}

// Size returns the window length.
func (m *MemoryStream) Size() int64 {
	return int64(m.length)
}

// Bytes returns the window. The slice aliases the backing array.
func (m *MemoryStream) Bytes() []byte {
	return m.buf[m.origin : m.origin+m.length : m.origin+m.length]
}

func (m *MemoryStream) Writable() bool {
	return m.writable
}

func (m *MemoryStream) Read(p []byte) (int, error) {
	if m.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	if m.pos >= int64(m.length) {
		return 0, io.EOF
	}

	n := copy(p, m.Bytes()[m.pos:])
	m.pos += int64(n)

	return n, nil
}

func (m *MemoryStream) ReadAt(p []byte, off int64) (int, error) {
	if m.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	if off < 0 {
		return 0, ErrNegativeSeek
	}
	if off >= int64(m.length) {
		return 0, io.EOF
	}

	n := copy(p, m.Bytes()[off:])
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// Write overwrites the window in place. The window never grows: bytes that
// do not fit are dropped and io.ErrShortWrite is returned.
func (m *MemoryStream) Write(p []byte) (int, error) {
	if m.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	if !m.writable {
		return 0, ErrReadOnly
	}

	n := copy(m.Bytes()[m.pos:], p)
	m.pos += int64(n)
	if n < len(p) {
		return n, io.ErrShortWrite
	}

	return n, nil
}

func (m *MemoryStream) Seek(offset int64, whence int) (int64, error) {
	if m.closed.Load() {
		return 0, io.ErrClosedPipe
	}

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = m.pos + offset
	case io.SeekEnd:
		pos = int64(m.length) + offset
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidWhence, whence)
	}

	if pos < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNegativeSeek, pos)
	}
	if pos > int64(m.length) {
		return 0, fmt.Errorf("%w: %d > %d", ErrSeekPastEnd, pos, m.length)
	}
	m.pos = pos

	return pos, nil
}

func (m *MemoryStream) Closed() bool {
	return m.closed.Load()
}

// Close marks the stream closed. The backing array is left untouched and
// stays readable through other streams over it.
func (m *MemoryStream) Close() error {
	m.closed.Store(true)
	return nil
}
