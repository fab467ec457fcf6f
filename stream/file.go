package stream

import (
	"fmt"
	"io"
	"os"
)

// FileStream is a stream owning a single *os.File.
type FileStream struct {
	*os.File
}

// NewFileStream takes ownership of f. Closing the stream closes f.
func NewFileStream(f *os.File) *FileStream {
	return &FileStream{File: f}
}

// OpenFile opens name read-only.
func OpenFile(name string) (*FileStream, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	return NewFileStream(f), nil
}

// OSFile returns the underlying file, nil for a nil stream.
func (s *FileStream) OSFile() *os.File {
	if s == nil {
		return nil
	}
	return s.File
}

// Position returns the OS file offset without moving it.
func (s *FileStream) Position() (int64, error) {
	return s.Seek(0, io.SeekCurrent)
}
