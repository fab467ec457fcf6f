package stream

import (
	"io"
)

var _ SelfCloner = &SectionStream{}

// SectionStream is a self-cloneable stream over a section of an io.ReaderAt.
// Clones share r and get their own cursor.
type SectionStream struct {
	sr  *io.SectionReader
	r   io.ReaderAt
	off int64
	n   int64
}

func NewSectionStream(r io.ReaderAt, off, n int64) *SectionStream {
	return &SectionStream{
		sr:  io.NewSectionReader(r, off, n),
		r:   r,
		off: off,
		n:   n,
	}
}

func (s *SectionStream) Read(p []byte) (n int, err error) {
	return s.sr.Read(p)
}

func (s *SectionStream) ReadAt(p []byte, off int64) (n int, err error) {
	return s.sr.ReadAt(p, off)
}

func (s *SectionStream) Seek(offset int64, whence int) (int64, error) {
	return s.sr.Seek(offset, whence)
}

func (s *SectionStream) Size() int64 {
	return s.sr.Size()
}

// Close does not close the underlying io.ReaderAt, which other clones may
// still be using.
func (s *SectionStream) Close() error {
	return nil
}

func (s *SectionStream) CloneStream() (Stream, error) {
	pos, err := s.sr.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}

	clone := NewSectionStream(s.r, s.off, s.n)
	if _, err := clone.sr.Seek(pos, io.SeekStart); err != nil {
		return nil, err
	}

	return clone, nil
}
