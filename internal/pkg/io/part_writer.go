package io

import "io"

// Part is a destination that accepts at most Size bytes.
type Part struct {
	Writer io.Writer
	Size   int64
}

// PartWriter fills its parts in order, moving to the next part once the
// current one has received Size bytes.
type PartWriter struct {
	parts []Part
	cur   int
}

func NewPartWriter(parts ...Part) *PartWriter {
	return &PartWriter{parts: parts}
}

// Write returns io.ErrShortWrite when p does not fit the remaining parts.
func (w *PartWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		if w.cur >= len(w.parts) {
			return total, io.ErrShortWrite
		}

		part := &w.parts[w.cur]
		if part.Size <= 0 {
			w.cur++
			continue
		}

		chunk := p[:min(int64(len(p)), part.Size)]
		n, err := part.Writer.Write(chunk)
		total += n
		part.Size -= int64(n)
		p = p[n:]
		if err != nil {
			return total, err
		}
		if n < len(chunk) {
			return total, io.ErrShortWrite
		}
	}

	return total, nil
}

// Remaining is the number of bytes the parts can still accept.
func (w *PartWriter) Remaining() int64 {
	var n int64
	for _, part := range w.parts[w.cur:] {
		n += max(part.Size, 0)
	}

	return n
}
