// Package stream duplicates open streams without disturbing the source.
//
// A clone starts at the position the source had when it was cloned and moves
// its own cursor from then on. Clones are always read-only.
package stream

import (
	"io"
	"os"
)

// Stream is a readable sequence of bytes with a cursor.
type Stream interface {
	io.ReadSeeker
	io.Closer
}

// SelfCloner is implemented by streams that know how to duplicate themselves.
// The returned stream is handed to the caller of Clone unmodified.
type SelfCloner interface {
	CloneStream() (Stream, error)
}

// WindowedBuffer is implemented by memory streams scoped to a window of a
// shared backing array.
type WindowedBuffer interface {
	Stream
	// Buffer returns the whole backing array, not only the window.
	Buffer() []byte
	// Window returns the offset of the window in Buffer and its length.
	Window() (origin, length int)
	// Position returns the cursor relative to the window origin.
	Position() int64
}

// FileBacked is implemented by streams reading an OS file. Types embedding
// *FileStream implement it too.
type FileBacked interface {
	Stream
	OSFile() *os.File
}
