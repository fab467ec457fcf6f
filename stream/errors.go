package stream

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	ErrReadOnly      = errors.New("stream is read-only")
	ErrInvalidWindow = errors.New("invalid buffer window")
	ErrNegativeSeek  = errors.New("negative position")
	ErrSeekPastEnd   = errors.New("position beyond end of window")
	ErrInvalidWhence = errors.New("invalid whence")
)

// UnsupportedError is returned when a stream is neither a known kind nor
// self-cloneable.
type UnsupportedError struct {
	TypeName string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("stream type %s can't be cloned", e.TypeName)
}

func (e *UnsupportedError) Is(target error) bool {
	return target == errors.ErrUnsupported
}

// OSError reports a failed handle duplication. Code is the last OS error code
// observed, zero if the failure carried none.
type OSError struct {
	Op   string
	Path string
	Code syscall.Errno
	Err  error
}

func newOSError(op, path string, err error) *OSError {
	e := &OSError{Op: op, Path: path, Err: err}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Code = errno
	}

	return e
}

func (e *OSError) Error() string {
	return fmt.Sprintf("%s %s: %v (code %d)", e.Op, e.Path, e.Err, uintptr(e.Code))
}

func (e *OSError) Unwrap() error {
	return e.Err
}
