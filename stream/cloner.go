package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	mylog "github.com/mazrean/streamclone/internal/pkg/log"
	"github.com/mazrean/streamclone/log"
)

// Cloner duplicates streams. The zero value is not usable; use NewCloner.
// A Cloner is safe for concurrent use.
type Cloner struct {
	logger     log.Logger
	duplicator func() (HandleDuplicator, error)
}

type clonerOption struct {
	logger     log.Logger
	duplicator HandleDuplicator
}

// ClonerOption defines a function type for configuring Cloner instances
type ClonerOption func(*clonerOption)

// WithLogger sets the logger used to report share-mode retries
func WithLogger(logger log.Logger) ClonerOption {
	return func(o *clonerOption) {
		o.logger = logger
	}
}

// WithDuplicator replaces the platform handle duplicator
func WithDuplicator(d HandleDuplicator) ClonerOption {
	return func(o *clonerOption) {
		o.duplicator = d
	}
}

// NewCloner creates a Cloner. The platform duplicator is resolved on the
// first file clone and reused afterwards.
func NewCloner(options ...ClonerOption) *Cloner {
	o := &clonerOption{
		logger: mylog.NewLogger(mylog.Info),
	}
	for _, option := range options {
		option(o)
	}

	c := &Cloner{logger: o.logger}
	if o.duplicator != nil {
		d := o.duplicator
		c.duplicator = func() (HandleDuplicator, error) { return d, nil }
	} else {
		c.duplicator = sync.OnceValues(newPlatformDuplicator)
	}

	return c
}

var defaultCloner = sync.OnceValue(func() *Cloner { return NewCloner() })

// Clone duplicates s with a shared default Cloner. See (*Cloner).Clone.
func Clone(s Stream) (Stream, error) {
	return defaultCloner().Clone(s)
}

// Clone returns a read-only stream positioned where s is, without moving s.
//
// A memory stream is cloned without copying: the clone reads the same
// backing array, so in-place writes made through s after cloning are visible
// through the clone. A file stream is cloned by opening a new handle to the
// same file; both handles are closed independently. Streams wrapping a file
// are recognized through FileBacked. Any other stream must implement
// SelfCloner.
func (c *Cloner) Clone(s Stream) (Stream, error) {
	switch s := s.(type) {
	case WindowedBuffer:
		if m, ok := s.(*MemoryStream); ok && m == nil {
			return nil, &UnsupportedError{TypeName: fmt.Sprintf("%T", s)}
		}
		return c.cloneMemory(s)
	case FileBacked:
		f := s.OSFile()
		if f == nil {
			return nil, &UnsupportedError{TypeName: fmt.Sprintf("%T", s)}
		}
		return c.cloneFile(f)
	case *os.File:
		if s == nil {
			return nil, &UnsupportedError{TypeName: fmt.Sprintf("%T", s)}
		}
		return c.cloneFile(s)
	case SelfCloner:
		clone, err := s.CloneStream()
		if err != nil {
			return nil, fmt.Errorf("clone %T: %w", s, err)
		}
		if clone == nil {
			return nil, &UnsupportedError{TypeName: fmt.Sprintf("%T", s)}
		}
		return clone, nil
	}

	return nil, &UnsupportedError{TypeName: fmt.Sprintf("%T", s)}
}

// windowOf validates the window and position s reports.
func windowOf(s WindowedBuffer) (origin, length int, err error) {
	origin, length = s.Window()
	if err := checkWindow(len(s.Buffer()), origin, length); err != nil {
		return 0, 0, fmt.Errorf("%T: %w", s, err)
	}

	if pos := s.Position(); pos < 0 || pos > int64(length) {
		return 0, 0, fmt.Errorf("%T: %w: position %d outside window of length %d", s, ErrInvalidWindow, pos, length)
	}

	return origin, length, nil
}

func (c *Cloner) cloneMemory(s WindowedBuffer) (Stream, error) {
	if cs, ok := s.(interface{ Closed() bool }); ok && cs.Closed() {
		return nil, fmt.Errorf("%T: %w", s, io.ErrClosedPipe)
	}

	origin, length, err := windowOf(s)
	if err != nil {
		return nil, err
	}

	return &MemoryStream{
		buf:    s.Buffer(),
		origin: origin,
		length: length,
		pos:    s.Position(),
	}, nil
}

type file interface {
	Handle
	io.Seeker
}

func (c *Cloner) cloneFile(src file) (Stream, error) {
	pos, err := src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("get position: %w", err)
	}

	d, err := c.duplicator()
	if err != nil {
		return nil, newOSError("clone", src.Name(), err)
	}

	var lastErr error
	for _, mode := range d.ShareModes() {
		f, err := d.Duplicate(src, mode)
		if err == nil {
			if _, err := f.Seek(pos, io.SeekStart); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("set position: %w", err)
			}
			return NewFileStream(f), nil
		}

		lastErr = err
		if !d.IsSharingViolation(err) {
			break
		}
		c.logger.Debugf("sharing violation: path=%s, mode=%s", src.Name(), mode)
	}
	if lastErr == nil {
		lastErr = errors.New("no share modes to try")
	}

	return nil, newOSError("clone", src.Name(), lastErr)
}
