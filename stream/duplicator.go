package stream

import (
	"os"
	"strings"
	"syscall"
)

// ShareMode declares which concurrent access other handles on the same file
// may keep while a duplicated handle is open.
type ShareMode uint8

const (
	ShareRead ShareMode = 1 << iota
	ShareWrite
	ShareDelete
)

func (m ShareMode) String() string {
	if m == 0 {
		return "none"
	}

	var parts []string
	if m&ShareRead != 0 {
		parts = append(parts, "read")
	}
	if m&ShareWrite != 0 {
		parts = append(parts, "write")
	}
	if m&ShareDelete != 0 {
		parts = append(parts, "delete")
	}

	return strings.Join(parts, "|")
}

// DefaultShareModes is the ladder tried from the most to the least
// restrictive mode.
var DefaultShareModes = []ShareMode{
	ShareRead,
	ShareRead | ShareWrite,
	ShareRead | ShareWrite | ShareDelete,
}

// Handle is an open OS file. *os.File implements it.
type Handle interface {
	Name() string
	SyscallConn() (syscall.RawConn, error)
}

// HandleDuplicator opens new, independent, read-only handles to the file
// behind an existing handle.
type HandleDuplicator interface {
	// ShareModes returns the ladder of modes Duplicate is tried with.
	// Platforms without share modes return a single mode.
	ShareModes() []ShareMode
	// Duplicate opens a read-only handle to the file behind h. The new
	// handle does not share the file offset with h.
	Duplicate(h Handle, mode ShareMode) (*os.File, error)
	// IsSharingViolation reports whether err only means that mode conflicts
	// with another open handle, so a more permissive mode may succeed.
	IsSharingViolation(err error) bool
}

// rawFd runs f with the descriptor (or Windows handle) behind h.
func rawFd(h Handle, f func(fd uintptr) error) error {
	rc, err := h.SyscallConn()
	if err != nil {
		return err
	}

	var ferr error
	if err := rc.Control(func(fd uintptr) {
		ferr = f(fd)
	}); err != nil {
		return err
	}

	return ferr
}

var _ HandleDuplicator = pathDuplicator{}

// pathDuplicator re-opens the file by name. It is used where the OS offers
// no way to re-open a descriptor, so a file renamed after it was opened
// can't be cloned.
type pathDuplicator struct{}

func (pathDuplicator) ShareModes() []ShareMode {
	return DefaultShareModes[:1]
}

func (pathDuplicator) Duplicate(h Handle, _ ShareMode) (*os.File, error) {
	return os.OpenFile(h.Name(), os.O_RDONLY, 0)
}

func (pathDuplicator) IsSharingViolation(error) bool {
	return false
}
