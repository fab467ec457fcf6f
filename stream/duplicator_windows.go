//go:build windows

package stream

import (
	"errors"
	"os"
	"syscall"

	"golang.org/x/sys/windows"
)

// FILE_GENERIC_READ
const fileGenericRead = 0x00120089

var (
	modkernel32    = windows.NewLazySystemDLL("kernel32.dll")
	procReOpenFile = modkernel32.NewProc("ReOpenFile")
)

var _ HandleDuplicator = reopenDuplicator{}

// reopenDuplicator uses ReOpenFile, which unlike DuplicateHandle gives the
// new handle its own file pointer and its own share mode.
type reopenDuplicator struct{}

func newPlatformDuplicator() (HandleDuplicator, error) {
	if err := procReOpenFile.Find(); err != nil {
		return nil, err
	}

	return reopenDuplicator{}, nil
}

func (reopenDuplicator) ShareModes() []ShareMode {
	return DefaultShareModes
}

func (reopenDuplicator) Duplicate(h Handle, mode ShareMode) (*os.File, error) {
	var nh windows.Handle
	err := rawFd(h, func(fd uintptr) error {
		var err error
		nh, err = reOpenFile(windows.Handle(fd), fileGenericRead, shareFlags(mode), 0)
		return err
	})
	if err != nil {
		return nil, err
	}

	return os.NewFile(uintptr(nh), h.Name()), nil
}

func (reopenDuplicator) IsSharingViolation(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION)
}

func shareFlags(mode ShareMode) uint32 {
	var flags uint32
	if mode&ShareRead != 0 {
		flags |= windows.FILE_SHARE_READ
	}
	if mode&ShareWrite != 0 {
		flags |= windows.FILE_SHARE_WRITE
	}
	if mode&ShareDelete != 0 {
		flags |= windows.FILE_SHARE_DELETE
	}

	return flags
}

func reOpenFile(h windows.Handle, access, share, flags uint32) (windows.Handle, error) {
	r, _, e := procReOpenFile.Call(uintptr(h), uintptr(access), uintptr(share), uintptr(flags))
	nh := windows.Handle(r)
	if nh == windows.InvalidHandle {
		var errno syscall.Errno
		if errors.As(e, &errno) && errno != 0 {
			return 0, errno
		}
		return 0, windows.ERROR_INVALID_HANDLE
	}

	return nh, nil
}
