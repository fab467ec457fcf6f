//go:build linux

package stream

import (
	"errors"
	"os"
	"strconv"

	"golang.org/x/sys/unix"
)

const procSelfFd = "/proc/self/fd"

var _ HandleDuplicator = procDuplicator{}

// procDuplicator re-opens the descriptor through /proc, which keeps working
// after the file was renamed or unlinked.
type procDuplicator struct{}

func newPlatformDuplicator() (HandleDuplicator, error) {
	if _, err := os.Stat(procSelfFd); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return pathDuplicator{}, nil
		}
		return nil, err
	}

	return procDuplicator{}, nil
}

func (procDuplicator) ShareModes() []ShareMode {
	return DefaultShareModes[:1]
}

func (procDuplicator) Duplicate(h Handle, _ ShareMode) (*os.File, error) {
	var nfd int
	err := rawFd(h, func(fd uintptr) error {
		path := procSelfFd + "/" + strconv.FormatUint(uint64(fd), 10)

		var err error
		for {
			nfd, err = unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
			if err != unix.EINTR {
				break
			}
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return os.NewFile(uintptr(nfd), h.Name()), nil
}

func (procDuplicator) IsSharingViolation(error) bool {
	return false
}
