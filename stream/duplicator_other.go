//go:build !linux && !windows

package stream

func newPlatformDuplicator() (HandleDuplicator, error) {
	return pathDuplicator{}, nil
}
