package internal

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/mazrean/streamclone/log"
	"github.com/mazrean/streamclone/stream"
)

// App runs the CLI commands on top of a stream.Cloner.
type App struct {
	logger     log.Logger
	cloner     *stream.Cloner
	cloneCount uint64
}

func NewApp(logger log.Logger, cloner *stream.Cloner) *App {
	return &App{logger: logger, cloner: cloner}
}

var _ stream.FileBacked = &source{}

// source is an opened source file moved to the requested offset.
type source struct {
	*stream.FileStream
	offset int64
	size   int64
}

func (a *App) openSource(path string, offset int64) (*source, error) {
	f, err := stream.OpenFile(path)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if offset > info.Size() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: offset %d beyond size %d", ErrInvalidOffset, offset, info.Size())
	}

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("seek source: %w", err)
	}
	a.logger.Debugf("source opened: path=%s, offset=%d, size=%d", path, offset, info.Size())

	return &source{FileStream: f, offset: offset, size: info.Size()}, nil
}

var ErrInvalidOffset = errors.New("invalid offset")

func (a *App) clone(s stream.Stream) (stream.Stream, error) {
	clone, err := a.cloner.Clone(s)
	if err != nil {
		return nil, fmt.Errorf("clone source: %w", err)
	}
	atomic.AddUint64(&a.cloneCount, 1)

	return clone, nil
}

// checkPosition fails if the source cursor was moved by cloning.
func (s *source) checkPosition() (int64, error) {
	pos, err := s.Position()
	if err != nil {
		return 0, fmt.Errorf("get source position: %w", err)
	}
	if pos != s.offset {
		return pos, fmt.Errorf("%w: source moved from %d to %d", ErrSourceMoved, s.offset, pos)
	}

	return pos, nil
}

var ErrSourceMoved = errors.New("source position changed")

func (a *App) Close() error {
	a.logger.Infof("clone count: %d", atomic.LoadUint64(&a.cloneCount))
	return nil
}
