package internal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mazrean/streamclone/internal/sink"
)

type SnapshotReport struct {
	Source         string `json:"source"`
	Offset         int64  `json:"offset"`
	Name           string `json:"name"`
	Location       string `json:"location"`
	Size           int64  `json:"size"`
	SourcePosition int64  `json:"sourcePosition"`
	TimeNanos      int64  `json:"timeNanos"`
}

// Snapshot stores the bytes of path from offset to EOF in s. The bytes are
// read through a clone, so the opened source keeps its position.
func (a *App) Snapshot(ctx context.Context, s sink.Sink, path string, offset int64, name string) (_ *SnapshotReport, err error) {
	start := time.Now()

	src, err := a.openSource(path, offset)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close source: %w", closeErr))
		}
	}()

	clone, err := a.clone(src)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := clone.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close clone: %w", closeErr))
		}
	}()

	if name == "" {
		name = uuid.NewString()
	}
	size := src.size - offset

	location, err := s.Put(ctx, name, size, clone)
	if err != nil {
		return nil, fmt.Errorf("put snapshot: %w", err)
	}
	a.logger.Infof("snapshot stored: name=%s, location=%s, size=%d", name, location, size)

	pos, err := src.checkPosition()
	if err != nil {
		return nil, err
	}

	return &SnapshotReport{
		Source:         path,
		Offset:         offset,
		Name:           name,
		Location:       location,
		Size:           size,
		SourcePosition: pos,
		TimeNanos:      time.Since(start).Nanoseconds(),
	}, nil
}
