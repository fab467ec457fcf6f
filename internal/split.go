package internal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	myio "github.com/mazrean/streamclone/internal/pkg/io"
)

type SplitReport struct {
	Source         string      `json:"source"`
	Offset         int64       `json:"offset"`
	Parts          []SplitPart `json:"parts"`
	SourcePosition int64       `json:"sourcePosition"`
}

type SplitPart struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// Split writes the bytes of path from offset to EOF into n part files in
// dir, read through a clone of the opened source. Part sizes differ by at
// most one byte.
func (a *App) Split(path string, offset int64, n int, dir string) (_ *SplitReport, err error) {
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

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create part directory: %w", err)
	}

	remaining := src.size - offset
	report := &SplitReport{
		Source: path,
		Offset: offset,
		Parts:  make([]SplitPart, 0, n),
	}

	parts := make([]myio.Part, 0, n)
	for i, size := range partSizes(remaining, n) {
		partPath := filepath.Join(dir, fmt.Sprintf("%s.part-%03d", filepath.Base(path), i))
		f, createErr := os.Create(partPath)
		if createErr != nil {
			return nil, fmt.Errorf("create part: %w", createErr)
		}
		defer func() {
			if closeErr := f.Close(); closeErr != nil {
				err = errors.Join(err, fmt.Errorf("close part: %w", closeErr))
			}
		}()

		parts = append(parts, myio.Part{Writer: f, Size: size})
		report.Parts = append(report.Parts, SplitPart{Path: partPath, Size: size})
	}

	written, err := io.CopyN(myio.NewPartWriter(parts...), clone, remaining)
	if err != nil {
		return nil, fmt.Errorf("copy parts: %w", err)
	}
	a.logger.Infof("split done: parts=%d, bytes=%d", n, written)

	report.SourcePosition, err = src.checkPosition()
	if err != nil {
		return nil, err
	}

	return report, nil
}

func partSizes(total int64, n int) []int64 {
	sizes := make([]int64, n)
	base, rest := total/int64(n), total%int64(n)
	for i := range sizes {
		sizes[i] = base
		if int64(i) < rest {
			sizes[i]++
		}
	}

	return sizes
}
