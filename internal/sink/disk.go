package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mazrean/streamclone/log"
)

var _ Sink = &Disk{}

type Disk struct {
	logger   log.Logger
	rootPath string

	objectMapLocker sync.Mutex
	objectMap       map[string]struct{}
}

func NewDisk(logger log.Logger, dir string) (*Disk, error) {
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, fmt.Errorf("create root directory: %w", err)
	}

	logger.Infof("disk sink initialized: dir=%s", dir)

	return &Disk{
		logger:    logger,
		rootPath:  dir,
		objectMap: map[string]struct{}{},
	}, nil
}

var (
	ErrSizeMismatch = errors.New("size mismatch")
	ErrExists       = errors.New("object already exists")
)

func (d *Disk) Put(_ context.Context, name string, size int64, body io.Reader) (_ string, err error) {
	outputFilePath := d.objectFilePath(name)

	func() {
		d.objectMapLocker.Lock()
		defer d.objectMapLocker.Unlock()
		if _, ok := d.objectMap[name]; ok {
			err = fmt.Errorf("%w: name=%s", ErrExists, name)
			return
		}
		d.objectMap[name] = struct{}{}
	}()
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(outputFilePath)

			d.objectMapLocker.Lock()
			defer d.objectMapLocker.Unlock()
			delete(d.objectMap, name)
		}
	}()

	f, err := os.Create(outputFilePath)
	if err != nil {
		return "", fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close output file: %w", closeErr))
		}
	}()

	n, err := io.Copy(f, body)
	if err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	if size >= 0 && n != size {
		return "", fmt.Errorf("%w: want=%d, got=%d", ErrSizeMismatch, size, n)
	}
	d.logger.Debugf("output file written: path=%s, size=%d", outputFilePath, n)

	return outputFilePath, nil
}

func (d *Disk) objectFilePath(name string) string {
	return filepath.Join(d.rootPath, fmt.Sprintf("s-%s", encodeName(name)))
}

func (d *Disk) Close() error {
	return nil
}
