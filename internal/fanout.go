package internal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/mazrean/streamclone/internal/closer"
	"github.com/mazrean/streamclone/internal/metrics"
	"github.com/mazrean/streamclone/stream"
	"golang.org/x/sync/errgroup"
)

type FanoutReport struct {
	Source         string `json:"source"`
	Offset         int64  `json:"offset"`
	Clones         int    `json:"clones"`
	Bytes          int64  `json:"bytes"`
	Digest         string `json:"digest"`
	SourcePosition int64  `json:"sourcePosition"`
	// Open descriptors of the process, zero where /proc is not available.
	FDsBefore     int   `json:"fdsBefore"`
	FDsWithClones int   `json:"fdsWithClones"`
	FDsAfter      int   `json:"fdsAfter"`
	ReadNanos     int64 `json:"readNanos"`
}

var ErrDigestMismatch = errors.New("clones read different content")

var fanoutLatencyGauge = metrics.NewGauge("fanout_latency")

// Fanout clones path n times at offset, reads every clone to EOF
// concurrently and checks that all of them saw the same bytes.
func (a *App) Fanout(ctx context.Context, path string, offset int64, n int) (_ *FanoutReport, err error) {
	src, err := a.openSource(path, offset)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := src.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close source: %w", closeErr))
		}
	}()

	report := &FanoutReport{
		Source: path,
		Offset: offset,
		Clones: n,
	}
	report.FDsBefore = a.openFDs()

	var clones closer.Group
	defer func() {
		if closeErr := clones.Close(ctx); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close clones: %w", closeErr))
		}
	}()

	streams := make([]stream.Stream, 0, n)
	for range n {
		clone, err := a.clone(src)
		if err != nil {
			return nil, err
		}
		clones.AddCloser(clone)
		streams = append(streams, clone)
	}
	report.FDsWithClones = a.openFDs()

	digests := make([]string, n)
	sizes := make([]int64, n)
	elapsed := fanoutLatencyGauge.Stopwatch(func() {
		eg, ctx := errgroup.WithContext(ctx)
		for i, s := range streams {
			eg.Go(func() error {
				h := sha256.New()
				written, err := io.Copy(h, &ctxReader{ctx: ctx, r: s})
				if err != nil {
					return fmt.Errorf("read clone %d: %w", i, err)
				}
				digests[i] = hex.EncodeToString(h.Sum(nil))
				sizes[i] = written
				return nil
			})
		}
		err = eg.Wait()
	}, "read")
	if err != nil {
		return nil, err
	}
	report.ReadNanos = elapsed.Nanoseconds()

	for i := range digests {
		if digests[i] != digests[0] || sizes[i] != sizes[0] {
			return nil, fmt.Errorf("%w: clone 0 read %d bytes (%s), clone %d read %d bytes (%s)",
				ErrDigestMismatch, sizes[0], digests[0], i, sizes[i], digests[i])
		}
	}
	report.Digest = digests[0]
	report.Bytes = sizes[0]

	if err := clones.Close(ctx); err != nil {
		return nil, fmt.Errorf("close clones: %w", err)
	}
	report.FDsAfter = a.openFDs()

	report.SourcePosition, err = src.checkPosition()
	if err != nil {
		return nil, err
	}

	return report, nil
}

func (a *App) openFDs() int {
	n, err := metrics.OpenFDs()
	if err != nil {
		a.logger.Debugf("failed to count open descriptors: %v", err)
		return 0
	}

	return n
}

// ctxReader stops reading once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
