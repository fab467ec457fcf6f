package sink

import (
	"context"
	"fmt"
	"io"

	"github.com/DataDog/zstd"
)

var _ Sink = &Zstd{}

// Zstd compresses bodies before handing them to the wrapped sink.
type Zstd struct {
	sink  Sink
	level int
}

func NewZstd(sink Sink, level int) *Zstd {
	if level <= 0 {
		level = zstd.DefaultCompression
	}

	return &Zstd{sink: sink, level: level}
}

// Put stores the compressed body under name + ".zst". The compressed size
// is unknown in advance, so the wrapped sink receives size -1.
func (z *Zstd) Put(ctx context.Context, name string, _ int64, r io.Reader) (string, error) {
	pr, pw := io.Pipe()
	done := make(chan struct{})
	go func() {
		defer close(done)

		zw := zstd.NewWriterLevel(pw, z.level)
		_, err := io.Copy(zw, r)
		if closeErr := zw.Close(); err == nil {
			err = closeErr
		}
		pw.CloseWithError(err)
	}()

	location, err := z.sink.Put(ctx, name+".zst", -1, pr)
	// unblock the compressor if the sink gave up early
	pr.CloseWithError(io.ErrClosedPipe)
	<-done
	if err != nil {
		return "", fmt.Errorf("put compressed: %w", err)
	}

	return location, nil
}

func (z *Zstd) Close() error {
	return z.sink.Close()
}
