package sink

import (
	"context"
	"io"
	"strings"
)

// Sink stores the content of a cloned stream.
type Sink interface {
	// Put stores size bytes read from r under name. size is -1 when unknown.
	// It returns where the object was stored.
	Put(ctx context.Context, name string, size int64, r io.Reader) (location string, err error)
	Close() error
}

func encodeName(name string) string {
	return strings.ReplaceAll(name, "/", "-")
}
