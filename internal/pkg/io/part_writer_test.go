package io

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type errorWriter struct {
	err error
}

func (w *errorWriter) Write([]byte) (int, error) {
	return 0, w.err
}

func TestPartWriter(t *testing.T) {
	t.Parallel()

	errWrite := errors.New("write error")

	tests := []struct {
		name          string
		writes        []string
		sizes         []int64
		failAt        int
		wantParts     []string
		wantN         int
		wantErr       error
		wantRemaining int64
	}{
		{
			name:          "single part",
			writes:        []string{"hello"},
			sizes:         []int64{10},
			failAt:        -1,
			wantParts:     []string{"hello"},
			wantN:         5,
			wantRemaining: 5,
		},
		{
			name:      "split across parts",
			writes:    []string{"hello"},
			sizes:     []int64{3, 2},
			failAt:    -1,
			wantParts: []string{"hel", "lo"},
			wantN:     5,
		},
		{
			name:      "empty part skipped",
			writes:    []string{"ab", "cd"},
			sizes:     []int64{1, 0, 3},
			failAt:    -1,
			wantParts: []string{"a", "", "bcd"},
			wantN:     2,
		},
		{
			name:      "overflow",
			writes:    []string{"hello"},
			sizes:     []int64{2, 2},
			failAt:    -1,
			wantParts: []string{"he", "ll"},
			wantN:     4,
			wantErr:   io.ErrShortWrite,
		},
		{
			name:          "part error",
			writes:        []string{"hello"},
			sizes:         []int64{2, 3},
			failAt:        1,
			wantParts:     []string{"he", ""},
			wantN:         2,
			wantErr:       errWrite,
			wantRemaining: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			bufs := make([]*bytes.Buffer, len(tt.sizes))
			parts := make([]Part, len(tt.sizes))
			for i, size := range tt.sizes {
				bufs[i] = &bytes.Buffer{}
				parts[i] = Part{Writer: bufs[i], Size: size}
				if i == tt.failAt {
					parts[i].Writer = &errorWriter{err: errWrite}
				}
			}

			w := NewPartWriter(parts...)
			var (
				n   int
				err error
			)
			for _, s := range tt.writes {
				n, err = w.Write([]byte(s))
				if err != nil {
					break
				}
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected error %v, got %v", tt.wantErr, err)
			}
			if n != tt.wantN {
				t.Errorf("expected %d bytes in last write, got %d", tt.wantN, n)
			}
			if w.Remaining() != tt.wantRemaining {
				t.Errorf("expected %d remaining, got %d", tt.wantRemaining, w.Remaining())
			}

			got := make([]string, len(bufs))
			for i, b := range bufs {
				got[i] = b.String()
			}
			if diff := cmp.Diff(tt.wantParts, got); diff != "" {
				t.Errorf("parts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
