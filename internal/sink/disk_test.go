package sink

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mazrean/streamclone/log"
)

func TestNewDisk(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		wantErr bool
		setup   func(t *testing.T) string
	}{
		{
			name: "normal initialization",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
		},
		{
			name: "nested directory is created",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "a", "b")
			},
		},
		{
			name:    "error on directory creation",
			wantErr: true,
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				file := filepath.Join(dir, "file")
				if err := os.WriteFile(file, nil, 0600); err != nil {
					t.Fatal(err)
				}
				return filepath.Join(file, "subdir")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := tt.setup(t)
			disk, err := NewDisk(log.DefaultLogger, dir)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(map[string]struct{}{}, disk.objectMap); diff != "" {
				t.Errorf("object map mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDisk_Put(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		objName  string
		data     []byte
		size     int64
		wantPath string
		wantErr  error
	}{
		{
			name:     "non-empty data",
			objName:  "snapshot-1",
			data:     []byte("test data"),
			size:     9,
			wantPath: "s-snapshot-1",
		},
		{
			name:     "empty data",
			objName:  "snapshot-2",
			data:     []byte{},
			size:     0,
			wantPath: "s-snapshot-2",
		},
		{
			name:     "unknown size",
			objName:  "a/b",
			data:     []byte("test data"),
			size:     -1,
			wantPath: "s-a-b",
		},
		{
			name:    "size mismatch",
			objName: "snapshot-3",
			data:    []byte("test data"),
			size:    4,
			wantErr: ErrSizeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			disk, err := NewDisk(log.DefaultLogger, dir)
			if err != nil {
				t.Fatal(err)
			}

			gotPath, err := disk.Put(context.Background(), tt.objName, tt.size, bytes.NewReader(tt.data))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				if _, err := os.Stat(disk.objectFilePath(tt.objName)); !errors.Is(err, os.ErrNotExist) {
					t.Errorf("partial file left behind: %v", err)
				}
				if _, ok := disk.objectMap[tt.objName]; ok {
					t.Error("failed object still registered")
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(filepath.Join(dir, tt.wantPath), gotPath); diff != "" {
				t.Errorf("path mismatch (-want +got):\n%s", diff)
			}

			content, err := os.ReadFile(gotPath)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.data, content); diff != "" {
				t.Errorf("content mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDisk_PutDuplicate(t *testing.T) {
	t.Parallel()

	disk, err := NewDisk(log.DefaultLogger, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if _, err := disk.Put(ctx, "dup", 3, bytes.NewReader([]byte("abc"))); err != nil {
		t.Fatal(err)
	}

	path, err := disk.Put(ctx, "dup", 3, bytes.NewReader([]byte("xyz")))
	if !errors.Is(err, ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if path != "" {
		t.Errorf("expected empty path, got %s", path)
	}

	content, err := os.ReadFile(disk.objectFilePath("dup"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("abc", string(content)); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}
}
