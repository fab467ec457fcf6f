//go:build windows

package stream

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sys/windows"
)

type recordingDuplicator struct {
	HandleDuplicator
	tried []ShareMode
}

func (r *recordingDuplicator) Duplicate(h Handle, mode ShareMode) (*os.File, error) {
	r.tried = append(r.tried, mode)
	return r.HandleDuplicator.Duplicate(h, mode)
}

func createWithShare(t *testing.T, share uint32) *os.File {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shared")
	if err := os.WriteFile(path, []byte("0123456789"), 0600); err != nil {
		t.Fatal(err)
	}

	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		t.Fatal(err)
	}
	h, err := windows.CreateFile(name, windows.GENERIC_READ|windows.GENERIC_WRITE, share, nil, windows.OPEN_EXISTING, windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		t.Fatal(err)
	}

	f := os.NewFile(uintptr(h), path)
	t.Cleanup(func() {
		_ = f.Close()
	})
	if _, err := f.Seek(2, io.SeekStart); err != nil {
		t.Fatal(err)
	}

	return f
}

func TestReopenDuplicator_Exclusive(t *testing.T) {
	t.Parallel()

	d, err := newPlatformDuplicator()
	if err != nil {
		t.Fatal(err)
	}
	rec := &recordingDuplicator{HandleDuplicator: d}

	src := createWithShare(t, 0)
	_, err = NewCloner(WithDuplicator(rec)).Clone(src)

	var oerr *OSError
	if !errors.As(err, &oerr) {
		t.Fatalf("expected *OSError, got %v", err)
	}
	if oerr.Code != windows.ERROR_SHARING_VIOLATION {
		t.Errorf("expected sharing violation, got code %d", oerr.Code)
	}
	if diff := cmp.Diff(DefaultShareModes, rec.tried); diff != "" {
		t.Errorf("tried modes mismatch (-want +got):\n%s", diff)
	}
}

func TestReopenDuplicator_SecondRung(t *testing.T) {
	t.Parallel()

	d, err := newPlatformDuplicator()
	if err != nil {
		t.Fatal(err)
	}
	rec := &recordingDuplicator{HandleDuplicator: d}

	// The source holds write access, so a clone refusing to share writes
	// is rejected.
	src := createWithShare(t, windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE)
	clone, err := NewCloner(WithDuplicator(rec)).Clone(src)
	if err != nil {
		t.Fatal(err)
	}
	defer clone.Close()

	if diff := cmp.Diff([]ShareMode{ShareRead, ShareRead | ShareWrite}, rec.tried); diff != "" {
		t.Errorf("tried modes mismatch (-want +got):\n%s", diff)
	}

	got, err := io.ReadAll(clone)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("23456789", string(got)); diff != "" {
		t.Errorf("clone content mismatch (-want +got):\n%s", diff)
	}
}
