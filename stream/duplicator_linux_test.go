//go:build linux

package stream

import (
	"io"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProcDuplicator_Unlinked(t *testing.T) {
	t.Parallel()

	src := newTestFile(t, "still here", 6)
	if err := os.Remove(src.Name()); err != nil {
		t.Fatal(err)
	}

	clone, err := NewCloner(WithDuplicator(procDuplicator{})).Clone(src)
	if err != nil {
		t.Fatal(err)
	}
	defer clone.Close()

	got, err := io.ReadAll(clone)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff("here", string(got)); diff != "" {
		t.Errorf("clone content mismatch (-want +got):\n%s", diff)
	}
}

func TestNewPlatformDuplicator(t *testing.T) {
	t.Parallel()

	d, err := newPlatformDuplicator()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]ShareMode{ShareRead}, d.ShareModes()); diff != "" {
		t.Errorf("share modes mismatch (-want +got):\n%s", diff)
	}
}
