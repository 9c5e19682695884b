package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/flowctl/flowctl/internal/jobctl"
)

func withTempHome(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
}

func TestPutAndListLiveJobs(t *testing.T) {
	withTempHome(t)
	proj, err := Open("myproj")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer proj.Close()

	ctx := context.Background()
	rec := jobctl.LiveJobRecord{JobID: "train", Multi: false, UserTags: []string{"owner:alice"}}
	if err := proj.PutLiveJob(ctx, rec); err != nil {
		t.Fatalf("PutLiveJob: %v", err)
	}
	rec.UserTags = []string{"owner:bob"}
	if err := proj.PutLiveJob(ctx, rec); err != nil {
		t.Fatalf("PutLiveJob (update): %v", err)
	}

	got, err := proj.ListLiveJobs(ctx)
	if err != nil {
		t.Fatalf("ListLiveJobs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d records, want 1", len(got))
	}
	if got[0].UserTags[0] != "owner:bob" {
		t.Errorf("expected upsert to overwrite tags, got %v", got[0].UserTags)
	}
}

func TestOpenSetsSecurePermissions(t *testing.T) {
	withTempHome(t)
	proj, err := Open("secure-proj")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer proj.Close()

	info, err := os.Stat(proj.path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSanitizeFilename(t *testing.T) {
	got := sanitizeFilename("my/proj:weird name")
	if filepath.Base(got) != got {
		t.Errorf("sanitized name still contains path separators: %q", got)
	}
}
