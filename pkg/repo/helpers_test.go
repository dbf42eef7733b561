package repo

import (
	"errors"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/tony-hsu/gitlet/pkg/logging"
	"github.com/tony-hsu/gitlet/pkg/object"
)

// testClock returns a clock that advances one minute per call so every
// commit gets a distinct timestamp.
func testClock() func() time.Time {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func initTestRepo(t *testing.T) (*Repo, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	r, err := Init(fs, WithClock(testClock()), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r, fs
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func fileExists(t *testing.T, fs afero.Fs, path string) bool {
	t.Helper()
	ok, err := afero.Exists(fs, path)
	if err != nil {
		t.Fatalf("exists %s: %v", path, err)
	}
	return ok
}

// commitFile writes path, stages it and commits with message.
func commitFile(t *testing.T, r *Repo, fs afero.Fs, path, content, message string) *object.Commit {
	t.Helper()
	writeFile(t, fs, path, content)
	if err := r.Add(path); err != nil {
		t.Fatalf("Add(%s): %v", path, err)
	}
	c, err := r.Commit(message)
	if err != nil {
		t.Fatalf("Commit(%q): %v", message, err)
	}
	return c
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want %v", err, want)
	}
}
