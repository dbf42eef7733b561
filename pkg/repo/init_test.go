package repo

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/afero"

	"github.com/tony-hsu/gitlet/pkg/logging"
	"github.com/tony-hsu/gitlet/pkg/object"
)

// Test 1: Init creates the root commit on master and registers it.
func TestInit_RootCommit(t *testing.T) {
	r, fs := initTestRepo(t)

	if got := r.CurrentBranch(); got != "master" {
		t.Errorf("CurrentBranch = %q, want master", got)
	}
	root, err := r.ReadCommit(r.Head())
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if root.Message != object.RootMessage || root.Timestamp != 0 || root.Parent != "" || len(root.Blobs) != 0 {
		t.Errorf("unexpected root commit: %+v", root)
	}

	ids, err := r.Find(object.RootMessage)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(ids) != 1 || ids[0] != root.ID {
		t.Errorf("Find(initial commit) = %v, want [%s]", ids, root.ID)
	}

	for _, p := range []string{".gitlet/state.json", ".gitlet/config.toml", ".gitlet/global-log"} {
		if !fileExists(t, fs, p) {
			t.Errorf("%s not created", p)
		}
	}
}

// Test 2: Two repositories initialized separately share the same root id.
func TestInit_RootIsDeterministic(t *testing.T) {
	a, _ := initTestRepo(t)
	b, _ := initTestRepo(t)
	if a.Head() != b.Head() {
		t.Errorf("root ids differ: %s vs %s", a.Head(), b.Head())
	}
}

// Test 3: Init refuses an existing repository.
func TestInit_AlreadyExists(t *testing.T) {
	_, fs := initTestRepo(t)
	_, err := Init(fs)
	expectErr(t, err, ErrRepoExists)
}

// Test 4: Open outside a repository is a user error.
func TestOpen_NotARepository(t *testing.T) {
	_, err := Open(afero.NewMemMapFs())
	expectErr(t, err, ErrNotARepository)
}

// Test 5: Save then Open reconstructs an identical repository.
func TestOpen_ReloadIdentity(t *testing.T) {
	r, fs := initTestRepo(t)
	commitFile(t, r, fs, "a.txt", "one", "first")
	if err := r.NewBranch("dev"); err != nil {
		t.Fatalf("NewBranch: %v", err)
	}
	commitFile(t, r, fs, "b.txt", "two", "second")
	writeFile(t, fs, "c.txt", "staged")
	if err := r.Add("c.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Remove("a.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := r.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Open(fs, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got.CurrentBranch() != r.CurrentBranch() {
		t.Errorf("current = %q, want %q", got.CurrentBranch(), r.CurrentBranch())
	}
	if !reflect.DeepEqual(got.branches, r.branches) {
		t.Errorf("branches differ after reload:\n got: %+v\nwant: %+v", got.branches, r.branches)
	}
	if !reflect.DeepEqual(got.messages, r.messages) {
		t.Errorf("messages differ after reload:\n got: %v\nwant: %v", got.messages, r.messages)
	}
}

// Test 6: Init and Discover on a real directory.
func TestInitDir_Discover(t *testing.T) {
	dir := t.TempDir()
	r, err := InitDir(dir, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("InitDir: %v", err)
	}
	sub := filepath.Join(dir, "nested", "deeper")
	if err := r.fs.MkdirAll("nested/deeper", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := Discover(sub, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if found.Head() != r.Head() {
		t.Errorf("Discover head = %s, want %s", found.Head(), r.Head())
	}
	if found.RootDir != r.RootDir {
		t.Errorf("RootDir = %q, want %q", found.RootDir, r.RootDir)
	}

	_, err = Discover(t.TempDir())
	expectErr(t, err, ErrNotARepository)
}

// Test 7: Configured hash and branch name are honored and persisted.
func TestInit_CustomConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := DefaultConfig()
	cfg.Core.Hash = object.HashSHA1
	cfg.Core.DefaultBranch = "main"
	cfg.Core.Compression = false
	r, err := Init(fs, WithConfig(cfg), WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if len(r.Head()) != 40 {
		t.Errorf("sha1 head length = %d, want 40", len(r.Head()))
	}
	if r.CurrentBranch() != "main" {
		t.Errorf("CurrentBranch = %q, want main", r.CurrentBranch())
	}

	reopened, err := Open(fs, WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if reopened.Config.Core.Hash != object.HashSHA1 || reopened.Config.Core.Compression {
		t.Errorf("config not persisted: %+v", reopened.Config.Core)
	}
}

// Test 8: Switching core.hash after init is rejected on open.
func TestOpen_HashMismatch(t *testing.T) {
	_, fs := initTestRepo(t)
	cfg, err := ReadConfig(fs)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	cfg.Core.Hash = object.HashSHA1
	if err := WriteConfig(fs, cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if _, err := Open(fs, WithLogger(logging.Discard())); err == nil {
		t.Fatal("Open succeeded with mismatched hash")
	}
}
