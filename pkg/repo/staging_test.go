package repo

import (
	"testing"
)

// Test 1: Add stages a new file and persists its blob.
func TestAdd_StagesNewFile(t *testing.T) {
	r, fs := initTestRepo(t)
	writeFile(t, fs, "a.txt", "hello")

	if err := r.Add("a.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	id, ok := r.Stage().Additions["a.txt"]
	if !ok {
		t.Fatal("a.txt not staged")
	}
	data, err := r.ReadBlob(id)
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("blob = %q, want hello", data)
	}
}

// Test 2: Adding a missing file fails without staging anything.
func TestAdd_MissingFile(t *testing.T) {
	r, _ := initTestRepo(t)
	expectErr(t, r.Add("nope.txt"), ErrFileNotFound)
	if !r.Stage().IsClean() {
		t.Error("stage changed after failed add")
	}
}

// Test 3: Re-adding committed content un-stages the path.
func TestAdd_UnchangedContentIsIdempotent(t *testing.T) {
	r, fs := initTestRepo(t)
	commitFile(t, r, fs, "a.txt", "v1", "first")

	writeFile(t, fs, "a.txt", "v2")
	if err := r.Add("a.txt"); err != nil {
		t.Fatalf("Add(v2): %v", err)
	}
	writeFile(t, fs, "a.txt", "v1")
	if err := r.Add("a.txt"); err != nil {
		t.Fatalf("Add(v1): %v", err)
	}
	if err := r.Add("a.txt"); err != nil {
		t.Fatalf("Add(v1) again: %v", err)
	}
	if !r.Stage().IsClean() {
		t.Errorf("stage not clean: %+v", r.Stage())
	}
}

// Test 4: Adding a file staged for removal cancels the removal.
func TestAdd_CancelsRemoval(t *testing.T) {
	r, fs := initTestRepo(t)
	commitFile(t, r, fs, "a.txt", "v1", "first")

	if err := r.Remove("a.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !r.Stage().IsRemoved("a.txt") {
		t.Fatal("a.txt not staged for removal")
	}
	writeFile(t, fs, "a.txt", "v1")
	if err := r.Add("a.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if !r.Stage().IsClean() {
		t.Errorf("stage not clean: %+v", r.Stage())
	}
}

// Test 5: Remove of a tracked file stages removal and deletes the file.
func TestRemove_TrackedFile(t *testing.T) {
	r, fs := initTestRepo(t)
	commitFile(t, r, fs, "a.txt", "v1", "first")

	if err := r.Remove("a.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if fileExists(t, fs, "a.txt") {
		t.Error("a.txt still in working tree")
	}
	if !r.Stage().IsRemoved("a.txt") || r.Stage().IsAdded("a.txt") {
		t.Errorf("unexpected stage: %+v", r.Stage())
	}
}

// Test 6: Remove of a staged-only file un-stages it and keeps the file.
func TestRemove_StagedOnly(t *testing.T) {
	r, fs := initTestRepo(t)
	writeFile(t, fs, "new.txt", "x")
	if err := r.Add("new.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Remove("new.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !r.Stage().IsClean() {
		t.Errorf("stage not clean: %+v", r.Stage())
	}
	if !fileExists(t, fs, "new.txt") {
		t.Error("untracked file was deleted")
	}
}

// Test 7: Remove of an unknown file is refused.
func TestRemove_NothingToRemove(t *testing.T) {
	r, fs := initTestRepo(t)
	writeFile(t, fs, "loose.txt", "x")
	expectErr(t, r.Remove("loose.txt"), ErrNothingToRemove)
	if !fileExists(t, fs, "loose.txt") {
		t.Error("untracked file was deleted")
	}
}

// Test 8: Remove never deletes a directory that shadows a tracked path.
func TestRemove_GuardedDelete(t *testing.T) {
	r, fs := initTestRepo(t)
	commitFile(t, r, fs, "thing", "file", "first")
	if err := fs.Remove("thing"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := fs.MkdirAll("thing", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := r.Remove("thing"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !fileExists(t, fs, "thing") {
		t.Error("directory was deleted")
	}
}
