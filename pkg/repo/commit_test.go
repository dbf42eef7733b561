package repo

import (
	"reflect"
	"testing"

	"github.com/tony-hsu/gitlet/pkg/object"
)

// Test 1: A commit's blobs are its parent's blobs minus removals plus additions.
func TestCommit_SnapshotInvariant(t *testing.T) {
	r, fs := initTestRepo(t)
	first := commitFile(t, r, fs, "a.txt", "a1", "first")
	writeFile(t, fs, "b.txt", "b1")
	if err := r.Add("b.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	second, err := r.Commit("second")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	writeFile(t, fs, "a.txt", "a2")
	if err := r.Add("a.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Remove("b.txt"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	additions := map[string]object.Hash{"a.txt": r.Stage().Additions["a.txt"]}
	third, err := r.Commit("third")
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if third.Parent != second.ID || second.Parent != first.ID {
		t.Fatalf("parent chain broken: %s <- %s <- %s", first.ID, second.Parent, third.Parent)
	}
	want := map[string]object.Hash{"a.txt": additions["a.txt"]}
	if !reflect.DeepEqual(third.Blobs, want) {
		t.Errorf("third blobs = %v, want %v", third.Blobs, want)
	}
	if len(second.Blobs) != 2 {
		t.Errorf("second blobs = %v, want 2 entries", second.Blobs)
	}
	if r.Head() != third.ID || !r.Stage().IsClean() || r.Stage().Base != third.ID {
		t.Errorf("branch not advanced with a fresh stage: head=%s stage=%+v", r.Head(), r.Stage())
	}
}

// Test 2: Committing a clean stage is refused.
func TestCommit_NoChanges(t *testing.T) {
	r, _ := initTestRepo(t)
	head := r.Head()
	_, err := r.Commit("nothing")
	expectErr(t, err, ErrNoChanges)
	if r.Head() != head {
		t.Error("head moved")
	}
}

// Test 3: An empty message is refused.
func TestCommit_EmptyMessage(t *testing.T) {
	r, fs := initTestRepo(t)
	writeFile(t, fs, "a.txt", "x")
	if err := r.Add("a.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	_, err := r.Commit("")
	expectErr(t, err, ErrEmptyMessage)
}

// Test 4: Commits are readable back from the store after reopening.
func TestCommit_Persisted(t *testing.T) {
	r, fs := initTestRepo(t)
	c := commitFile(t, r, fs, "dir/a.txt", "nested", "nested file")
	got, err := r.ReadCommit(c.ID)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if !reflect.DeepEqual(got.Blobs, c.Blobs) || got.Message != c.Message || got.Timestamp != c.Timestamp {
		t.Errorf("read back %+v, want %+v", got, c)
	}
}
