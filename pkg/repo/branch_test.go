package repo

import (
	"reflect"
	"testing"
)

// Test 1: NewBranch points at the current head and does not switch.
func TestNewBranch(t *testing.T) {
	r, fs := initTestRepo(t)
	c := commitFile(t, r, fs, "a.txt", "x", "first")

	if err := r.NewBranch("feature"); err != nil {
		t.Fatalf("NewBranch: %v", err)
	}
	if r.CurrentBranch() != "master" {
		t.Errorf("CurrentBranch = %q, want master", r.CurrentBranch())
	}
	if b := r.Branch("feature"); b == nil || b.Head != c.ID {
		t.Errorf("feature = %+v, want head %s", b, c.ID)
	}
	if got, want := r.Branches(), []string{"feature", "master"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Branches = %v, want %v", got, want)
	}

	expectErr(t, r.NewBranch("feature"), ErrBranchExists)
	if err := r.NewBranch(""); err == nil {
		t.Error("empty branch name accepted")
	}
}

// Test 2: RemoveBranch refuses unknown and current branches.
func TestRemoveBranch(t *testing.T) {
	r, _ := initTestRepo(t)
	if err := r.NewBranch("old"); err != nil {
		t.Fatalf("NewBranch: %v", err)
	}

	expectErr(t, r.RemoveBranch("missing"), ErrBranchNotFound)
	expectErr(t, r.RemoveBranch("master"), ErrCannotRemoveCurrent)

	if err := r.RemoveBranch("old"); err != nil {
		t.Fatalf("RemoveBranch: %v", err)
	}
	if r.Branch("old") != nil {
		t.Error("branch still present")
	}
}
