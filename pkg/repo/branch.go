package repo

import (
	"fmt"
	"strings"

	"github.com/tony-hsu/gitlet/pkg/logging"
)

// NewBranch creates a branch pointing at the current head. It does not
// switch to it.
func (r *Repo) NewBranch(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("branch: name is required")
	}
	if _, ok := r.branches[name]; ok {
		return ErrBranchExists
	}
	head := r.Head()
	r.branches[name] = &Branch{Name: name, Head: head, Stage: NewStage(head)}
	r.log.WithFields(logging.Fields{
		logging.BranchFieldKey: name,
		logging.CommitFieldKey: head,
	}).Debug("branch: created")
	return nil
}

// RemoveBranch deletes the branch pointer. Its commits are kept.
func (r *Repo) RemoveBranch(name string) error {
	if _, ok := r.branches[name]; !ok {
		return ErrBranchNotFound
	}
	if name == r.current {
		return ErrCannotRemoveCurrent
	}
	delete(r.branches, name)
	r.log.WithField(logging.BranchFieldKey, name).Debug("branch: removed")
	return nil
}
