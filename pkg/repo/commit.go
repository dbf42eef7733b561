package repo

import (
	"fmt"

	"github.com/tony-hsu/gitlet/pkg/logging"
	"github.com/tony-hsu/gitlet/pkg/object"
)

// Commit records the current stage as a new commit on the current branch
// and starts a fresh stage from it.
func (r *Repo) Commit(message string) (*object.Commit, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}
	stage := r.currentBranch().Stage
	if stage.IsClean() {
		return nil, ErrNoChanges
	}
	head, err := r.headCommit()
	if err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	c := object.NewCommit(r.hasher, message, r.now().Unix(), head, stage.Additions, stage.Removals)
	if err := r.recordCommit(c); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	r.advance(c.ID)

	r.log.WithFields(logging.Fields{
		logging.BranchFieldKey: r.current,
		logging.CommitFieldKey: c.ID,
	}).Debug("commit: branch advanced")
	return c, nil
}
