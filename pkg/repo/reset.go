package repo

import (
	"fmt"

	"github.com/tony-hsu/gitlet/pkg/logging"
)

// Reset checks out the commit identified by prefix, moves the current
// branch to it and clears the stage.
func (r *Repo) Reset(prefix string) error {
	target, err := r.ResolveCommit(prefix)
	if err != nil {
		return err
	}
	head, err := r.headCommit()
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if err := r.materialize(head, target); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	r.advance(target.ID)

	r.log.WithFields(logging.Fields{
		logging.BranchFieldKey: r.current,
		logging.CommitFieldKey: target.ID,
	}).Debug("reset: branch moved")
	return nil
}
