package repo

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/tony-hsu/gitlet/pkg/logging"
	"github.com/tony-hsu/gitlet/pkg/object"
)

// CheckoutBranch makes name the current branch and replaces the working
// tree with its head snapshot. Both the old and the new branch restart
// from an empty stage.
func (r *Repo) CheckoutBranch(name string) error {
	target, ok := r.branches[name]
	if !ok {
		return ErrNoSuchBranch
	}
	if name == r.current {
		return ErrAlreadyOnBranch
	}
	head, err := r.headCommit()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	commit, err := r.commits.Get(target.Head)
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	if err := r.materialize(head, commit); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	old := r.currentBranch()
	old.Stage = NewStage(old.Head)
	r.current = name
	target.Stage = NewStage(target.Head)

	r.log.WithFields(logging.Fields{
		logging.BranchFieldKey: name,
		logging.CommitFieldKey: target.Head,
	}).Debug("checkout: switched branch")
	return nil
}

// CheckoutFile overwrites the working file at path with the version in the
// current head.
func (r *Repo) CheckoutFile(path string) error {
	head, err := r.headCommit()
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return r.checkoutFileFrom(head, path)
}

// CheckoutFileAt overwrites the working file at path with the version in
// the commit identified by prefix. Untracked files are overwritten too.
func (r *Repo) CheckoutFileAt(prefix, path string) error {
	c, err := r.ResolveCommit(prefix)
	if err != nil {
		return err
	}
	return r.checkoutFileFrom(c, path)
}

func (r *Repo) checkoutFileFrom(c *object.Commit, path string) error {
	p, err := cleanPath(path)
	if err != nil || !c.Tracks(p) {
		return ErrFileNotInCommit
	}
	data, err := r.blobs.Get(c.BlobID(p))
	if err != nil {
		return fmt.Errorf("checkout %s: %w", p, err)
	}
	if err := r.work.Write(p, data); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	r.log.WithFields(logging.Fields{
		logging.PathFieldKey:   p,
		logging.CommitFieldKey: c.ID,
	}).Debug("checkout: file restored")
	return nil
}

// untrackedFiles lists working files that head does not track and that are
// not staged for addition.
func (r *Repo) untrackedFiles(head *object.Commit) ([]string, error) {
	files, err := r.work.ListPlainFiles()
	if err != nil {
		return nil, err
	}
	stage := r.currentBranch().Stage
	var out []string
	for _, f := range files {
		if head.Tracks(f) || stage.IsAdded(f) {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// checkUntracked fails with ErrUntrackedInTheWay when an untracked working
// file is among the paths an operation is about to touch.
func (r *Repo) checkUntracked(head *object.Commit, touches func(path string) bool) error {
	untracked, err := r.untrackedFiles(head)
	if err != nil {
		return err
	}
	for _, f := range untracked {
		if touches(f) {
			r.log.WithField(logging.PathFieldKey, f).Debug("untracked file in the way")
			return ErrUntrackedInTheWay
		}
	}
	return nil
}

// materialize replaces the snapshot of head in the working tree with the
// snapshot of target. Files head tracks that target does not are deleted;
// other files are left alone.
func (r *Repo) materialize(head, target *object.Commit) error {
	if err := r.checkUntracked(head, target.Tracks); err != nil {
		return err
	}
	var deletes []string
	for _, p := range head.Paths() {
		if !target.Tracks(p) {
			deletes = append(deletes, p)
		}
	}
	return r.applyToWorkTree(target.Blobs, deletes)
}

// applyToWorkTree writes every blob in writes to its path, then deletes
// deletes. All blobs are read before the first file is touched.
func (r *Repo) applyToWorkTree(writes map[string]object.Hash, deletes []string) error {
	paths := make([]string, 0, len(writes))
	for p := range writes {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	contents := make([][]byte, len(paths))
	for i, p := range paths {
		data, err := r.blobs.Get(writes[p])
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		contents[i] = data
	}

	for i, p := range paths {
		if err := r.work.Write(p, contents[i]); err != nil {
			return err
		}
	}

	var errs *multierror.Error
	for _, p := range deletes {
		if _, err := r.work.DeleteIfPlainFile(p); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}
