package repo

import (
	"fmt"
	"sort"

	"github.com/tony-hsu/gitlet/pkg/logging"
	"github.com/tony-hsu/gitlet/pkg/object"
)

// Stage is a branch's pending change set layered on top of Base. A path is
// never both an addition and a removal.
type Stage struct {
	Base      object.Hash
	Additions map[string]object.Hash
	Removals  map[string]struct{}
}

// NewStage returns an empty stage derived from base.
func NewStage(base object.Hash) *Stage {
	return &Stage{
		Base:      base,
		Additions: make(map[string]object.Hash),
		Removals:  make(map[string]struct{}),
	}
}

// IsClean reports whether nothing is staged.
func (s *Stage) IsClean() bool {
	return len(s.Additions) == 0 && len(s.Removals) == 0
}

func (s *Stage) stageAddition(path string, id object.Hash) {
	s.Additions[path] = id
	delete(s.Removals, path)
}

func (s *Stage) stageRemoval(path string) {
	delete(s.Additions, path)
	s.Removals[path] = struct{}{}
}

// unstage drops path from both sets.
func (s *Stage) unstage(path string) {
	delete(s.Additions, path)
	delete(s.Removals, path)
}

// IsAdded reports whether path is staged for addition.
func (s *Stage) IsAdded(path string) bool {
	_, ok := s.Additions[path]
	return ok
}

// IsRemoved reports whether path is staged for removal.
func (s *Stage) IsRemoved(path string) bool {
	_, ok := s.Removals[path]
	return ok
}

// AddedPaths returns the staged additions in sorted order.
func (s *Stage) AddedPaths() []string {
	out := make([]string, 0, len(s.Additions))
	for p := range s.Additions {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// RemovedPaths returns the staged removals in sorted order.
func (s *Stage) RemovedPaths() []string {
	out := make([]string, 0, len(s.Removals))
	for p := range s.Removals {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Add stages the working file at path against the current head.
//
// Staging content identical to what the head commit tracks un-stages the
// path instead.
func (r *Repo) Add(path string) error {
	p, err := cleanPath(path)
	if err != nil || !r.work.Exists(p) {
		return ErrFileNotFound
	}
	head, err := r.headCommit()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	data, err := r.work.Read(p)
	if err != nil {
		return fmt.Errorf("add: read %s: %w", p, err)
	}

	id := object.BlobID(r.hasher, data, p)
	stage := r.currentBranch().Stage
	if head.BlobID(p) == id {
		stage.unstage(p)
		r.log.WithField(logging.PathFieldKey, p).Debug("add: content matches head, unstaged")
		return nil
	}
	if err := r.blobs.Put(id, data); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	stage.stageAddition(p, id)
	r.log.WithFields(logging.Fields{logging.PathFieldKey: p, "blob": id}).Debug("add: staged")
	return nil
}

// Remove un-stages path and, when the head tracks it, stages its removal and
// deletes the working file.
func (r *Repo) Remove(path string) error {
	p, err := cleanPath(path)
	if err != nil {
		return ErrNothingToRemove
	}
	head, err := r.headCommit()
	if err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	stage := r.currentBranch().Stage
	tracked := head.Tracks(p)
	if !tracked && !stage.IsAdded(p) {
		return ErrNothingToRemove
	}

	if !tracked {
		delete(stage.Additions, p)
		r.log.WithField(logging.PathFieldKey, p).Debug("rm: unstaged addition")
		return nil
	}
	if _, err := r.work.DeleteIfPlainFile(p); err != nil {
		return fmt.Errorf("rm: %w", err)
	}
	stage.stageRemoval(p)
	r.log.WithField(logging.PathFieldKey, p).Debug("rm: staged removal")
	return nil
}
