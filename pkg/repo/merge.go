package repo

import (
	"fmt"

	"github.com/tony-hsu/gitlet/pkg/logging"
	"github.com/tony-hsu/gitlet/pkg/merge"
	"github.com/tony-hsu/gitlet/pkg/object"
)

// MergeOutcome says what Merge did.
type MergeOutcome int

const (
	// MergeAncestor: the given branch is already contained in the current
	// branch; nothing changed.
	MergeAncestor MergeOutcome = iota
	// MergeFastForward: the current branch moved to the given head without
	// a merge commit.
	MergeFastForward
	// MergeCommitted: a two-parent merge commit was created.
	MergeCommitted
)

func (o MergeOutcome) String() string {
	switch o {
	case MergeAncestor:
		return "ancestor"
	case MergeFastForward:
		return "fast-forward"
	case MergeCommitted:
		return "merged"
	default:
		return fmt.Sprintf("MergeOutcome(%d)", int(o))
	}
}

// Message is the operator-facing summary of the outcome, or "" when there
// is nothing to report.
func (o MergeOutcome) Message() string {
	switch o {
	case MergeAncestor:
		return "Given branch is an ancestor of the current branch."
	case MergeFastForward:
		return "Current branch fast-forwarded."
	default:
		return ""
	}
}

// ConflictMessage is reported after a merge commit with conflicts.
const ConflictMessage = "Encountered a merge conflict."

// MergeReport is the overall result of Merge.
type MergeReport struct {
	Outcome    MergeOutcome
	SplitPoint object.Hash
	// Commit is the merge commit, or the fast-forward target.
	Commit   *object.Commit
	Files    []merge.FileResult
	Conflict bool
}

// Merge merges branch name into the current branch. Conflicting paths get
// marker content and the merge is still committed.
func (r *Repo) Merge(name string) (*MergeReport, error) {
	if !r.currentBranch().Stage.IsClean() {
		return nil, ErrUncommittedChanges
	}
	given, ok := r.branches[name]
	if !ok {
		return nil, ErrBranchNotFound
	}
	if name == r.current {
		return nil, ErrSelfMerge
	}

	head, err := r.headCommit()
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	givenHead, err := r.commits.Get(given.Head)
	if err != nil {
		return nil, fmt.Errorf("merge: read branch %q: %w", name, err)
	}
	splitID, err := merge.FindSplitPoint(r.commits, head.ID, givenHead.ID)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	log := r.log.WithFields(logging.Fields{
		logging.OperationFieldKey: "merge",
		logging.BranchFieldKey:    name,
		"split":                   splitID,
	})

	switch splitID {
	case givenHead.ID:
		log.WithField("outcome", MergeAncestor.String()).Debug("merge: nothing to do")
		return &MergeReport{Outcome: MergeAncestor, SplitPoint: splitID}, nil
	case head.ID:
		if err := r.materialize(head, givenHead); err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
		r.advance(givenHead.ID)
		log.WithFields(logging.Fields{
			logging.CommitFieldKey: givenHead.ID,
			"outcome":              MergeFastForward.String(),
		}).Debug("merge: branch moved")
		return &MergeReport{Outcome: MergeFastForward, SplitPoint: splitID, Commit: givenHead}, nil
	}

	split, err := r.commits.Get(splitID)
	if err != nil {
		return nil, fmt.Errorf("merge: read split point: %w", err)
	}
	res, err := r.engine.Merge(split, head, givenHead)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	touches := func(p string) bool {
		if _, ok := res.Checkout[p]; ok {
			return true
		}
		_, ok := res.Removed[p]
		return ok
	}
	if err := r.checkUntracked(head, touches); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	removed := make([]string, 0, len(res.Removed))
	for p := range res.Removed {
		removed = append(removed, p)
	}
	if err := r.applyToWorkTree(res.Checkout, removed); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}

	c := object.NewMergeCommit(r.hasher, r.now().Unix(), head.ID, givenHead.ID, res.Blobs, res.Removed, r.current, name)
	if err := r.recordCommit(c); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	r.advance(c.ID)

	log = log.WithFields(logging.Fields{
		logging.CommitFieldKey: c.ID,
		"outcome":              MergeCommitted.String(),
	})
	if res.Conflict {
		log.WithField("conflicts", res.Conflicts()).Info("merge: committed with conflicts")
	} else {
		log.Debug("merge: committed")
	}
	return &MergeReport{
		Outcome:    MergeCommitted,
		SplitPoint: splitID,
		Commit:     c,
		Files:      res.Files,
		Conflict:   res.Conflict,
	}, nil
}
