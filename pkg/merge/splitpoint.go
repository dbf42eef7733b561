package merge

import (
	"errors"
	"fmt"

	"github.com/tony-hsu/gitlet/pkg/object"
)

// ErrNoSplitPoint is returned when two commits share no first-parent
// ancestor. Every repository history starts at a single root commit, so
// this only happens with a corrupt object store.
var ErrNoSplitPoint = errors.New("no common ancestor")

// CommitReader resolves commit ids to commits.
type CommitReader interface {
	Get(id object.Hash) (*object.Commit, error)
}

// FirstParentChain returns start followed by each primary parent up to the
// root commit. Merge parents are never followed.
func FirstParentChain(commits CommitReader, start object.Hash) ([]object.Hash, error) {
	var chain []object.Hash
	seen := make(map[object.Hash]struct{})
	for id := start; id != ""; {
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("first-parent chain of %s: cycle at %s", start, id)
		}
		seen[id] = struct{}{}
		chain = append(chain, id)

		c, err := commits.Get(id)
		if err != nil {
			return nil, fmt.Errorf("first-parent chain of %s: %w", start, err)
		}
		id = c.Parent
	}
	return chain, nil
}

// FindSplitPoint returns the most recent commit on given's first-parent
// chain that is also on current's first-parent chain.
//
// This is not a full lowest-common-ancestor search: when earlier merges
// are involved, the nearest true common ancestor may be reachable only
// through a merge parent and will be missed.
func FindSplitPoint(commits CommitReader, current, given object.Hash) (object.Hash, error) {
	chain, err := FirstParentChain(commits, current)
	if err != nil {
		return "", fmt.Errorf("split point: %w", err)
	}
	onCurrent := make(map[object.Hash]struct{}, len(chain))
	for _, id := range chain {
		onCurrent[id] = struct{}{}
	}

	seen := make(map[object.Hash]struct{})
	for id := given; id != ""; {
		if _, ok := onCurrent[id]; ok {
			return id, nil
		}
		if _, dup := seen[id]; dup {
			return "", fmt.Errorf("split point: cycle at %s", id)
		}
		seen[id] = struct{}{}

		c, err := commits.Get(id)
		if err != nil {
			return "", fmt.Errorf("split point: %w", err)
		}
		id = c.Parent
	}
	return "", ErrNoSplitPoint
}
