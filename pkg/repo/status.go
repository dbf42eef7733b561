package repo

import (
	"fmt"
	"sort"

	"github.com/tony-hsu/gitlet/pkg/object"
)

// ModificationKind describes an unstaged change to a tracked or staged file.
type ModificationKind string

const (
	Modified ModificationKind = "modified"
	Deleted  ModificationKind = "deleted"
)

// Modification is a working-tree change that is not staged.
type Modification struct {
	Path string
	Kind ModificationKind
}

// Status summarizes the branch table, the current stage and the working
// tree. Every list is sorted.
type Status struct {
	Branches      []string
	CurrentBranch string
	Staged        []string
	Removed       []string
	Modifications []Modification
	Untracked     []string
}

// Status computes the repository status.
//
// A file counts as modified but not staged when:
//  1. head tracks it, its working content changed and it is not staged; or
//  2. it is staged for addition with content different from the working file; or
//  3. it is staged for addition but missing from the working tree; or
//  4. head tracks it, it is not staged for removal and it is missing.
//
// A file is untracked when it is neither staged for addition nor tracked,
// or when it is staged for removal but present again.
func (r *Repo) Status() (*Status, error) {
	head, err := r.headCommit()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	stage := r.currentBranch().Stage
	files, err := r.work.ListPlainFiles()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	onDisk := make(map[string]object.Hash, len(files))
	for _, f := range files {
		data, err := r.work.Read(f)
		if err != nil {
			return nil, fmt.Errorf("status: %w", err)
		}
		onDisk[f] = object.BlobID(r.hasher, data, f)
	}

	st := &Status{
		Branches:      r.Branches(),
		CurrentBranch: r.current,
		Staged:        stage.AddedPaths(),
		Removed:       stage.RemovedPaths(),
	}

	mods := make(map[string]ModificationKind)
	for p, id := range stage.Additions {
		work, ok := onDisk[p]
		switch {
		case !ok:
			mods[p] = Deleted
		case work != id:
			mods[p] = Modified
		}
	}
	for p, id := range head.Blobs {
		if stage.IsAdded(p) || stage.IsRemoved(p) {
			continue
		}
		work, ok := onDisk[p]
		switch {
		case !ok:
			mods[p] = Deleted
		case work != id:
			mods[p] = Modified
		}
	}
	for p, kind := range mods {
		st.Modifications = append(st.Modifications, Modification{Path: p, Kind: kind})
	}
	sort.Slice(st.Modifications, func(i, j int) bool {
		return st.Modifications[i].Path < st.Modifications[j].Path
	})

	for _, f := range files {
		if stage.IsRemoved(f) || (!stage.IsAdded(f) && !head.Tracks(f)) {
			st.Untracked = append(st.Untracked, f)
		}
	}
	return st, nil
}
