package repo

import (
	"encoding/json"
	"fmt"
	"path"
	"sort"

	"github.com/spf13/afero"

	"github.com/tony-hsu/gitlet/pkg/object"
)

type stateFile struct {
	CurrentBranch string                   `json:"current_branch"`
	Branches      map[string]branchState   `json:"branches"`
	Messages      map[string][]object.Hash `json:"messages"`
}

type branchState struct {
	Head  object.Hash `json:"head"`
	Stage stageState  `json:"stage"`
}

type stageState struct {
	Base      object.Hash            `json:"base"`
	Additions map[string]object.Hash `json:"additions"`
	Removals  []string               `json:"removals"`
}

func statePath() string {
	return path.Join(MetaDirName, "state.json")
}

// Save atomically writes the branch table, current branch and message
// index to .gitlet/state.json.
func (r *Repo) Save() error {
	st := stateFile{
		CurrentBranch: r.current,
		Branches:      make(map[string]branchState, len(r.branches)),
		Messages:      r.messages,
	}
	for name, b := range r.branches {
		st.Branches[name] = branchState{
			Head: b.Head,
			Stage: stageState{
				Base:      b.Stage.Base,
				Additions: b.Stage.Additions,
				Removals:  b.Stage.RemovedPaths(),
			},
		}
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("save state: marshal: %w", err)
	}
	if err := writeFileAtomic(r.fs, statePath(), data); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (r *Repo) load() error {
	data, err := afero.ReadFile(r.fs, statePath())
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	var st stateFile
	if err := json.Unmarshal(data, &st); err != nil {
		return fmt.Errorf("load state: unmarshal: %w", err)
	}

	r.branches = make(map[string]*Branch, len(st.Branches))
	for name, b := range st.Branches {
		stage := NewStage(b.Stage.Base)
		for p, id := range b.Stage.Additions {
			stage.Additions[p] = id
		}
		for _, p := range b.Stage.Removals {
			stage.Removals[p] = struct{}{}
		}
		r.branches[name] = &Branch{Name: name, Head: b.Head, Stage: stage}
	}
	if _, ok := r.branches[st.CurrentBranch]; !ok {
		names := make([]string, 0, len(r.branches))
		for name := range r.branches {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("load state: current branch %q not in %v", st.CurrentBranch, names)
	}
	r.current = st.CurrentBranch

	r.messages = st.Messages
	if r.messages == nil {
		r.messages = make(map[string][]object.Hash)
	}
	return nil
}
