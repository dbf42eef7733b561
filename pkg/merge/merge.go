// Package merge implements split-point discovery and the per-path
// three-way merge of commit snapshots.
package merge

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/tony-hsu/gitlet/pkg/object"
)

// ContentStore reads and writes blob contents by id.
type ContentStore interface {
	Get(id object.Hash) ([]byte, error)
	Put(id object.Hash, data []byte) error
}

// Action is the outcome of merging a single path.
type Action string

const (
	// Unchanged: the path keeps the current branch's version (or stays absent).
	Unchanged Action = "unchanged"
	// TakeGiven: the given branch's version replaces or adds the path.
	TakeGiven Action = "take-given"
	// Remove: the path is deleted by the merge.
	Remove Action = "remove"
	// Conflict: the path receives synthesized conflict content.
	Conflict Action = "conflict"
)

// FileResult records the outcome for one path.
type FileResult struct {
	Path   string
	Action Action
	Blob   object.Hash // resulting blob; empty for Remove and absent paths
}

// Result is the merged snapshot of three commits.
type Result struct {
	// Blobs is the merged path set. Removed paths are not in it.
	Blobs map[string]object.Hash
	// Removed holds paths deleted by the merge.
	Removed map[string]struct{}
	// Checkout holds paths whose working file must be rewritten, with the
	// blob to write.
	Checkout map[string]object.Hash
	// Files lists every path of the union in sorted order.
	Files []FileResult
	// Conflict is set when any path conflicted.
	Conflict bool
}

// Conflicts returns the conflicted paths in sorted order.
func (r *Result) Conflicts() []string {
	var out []string
	for _, f := range r.Files {
		if f.Action == Conflict {
			out = append(out, f.Path)
		}
	}
	return out
}

// Engine merges snapshots. It holds no state between calls beyond its
// collaborators.
type Engine struct {
	Blobs  ContentStore
	Hasher object.Hasher
}

// NewEngine returns an Engine that reads and stores blobs in blobs and ids
// conflict contents with h.
func NewEngine(blobs ContentStore, h object.Hasher) *Engine {
	return &Engine{Blobs: blobs, Hasher: h}
}

// Merge classifies every path appearing in split, current or given.
//
// A path edited on both sides since split conflicts even when both sides
// arrived at the same blob.
func (e *Engine) Merge(split, current, given *object.Commit) (*Result, error) {
	res := &Result{
		Blobs:    make(map[string]object.Hash),
		Removed:  make(map[string]struct{}),
		Checkout: make(map[string]object.Hash),
	}

	for _, path := range unionPaths(split, current, given) {
		s, inSplit := split.Blobs[path]
		c, inCurrent := current.Blobs[path]
		g, inGiven := given.Blobs[path]

		action := Unchanged
		var blob object.Hash

		switch {
		case inSplit && inCurrent && inGiven:
			switch {
			case s == g:
				blob = c
			case s == c:
				action, blob = TakeGiven, g
			default:
				action = Conflict
			}
		case inSplit && inCurrent && !inGiven:
			if s == c {
				action = Remove
			} else {
				action = Conflict
			}
		case inSplit && !inCurrent && inGiven:
			if s != g {
				action = Conflict
			}
		case inSplit && !inCurrent && !inGiven:
			// Deleted on both sides.
		case !inSplit && inCurrent && inGiven:
			if c == g {
				blob = c
			} else {
				action = Conflict
			}
		case !inSplit && inCurrent && !inGiven:
			blob = c
		case !inSplit && !inCurrent && inGiven:
			action, blob = TakeGiven, g
		}

		switch action {
		case Conflict:
			id, err := e.writeConflict(c, g)
			if err != nil {
				return nil, fmt.Errorf("merge %s: %w", path, err)
			}
			blob = id
			res.Conflict = true
			res.Blobs[path] = id
			res.Checkout[path] = id
		case TakeGiven:
			res.Blobs[path] = blob
			res.Checkout[path] = blob
		case Remove:
			res.Removed[path] = struct{}{}
		case Unchanged:
			if blob != "" {
				res.Blobs[path] = blob
			}
		}
		res.Files = append(res.Files, FileResult{Path: path, Action: action, Blob: blob})
	}
	return res, nil
}

// writeConflict stores the conflict rendering of the two sides. A missing
// side contributes empty content.
//
// The id is Digest(current, given). That can equal the id of an ordinary
// blob (a blob id is Digest(content, path)), in which case the store keeps
// the existing bytes; the rendering is then stored under
// Digest(current, given, rendering) instead.
func (e *Engine) writeConflict(current, given object.Hash) (object.Hash, error) {
	cur, err := e.read(current)
	if err != nil {
		return "", err
	}
	giv, err := e.read(given)
	if err != nil {
		return "", err
	}
	content := RenderConflict(cur, giv)

	id := e.Hasher.Digest(cur, giv)
	if err := e.Blobs.Put(id, content); err != nil {
		return "", err
	}
	stored, err := e.read(id)
	if err != nil {
		return "", err
	}
	if bytes.Equal(stored, content) {
		return id, nil
	}

	id = e.Hasher.Digest(cur, giv, content)
	if err := e.Blobs.Put(id, content); err != nil {
		return "", err
	}
	return id, nil
}

func (e *Engine) read(id object.Hash) ([]byte, error) {
	if id == "" {
		return nil, nil
	}
	data, err := e.Blobs.Get(id)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", id, err)
	}
	return data, nil
}

// RenderConflict builds conflict content from the current and given sides.
// Sides are inserted verbatim; no newline is added after them.
func RenderConflict(current, given []byte) []byte {
	out := make([]byte, 0, len(current)+len(given)+32)
	out = append(out, "<<<<<<< HEAD\n"...)
	out = append(out, current...)
	out = append(out, "=======\n"...)
	out = append(out, given...)
	out = append(out, ">>>>>>>\n"...)
	return out
}

func unionPaths(commits ...*object.Commit) []string {
	seen := make(map[string]struct{})
	for _, c := range commits {
		for p := range c.Blobs {
			seen[p] = struct{}{}
		}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
