package repo

import (
	"fmt"
	"strings"

	"github.com/tony-hsu/gitlet/pkg/object"
)

// FormatCommit renders c as a log entry:
//
//	===
//	commit <id>
//	Merge: <parent[:7]> <merge parent[:7]>
//	Date: Thu Jan 1 00:00:00 1970 +0000
//	<message>
//
// The Merge line appears on merge commits only. Dates use the local zone.
func FormatCommit(c *object.Commit) string {
	var b strings.Builder
	b.WriteString("===\n")
	fmt.Fprintf(&b, "commit %s\n", c.ID)
	if c.IsMerge() {
		fmt.Fprintf(&b, "Merge: %s %s\n", c.Parent.Short(7), c.MergeParent.Short(7))
	}
	fmt.Fprintf(&b, "Date: %s\n", c.Time().Format(object.DateLayout))
	b.WriteString(c.Message)
	b.WriteString("\n")
	return b.String()
}

// Log returns the current head and its first-parent ancestors, newest first.
func (r *Repo) Log() ([]*object.Commit, error) {
	var out []*object.Commit
	for id := r.Head(); id != ""; {
		c, err := r.commits.Get(id)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		out = append(out, c)
		id = c.Parent
	}
	return out, nil
}

// GlobalLog returns the rendering of every commit ever made, oldest first.
func (r *Repo) GlobalLog() (string, error) {
	return r.globalLog.Read()
}

// Find returns the ids of commits whose message is exactly message, in
// creation order.
func (r *Repo) Find(message string) ([]object.Hash, error) {
	ids := r.messages[message]
	if len(ids) == 0 {
		return nil, ErrNoCommitWithMessage
	}
	out := make([]object.Hash, len(ids))
	copy(out, ids)
	return out, nil
}
