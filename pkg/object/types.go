package object

import (
	"sort"
	"time"
)

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeCommit ObjectType = "commit"
)

// DateLayout renders commit timestamps in log output and in commit ids.
const DateLayout = "Mon Jan 2 15:04:05 2006 -0700"

// Commit is an immutable snapshot of every tracked path. Parent edges are
// ids, never pointers; commits are looked up through a CommitStore.
type Commit struct {
	ID          Hash
	Message     string
	Timestamp   int64 // Unix seconds
	Parent      Hash  // empty for the root commit
	MergeParent Hash  // set only on merge commits
	Blobs       map[string]Hash
}

// IsMerge reports whether c has a second parent.
func (c *Commit) IsMerge() bool {
	return c.MergeParent != ""
}

// Tracks reports whether c tracks path.
func (c *Commit) Tracks(path string) bool {
	_, ok := c.Blobs[path]
	return ok
}

// BlobID returns the blob tracked at path, or "" when path is untracked.
func (c *Commit) BlobID(path string) Hash {
	return c.Blobs[path]
}

// Paths returns the tracked paths in sorted order.
func (c *Commit) Paths() []string {
	paths := make([]string, 0, len(c.Blobs))
	for p := range c.Blobs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Time returns the commit timestamp in the local zone.
func (c *Commit) Time() time.Time {
	return time.Unix(c.Timestamp, 0)
}
