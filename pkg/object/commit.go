package object

import (
	"bytes"
	"fmt"
	"sort"
	"time"
)

// RootMessage is the message of the commit every repository starts from.
const RootMessage = "initial commit"

// CommitID computes a commit's id from its message, timestamp, primary
// parent and blob map. The merge parent is not part of the id.
func CommitID(h Hasher, message string, timestamp int64, parent Hash, blobs map[string]Hash) Hash {
	ts := time.Unix(timestamp, 0).UTC().Format(DateLayout)
	return h.Digest([]byte(message), []byte(ts), []byte(parent), marshalBlobMap(blobs))
}

// NewRootCommit builds the parentless commit with an empty snapshot that a
// repository is initialized with.
func NewRootCommit(h Hasher, message string, timestamp int64) *Commit {
	c := &Commit{
		Message:   message,
		Timestamp: timestamp,
		Blobs:     map[string]Hash{},
	}
	c.ID = CommitID(h, c.Message, c.Timestamp, "", c.Blobs)
	return c
}

// NewCommit builds an ordinary commit on top of parent:
// blobs = parent.Blobs minus removals, plus additions.
func NewCommit(h Hasher, message string, timestamp int64, parent *Commit, additions map[string]Hash, removals map[string]struct{}) *Commit {
	blobs := make(map[string]Hash, len(parent.Blobs)+len(additions))
	for p, id := range parent.Blobs {
		if _, removed := removals[p]; removed {
			continue
		}
		blobs[p] = id
	}
	for p, id := range additions {
		blobs[p] = id
	}

	c := &Commit{
		Message:   message,
		Timestamp: timestamp,
		Parent:    parent.ID,
		Blobs:     blobs,
	}
	c.ID = CommitID(h, c.Message, c.Timestamp, c.Parent, c.Blobs)
	return c
}

// MergeMessage is the message recorded on a merge commit.
func MergeMessage(given, current string) string {
	return fmt.Sprintf("Merged %s into %s.", given, current)
}

// NewMergeCommit builds a two-parent commit whose snapshot is exactly the
// merged path set (removed paths are dropped from it).
func NewMergeCommit(h Hasher, timestamp int64, parent, mergeParent Hash, merged map[string]Hash, removals map[string]struct{}, current, given string) *Commit {
	blobs := make(map[string]Hash, len(merged))
	for p, id := range merged {
		if _, removed := removals[p]; removed {
			continue
		}
		blobs[p] = id
	}

	c := &Commit{
		Message:     MergeMessage(given, current),
		Timestamp:   timestamp,
		Parent:      parent,
		MergeParent: mergeParent,
		Blobs:       blobs,
	}
	c.ID = CommitID(h, c.Message, c.Timestamp, c.Parent, c.Blobs)
	return c
}

// marshalBlobMap renders blobs as sorted "path hash" lines.
func marshalBlobMap(blobs map[string]Hash) []byte {
	paths := make([]string, 0, len(blobs))
	for p := range blobs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var buf bytes.Buffer
	for _, p := range paths {
		fmt.Fprintf(&buf, "%s %s\n", p, blobs[p])
	}
	return buf.Bytes()
}
