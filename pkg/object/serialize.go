package object

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MarshalCommit serializes a Commit to a deterministic text format:
//
//	id H
//	parent H        (absent on the root commit)
//	mergeparent H   (merge commits only)
//	timestamp T
//	blob H "path"   (zero or more, sorted by path)
//
//	message
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "id %s\n", c.ID)
	if c.Parent != "" {
		fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	}
	if c.MergeParent != "" {
		fmt.Fprintf(&buf, "mergeparent %s\n", c.MergeParent)
	}
	fmt.Fprintf(&buf, "timestamp %d\n", c.Timestamp)

	paths := make([]string, 0, len(c.Blobs))
	for p := range c.Blobs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(&buf, "blob %s %s\n", c.Blobs[p], strconv.Quote(p))
	}

	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit from its serialized form.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator")
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &Commit{Message: message, Blobs: make(map[string]Hash)}
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q", line)
		}
		switch key {
		case "id":
			c.ID = Hash(val)
		case "parent":
			c.Parent = Hash(val)
		case "mergeparent":
			c.MergeParent = Hash(val)
		case "timestamp":
			ts, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: bad timestamp %q: %w", val, err)
			}
			c.Timestamp = ts
		case "blob":
			h, quoted, ok := strings.Cut(val, " ")
			if !ok {
				return nil, fmt.Errorf("unmarshal commit: malformed blob line %q", line)
			}
			path, err := strconv.Unquote(quoted)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: bad blob path %q: %w", quoted, err)
			}
			c.Blobs[path] = Hash(h)
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q", key)
		}
	}
	if c.ID == "" {
		return nil, fmt.Errorf("unmarshal commit: missing id")
	}
	return c, nil
}
