package object

import (
	"fmt"

	lru "github.com/hnlq715/golang-lru"
)

// DefaultCommitCacheSize bounds the number of decoded commits kept in memory.
const DefaultCommitCacheSize = 256

// CommitStore holds commits keyed by their own id. Decoded commits are
// cached; callers must treat returned commits as read-only.
type CommitStore struct {
	store *Store
	cache *lru.Cache
}

// NewCommitStore wraps store as a commit store with an LRU of cacheSize
// decoded commits. A non-positive size selects DefaultCommitCacheSize.
func NewCommitStore(store *Store, cacheSize int) (*CommitStore, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCommitCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("commit cache: %w", err)
	}
	return &CommitStore{store: store, cache: cache}, nil
}

// Put writes c under c.ID. Commits are write-once.
func (cs *CommitStore) Put(c *Commit) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("put commit: missing id")
	}
	if err := cs.store.Write(TypeCommit, c.ID, MarshalCommit(c)); err != nil {
		return fmt.Errorf("put commit %s: %w", c.ID, err)
	}
	_ = cs.cache.Add(c.ID, c)
	return nil
}

// Get reads the commit with the exact id.
func (cs *CommitStore) Get(id Hash) (*Commit, error) {
	if cached, ok := cs.cache.Get(id); ok {
		return cached.(*Commit), nil
	}
	objType, data, err := cs.store.Read(id)
	if err != nil {
		return nil, err
	}
	if objType != TypeCommit {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", id, objType, TypeCommit)
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", id, err)
	}
	if c.ID != id {
		return nil, fmt.Errorf("read commit %s: stored id %s does not match", id, c.ID)
	}
	_ = cs.cache.Add(id, c)
	return c, nil
}

// Resolve expands an exact id or an unambiguous prefix of at least minLen
// characters to a stored commit id. Input that is not lowercase hex is
// never found.
func (cs *CommitStore) Resolve(prefix string, minLen int) (Hash, error) {
	if !IsHex(prefix) {
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrNotFound)
	}
	if cs.store.Has(Hash(prefix)) {
		return Hash(prefix), nil
	}
	if len(prefix) < minLen {
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrNotFound)
	}
	matches, err := cs.store.List(prefix)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", prefix, err)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("resolve %q: %w", prefix, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("resolve %q: %d candidates: %w", prefix, len(matches), ErrAmbiguous)
	}
}
