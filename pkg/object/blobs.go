package object

import "fmt"

// BlobStore holds file contents keyed by blob id. Ids are computed by the
// caller (see BlobID), so identical bytes may live under several ids.
type BlobStore struct {
	store *Store
}

// NewBlobStore wraps store as a content store.
func NewBlobStore(store *Store) *BlobStore {
	return &BlobStore{store: store}
}

// Put stores data under id. Putting an existing id is a no-op.
func (b *BlobStore) Put(id Hash, data []byte) error {
	if err := b.store.Write(TypeBlob, id, data); err != nil {
		return fmt.Errorf("put blob %s: %w", id, err)
	}
	return nil
}

// Get returns the content stored under id.
func (b *BlobStore) Get(id Hash) ([]byte, error) {
	objType, data, err := b.store.Read(id)
	if err != nil {
		return nil, err
	}
	if objType != TypeBlob {
		return nil, fmt.Errorf("object %s: type mismatch: got %q, want %q", id, objType, TypeBlob)
	}
	return data, nil
}
