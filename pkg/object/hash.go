package object

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Hash is a lowercase hex-encoded digest identifying a blob or a commit.
type Hash string

// Short returns the first n characters of h, or all of h when it is shorter.
func (h Hash) Short(n int) string {
	if len(h) <= n {
		return string(h)
	}
	return string(h[:n])
}

// Supported digest algorithms.
const (
	HashSHA256  = "sha256"
	HashSHA1    = "sha1"
	HashBLAKE2b = "blake2b"
)

// Hasher digests an ordered sequence of byte strings into a fixed-length id.
// It is the single content-addressing primitive used for blob and commit ids.
type Hasher interface {
	Digest(parts ...[]byte) Hash
	Algorithm() string
	// HexLen is the length of every Hash produced by Digest.
	HexLen() int
}

type digestHasher struct {
	algorithm string
	size      int
	newHash   func() hash.Hash
}

// NewHasher returns the Hasher for the named algorithm. An empty name selects
// sha256.
func NewHasher(algorithm string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(algorithm)) {
	case "", HashSHA256:
		return &digestHasher{algorithm: HashSHA256, size: sha256.Size, newHash: sha256.New}, nil
	case HashSHA1:
		return &digestHasher{algorithm: HashSHA1, size: sha1.Size, newHash: sha1.New}, nil
	case HashBLAKE2b:
		return &digestHasher{algorithm: HashBLAKE2b, size: blake2b.Size256, newHash: newBLAKE2b256}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", algorithm)
	}
}

func newBLAKE2b256() hash.Hash {
	// New256 only fails for keys longer than 64 bytes.
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	return h
}

// Digest hashes each part prefixed by its 8-byte big-endian length, so
// ("ab", "c") and ("a", "bc") never collide.
func (d *digestHasher) Digest(parts ...[]byte) Hash {
	h := d.newHash()
	var lenBuf [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(p)))
		h.Write(lenBuf[:])
		h.Write(p)
	}
	return Hash(hex.EncodeToString(h.Sum(nil)))
}

func (d *digestHasher) Algorithm() string { return d.algorithm }

func (d *digestHasher) HexLen() int { return d.size * 2 }

// BlobID computes the id of a file's content as tracked at path. Identical
// bytes under different paths get different ids.
func BlobID(h Hasher, content []byte, path string) Hash {
	return h.Digest(content, []byte(path))
}

// IsHex reports whether s is non-empty and consists only of lowercase hex
// digits.
func IsHex(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
