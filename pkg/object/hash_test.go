package object

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHasher(t *testing.T) {
	cases := []struct {
		name      string
		algorithm string
		hexLen    int
	}{
		{name: "default", algorithm: "", hexLen: 64},
		{name: "sha256", algorithm: HashSHA256, hexLen: 64},
		{name: "sha1", algorithm: HashSHA1, hexLen: 40},
		{name: "blake2b", algorithm: "BLAKE2b", hexLen: 64},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, err := NewHasher(tc.algorithm)
			require.NoError(t, err)
			assert.Equal(t, tc.hexLen, h.HexLen())

			d := h.Digest([]byte("hello"))
			assert.Len(t, string(d), tc.hexLen)
			assert.True(t, IsHex(string(d)))
			assert.Equal(t, d, h.Digest([]byte("hello")), "digest must be deterministic")
		})
	}
}

func TestNewHasherUnknown(t *testing.T) {
	_, err := NewHasher("md5")
	require.Error(t, err)
}

func TestDigestPartBoundaries(t *testing.T) {
	h, err := NewHasher(HashSHA256)
	require.NoError(t, err)

	assert.NotEqual(t, h.Digest([]byte("ab"), []byte("c")), h.Digest([]byte("a"), []byte("bc")))
	assert.NotEqual(t, h.Digest([]byte("abc")), h.Digest([]byte("abc"), nil))
}

func TestBlobIDIncludesPath(t *testing.T) {
	h, err := NewHasher(HashSHA256)
	require.NoError(t, err)

	content := []byte("same bytes\n")
	assert.NotEqual(t, BlobID(h, content, "a.txt"), BlobID(h, content, "b.txt"))
	assert.Equal(t, BlobID(h, content, "a.txt"), BlobID(h, content, "a.txt"))
}

func TestHashShort(t *testing.T) {
	assert.Equal(t, "abcdef1", Hash("abcdef1234").Short(7))
	assert.Equal(t, "abc", Hash("abc").Short(7))
}
