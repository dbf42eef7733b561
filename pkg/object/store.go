package object

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

var (
	// ErrNotFound is returned when no object matches a requested id.
	ErrNotFound = errors.New("object not found")
	// ErrAmbiguous is returned when an abbreviated id matches several objects.
	ErrAmbiguous = errors.New("ambiguous object id")
)

// zstdMagic opens every zstd frame.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Store is a write-once object store with a 2-character fan-out directory
// layout: <root>/ab/cdef0123... Ids are supplied by the caller.
type Store struct {
	fs       afero.Fs
	root     string
	compress bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCompression zstd-compresses objects on write. Reads accept both forms
// regardless of this setting.
func WithCompression(enabled bool) StoreOption {
	return func(s *Store) {
		s.compress = enabled
	}
}

// NewStore creates a Store rooted at root on fs. Directories are created
// lazily on first write.
func NewStore(fs afero.Fs, root string, opts ...StoreOption) *Store {
	s := &Store{fs: fs, root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return path.Join(s.root, string(h[:2]), string(h[2:]))
}

// validID reports whether h can name a stored object. Anything else never
// reaches the filesystem.
func validID(h Hash) bool {
	return len(h) >= 3 && IsHex(string(h))
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	if !validID(h) {
		return false
	}
	_, err := s.fs.Stat(s.objectPath(h))
	return err == nil
}

// Write stores data under h with the envelope "type len\0content". Writing
// an id that already exists is a no-op. Writes are atomic: data is written
// to a temp file and then renamed into place.
func (s *Store) Write(objType ObjectType, h Hash, data []byte) error {
	if !validID(h) {
		return fmt.Errorf("object write: invalid id %q", h)
	}
	if s.Has(h) {
		return nil
	}

	envelope := fmt.Sprintf("%s %d\x00", objType, len(data))
	raw := append([]byte(envelope), data...)
	if s.compress {
		var err error
		raw, err = compressZstd(raw)
		if err != nil {
			return fmt.Errorf("object write compress: %w", err)
		}
	}

	dir := path.Join(s.root, string(h[:2]))
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		s.fs.Remove(tmpName)
		return fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("object write close: %w", err)
	}

	if err := s.fs.Rename(tmpName, s.objectPath(h)); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("object write rename: %w", err)
	}
	return nil
}

// Read retrieves an object by hash, returning its type and raw content.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	if !validID(h) {
		return "", nil, fmt.Errorf("object read %q: %w", h, ErrNotFound)
	}
	raw, err := afero.ReadFile(s.fs, s.objectPath(h))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	if bytes.HasPrefix(raw, zstdMagic) {
		raw, err = decompressZstd(raw)
		if err != nil {
			return "", nil, fmt.Errorf("object read %s: decompress: %w", h, err)
		}
	}

	// Parse envelope: "type len\0content"
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return "", nil, fmt.Errorf("object read %s: invalid format (no NUL)", h)
	}
	header := string(raw[:nulIdx])
	content := raw[nulIdx+1:]

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("object read %s: invalid header %q", h, header)
	}
	objType := ObjectType(parts[0])
	length, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: invalid length %q: %w", h, parts[1], err)
	}
	if len(content) != length {
		return "", nil, fmt.Errorf("object read %s: length mismatch (header=%d, actual=%d)", h, length, len(content))
	}

	return objType, content, nil
}

// List returns the sorted ids of all stored objects whose id starts with
// prefix. An empty prefix lists everything; a non-hex prefix matches nothing.
func (s *Store) List(prefix string) ([]Hash, error) {
	if prefix != "" && !IsHex(prefix) {
		return nil, nil
	}
	var fanouts []string
	if len(prefix) >= 2 {
		fanouts = []string{prefix[:2]}
	} else {
		entries, err := afero.ReadDir(s.fs, s.root)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil
			}
			return nil, fmt.Errorf("object list: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() && len(e.Name()) == 2 && strings.HasPrefix(e.Name(), prefix) {
				fanouts = append(fanouts, e.Name())
			}
		}
	}

	var out []Hash
	for _, fan := range fanouts {
		entries, err := afero.ReadDir(s.fs, path.Join(s.root, fan))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("object list: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || strings.HasPrefix(e.Name(), ".tmp-") {
				continue
			}
			id := fan + e.Name()
			if strings.HasPrefix(id, prefix) {
				out = append(out, Hash(id))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// compressZstd compresses data using zstd.
func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// decompressZstd decompresses zstd-compressed data.
func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
