package repo

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/tony-hsu/gitlet/pkg/object"
)

const (
	DefaultBranch    = "master"
	DefaultMinAbbrev = 4
)

// Config stores repository-local settings in .gitlet/config.toml.
type Config struct {
	Core  CoreConfig  `toml:"core"`
	Cache CacheConfig `toml:"cache"`
}

type CoreConfig struct {
	// Hash names the digest algorithm. It is fixed when the repository is
	// initialized.
	Hash          string `toml:"hash"`
	Compression   bool   `toml:"compression"`
	DefaultBranch string `toml:"default_branch"`
	// MinAbbrev is the shortest commit-id prefix accepted by resolution.
	MinAbbrev int `toml:"min_abbrev"`
}

type CacheConfig struct {
	Commits int `toml:"commits"`
}

// DefaultConfig returns the settings written by Init when none are given.
func DefaultConfig() *Config {
	return &Config{
		Core: CoreConfig{
			Hash:          object.HashSHA256,
			Compression:   true,
			DefaultBranch: DefaultBranch,
			MinAbbrev:     DefaultMinAbbrev,
		},
		Cache: CacheConfig{Commits: object.DefaultCommitCacheSize},
	}
}

// normalize fills zero values with defaults and rejects unusable settings.
func (c *Config) normalize() error {
	if c.Core.Hash == "" {
		c.Core.Hash = object.HashSHA256
	}
	if _, err := object.NewHasher(c.Core.Hash); err != nil {
		return fmt.Errorf("config: core.hash: %w", err)
	}
	if c.Core.DefaultBranch == "" {
		c.Core.DefaultBranch = DefaultBranch
	}
	if c.Core.MinAbbrev <= 0 {
		c.Core.MinAbbrev = DefaultMinAbbrev
	}
	if c.Cache.Commits <= 0 {
		c.Cache.Commits = object.DefaultCommitCacheSize
	}
	return nil
}

func configPath() string {
	return path.Join(MetaDirName, "config.toml")
}

// ReadConfig reads .gitlet/config.toml from fs. A missing file yields the
// defaults.
func ReadConfig(fs afero.Fs) (*Config, error) {
	data, err := afero.ReadFile(fs, configPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("read config: decode: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// WriteConfig atomically writes .gitlet/config.toml.
func WriteConfig(fs afero.Fs, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := writeFileAtomic(fs, configPath(), buf.Bytes()); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// writeFileAtomic replaces name with data via a temp file and a rename.
func writeFileAtomic(fs afero.Fs, name string, data []byte) error {
	tmp, err := afero.TempFile(fs, path.Dir(name), "."+path.Base(name)+"-tmp-*")
	if err != nil {
		return fmt.Errorf("tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("close: %w", err)
	}
	if err := fs.Rename(tmpName, name); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
