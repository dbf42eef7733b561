// Package workdir is the repository's view of the user's working directory.
// Paths are slash-separated and relative to the working-tree root.
package workdir

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// MetaDir is the repository's own directory; it is never part of the
// working tree.
const MetaDir = ".gitlet"

// ErrIsDir is returned when a path that must be a plain file is a directory.
var ErrIsDir = errors.New("path is a directory")

// FileSystem abstracts the working directory.
type FileSystem interface {
	Read(path string) ([]byte, error)
	// Write replaces path with data, creating parent directories.
	Write(path string, data []byte) error
	// DeleteIfPlainFile removes path when it is a regular file. It reports
	// false without error when path is missing or is a directory.
	DeleteIfPlainFile(path string) (bool, error)
	Exists(path string) bool
	// ListPlainFiles lists every regular file below the root, excluding
	// MetaDir, in sorted order.
	ListPlainFiles() ([]string, error)
}

// Tree is a FileSystem backed by an afero.Fs whose root is the working
// directory.
type Tree struct {
	fs afero.Fs
}

var _ FileSystem = (*Tree)(nil)

// New wraps fs, whose root is taken as the working-tree root.
func New(fs afero.Fs) *Tree {
	return &Tree{fs: fs}
}

// Clean normalizes a user supplied path to the slash-relative form used by
// commits. It rejects paths escaping the root and paths inside MetaDir.
func Clean(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	c := path.Clean("/" + p)[1:]
	if c == "" || c == "." {
		return "", fmt.Errorf("invalid path %q", p)
	}
	if c == MetaDir || strings.HasPrefix(c, MetaDir+"/") {
		return "", fmt.Errorf("path %q is inside %s", p, MetaDir)
	}
	return c, nil
}

func (t *Tree) Read(p string) ([]byte, error) {
	info, err := t.fs.Stat(p)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("read %s: %w", p, ErrIsDir)
	}
	return afero.ReadFile(t.fs, p)
}

func (t *Tree) Write(p string, data []byte) error {
	if dir := path.Dir(p); dir != "." && dir != "/" {
		if err := t.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("write %s: mkdir: %w", p, err)
		}
	}
	if info, err := t.fs.Stat(p); err == nil && info.IsDir() {
		return fmt.Errorf("write %s: %w", p, ErrIsDir)
	}
	if err := afero.WriteFile(t.fs, p, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", p, err)
	}
	return nil
}

func (t *Tree) DeleteIfPlainFile(p string) (bool, error) {
	info, err := t.fs.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("delete %s: %w", p, err)
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}
	if err := t.fs.Remove(p); err != nil {
		return false, fmt.Errorf("delete %s: %w", p, err)
	}
	return true, nil
}

func (t *Tree) Exists(p string) bool {
	info, err := t.fs.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

func (t *Tree) ListPlainFiles() ([]string, error) {
	var files []string
	err := afero.Walk(t.fs, "", func(p string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(p, "\\", "/")), "/")
		if rel == "" {
			return nil
		}
		if info.IsDir() {
			if rel == MetaDir {
				return fs.SkipDir
			}
			return nil
		}
		if info.Mode().IsRegular() {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list working files: %w", err)
	}
	sort.Strings(files)
	return files, nil
}
