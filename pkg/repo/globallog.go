package repo

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
)

// GlobalLog is the append-only record of every commit ever created, in
// creation order, independent of branches.
type GlobalLog struct {
	fs   afero.Fs
	path string
}

func NewGlobalLog(fs afero.Fs, path string) *GlobalLog {
	return &GlobalLog{fs: fs, path: path}
}

// Append adds one entry followed by a blank line.
func (g *GlobalLog) Append(entry string) error {
	f, err := g.fs.OpenFile(g.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("global log open: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(entry + "\n"); err != nil {
		return fmt.Errorf("global log write: %w", err)
	}
	return nil
}

// Read returns the whole log. A missing log is empty.
func (g *GlobalLog) Read() (string, error) {
	data, err := afero.ReadFile(g.fs, g.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read global log: %w", err)
	}
	return string(data), nil
}
