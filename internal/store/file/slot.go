package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrSnakeDoc/marks/internal/store"
)

// Slot keeps the bookmark list in one JSON file.
// Writes go to a temp file in the same directory and are renamed over the target.
type Slot struct {
	path string
}

// NewSlot creates a file-backed slot. The parent directory is created on first write.
func NewSlot(path string) *Slot {
	return &Slot{path: path}
}

// Path returns the backing file path
func (s *Slot) Path() string {
	return s.path
}

// Sibling returns a slot next to this one: bookmarks.json becomes bookmarks.<suffix>.json
func (s *Slot) Sibling(suffix string) *Slot {
	ext := filepath.Ext(s.path)
	return NewSlot(strings.TrimSuffix(s.path, ext) + "." + suffix + ext)
}

// Read returns the file content, or store.ErrSlotEmpty when the file does not exist
func (s *Slot) Read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrSlotEmpty
		}
		return nil, fmt.Errorf("failed to read slot file: %w", err)
	}
	return data, nil
}

// Write replaces the file content atomically
func (s *Slot) Write(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create slot dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".marks-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName) // no-op after a successful rename
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace slot file: %w", err)
	}
	return nil
}
