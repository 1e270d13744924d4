package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/podote/internal/model"
)

// JSON-backed storage. Single file, human-readable, portable.
// One writer at a time; the item store serializes its saves.

// DataFileName is the file created inside the data directory.
const DataFileName = "todos.json"

// File stores the item list as an indented JSON array.
type File struct {
	path string
}

// New returns a File backend writing dir/todos.json.
func New(dir string) *File {
	return &File{path: filepath.Join(dir, DataFileName)}
}

// Path is the location of the JSON file.
func (f *File) Path() string { return f.path }

func (f *File) Load(ctx context.Context) ([]model.Item, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read file: %w", err)
	}
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, false, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, true, nil
}

// Save writes items to a temp file next to the target and renames it over,
// so a reader never sees a half-written list.
func (f *File) Save(ctx context.Context, items []model.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
