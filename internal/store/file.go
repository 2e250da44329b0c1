package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gvondra/StsfctryRecipes/internal/recipe"
)

const DefaultFileName = "stsfctry-recipes.json"

// File keeps the collection in a single JSON document on disk.
type File struct {
	path string
}

func NewFile(path string) *File {
	if path == "" {
		path = DefaultFileName
	}
	return &File{path: path}
}

// LoadAll returns an empty collection when the file does not exist yet.
func (f *File) LoadAll(ctx context.Context) ([]recipe.Recipe, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []recipe.Recipe{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open recipes file: %w", err)
	}
	defer file.Close()

	recipes, err := decodeRecipes(file)
	if err != nil {
		return nil, fmt.Errorf("decode recipes file %s: %w", f.path, err)
	}
	return recipes, nil
}

// SaveAll writes to a temporary file and renames it over the target.
func (f *File) SaveAll(ctx context.Context, recipes []recipe.Recipe) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create recipes directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".recipes-*.json")
	if err != nil {
		return fmt.Errorf("create temp recipes file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := encodeRecipes(tmp, recipes); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("encode recipes: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp recipes file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod recipes file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace recipes file: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }

func decodeRecipes(r io.Reader) ([]recipe.Recipe, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	// Tolerate a UTF-8 byte order mark from hand-edited files.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return []recipe.Recipe{}, nil
	}

	var recipes []recipe.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}
	return recipes, nil
}

func encodeRecipes(w io.Writer, recipes []recipe.Recipe) error {
	if recipes == nil {
		recipes = []recipe.Recipe{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(recipes)
}
