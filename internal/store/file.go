package store

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/youruser/sitecards/internal/util"
)

const (
	ext      = ".png"
	filePerm = 0o644
)

// FileStore keeps artifacts as PNG files in a single directory.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir, creating the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("store %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file path for name.
func (s *FileStore) Path(name string) string {
	return filepath.Join(s.dir, name+ext)
}

// Exists reports whether the file for name is present.
func (s *FileStore) Exists(ctx context.Context, name string) (bool, error) {
	_, err := os.Stat(s.Path(name))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Save encodes img as PNG. The data goes to a temporary file in the same
// directory which is then renamed, so readers never see a partial file.
func (s *FileStore) Save(ctx context.Context, name string, img image.Image) error {
	tmp, err := os.CreateTemp(s.dir, "."+name+"-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		return err
	}
	if err := imaging.Encode(tmp, img, imaging.PNG); err != nil {
		tmp.Close()
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, s.Path(name))
}

// Load decodes the PNG stored under name.
func (s *FileStore) Load(ctx context.Context, name string) (image.Image, error) {
	img, err := imaging.Open(s.Path(name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return img, nil
}

// List returns the names of all PNG files in the directory.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		n := e.Name()
		if e.IsDir() || strings.HasPrefix(n, ".") || !strings.EqualFold(filepath.Ext(n), ext) {
			continue
		}
		names = append(names, strings.TrimSuffix(n, filepath.Ext(n)))
	}
	sort.Strings(names)
	return names, nil
}

// Clear removes every artifact and returns how many files were deleted.
func (s *FileStore) Clear(ctx context.Context) (int, error) {
	names, err := s.List(ctx)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	count := 0
	for _, n := range names {
		if err := os.Remove(s.Path(n)); err != nil && !os.IsNotExist(err) {
			return count, err
		}
		count++
	}
	return count, nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
