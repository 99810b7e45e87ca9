package store

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/go-cmp/cmp"
)

func testImage() image.Image {
	return imaging.New(4, 3, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "out")
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	ok, err := s.Exists(ctx, "1")
	if err != nil || ok {
		t.Fatalf("Exists() before save = %v, %v; want false, nil", ok, err)
	}
	if _, err := s.Load(ctx, "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() before save error = %v, want ErrNotFound", err)
	}

	for _, name := range []string{"2", "1", "title_0"} {
		if err := s.Save(ctx, name, testImage()); err != nil {
			t.Fatalf("Save(%q) error: %v", name, err)
		}
	}
	// Stray files are not artifacts.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ok, err = s.Exists(ctx, "1")
	if err != nil || !ok {
		t.Fatalf("Exists() after save = %v, %v; want true, nil", ok, err)
	}

	names, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if diff := cmp.Diff([]string{"1", "2", "title_0"}, names); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}

	img, err := s.Load(ctx, "1")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Errorf("Load() bounds = %v, want 4x3", b)
	}

	n, err := s.Clear(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Clear() = %d, %v; want 3, nil", n, err)
	}
	if names, _ := s.List(ctx); len(names) != 0 {
		t.Errorf("List() after Clear = %v, want empty", names)
	}
}

func TestFileStoreSaveIsAtomic(t *testing.T) {
	ctx := context.Background()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "card", testImage()); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "card.png" {
		t.Errorf("directory entries = %v, want only card.png", entries)
	}

	data, err := os.ReadFile(s.Path("card"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("saved artifact is not a PNG")
	}
}

func TestFileStoreSaveIsWorldReadable(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save(context.Background(), "card", testImage()); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(s.Path("card"))
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o644 {
		t.Errorf("mode = %v, want 0644", perm)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Save(ctx, "b", testImage()); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "a", testImage()); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, "a", testImage()); err != nil {
		t.Fatal(err)
	}

	if got := s.Writes("a"); got != 2 {
		t.Errorf("Writes(a) = %d, want 2", got)
	}
	if got := s.TotalWrites(); got != 3 {
		t.Errorf("TotalWrites() = %d, want 3", got)
	}
	names, _ := s.List(ctx)
	if diff := cmp.Diff([]string{"a", "b"}, names); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.Load(ctx, "c"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Load(c) error = %v, want ErrNotFound", err)
	}
}
