// Package store persists raster artifacts (screenshots, QR codes, pages) by name.
//
// A Store doubles as the run cache: an artifact that Exists is never
// regenerated. Names carry no extension; the file-backed store adds ".png".
package store

import (
	"context"
	"errors"
	"image"
)

// ErrNotFound is returned by Load for a name that was never saved.
var ErrNotFound = errors.New("artifact not found")

// Store saves and loads named images.
type Store interface {
	// Exists reports whether an artifact with the given name is present.
	Exists(ctx context.Context, name string) (bool, error)

	// Save stores img under name, replacing any previous artifact.
	Save(ctx context.Context, name string, img image.Image) error

	// Load returns the artifact stored under name, or ErrNotFound.
	Load(ctx context.Context, name string) (image.Image, error)

	// List returns the names of all stored artifacts in lexical order.
	List(ctx context.Context) ([]string, error)
}
