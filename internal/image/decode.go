package imagepkg

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// DecodeImage decodes PNG, JPEG, GIF, BMP or TIFF data, applying any EXIF
// orientation.
func DecodeImage(b []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(b), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	if isEmpty(img) {
		return nil, ErrEmptyImage
	}
	return img, nil
}

// LoadBackground opens the background asset shared by index and title pages.
// An empty path means no background (plain white pages).
func LoadBackground(path string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("background %s: %w", path, err)
	}
	return img, nil
}
