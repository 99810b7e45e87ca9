package imagepkg

import (
	"fmt"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// FontSpec selects a TrueType/OpenType font file and point size.
// An empty Path selects the embedded fallback for the role.
type FontSpec struct {
	Path string
	Size float64
}

// Fonts holds parsed fonts for the two text roles on a card: the lighter
// minor font used for URLs and the bold major font used for descriptions.
// Faces are created per drawing call because font.Face is not safe for
// concurrent use.
type Fonts struct {
	minor, major         *opentype.Font
	minorSize, majorSize float64
}

// LoadFonts parses both fonts. A configured path that cannot be read or
// parsed is an error.
func LoadFonts(minor, major FontSpec) (*Fonts, error) {
	mf, err := parseFont(minor.Path, goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("minor font: %w", err)
	}
	jf, err := parseFont(major.Path, gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("major font: %w", err)
	}
	return &Fonts{minor: mf, major: jf, minorSize: minor.Size, majorSize: major.Size}, nil
}

// DefaultFonts returns the embedded fonts at the given sizes.
func DefaultFonts(minorSize, majorSize float64) *Fonts {
	f, err := LoadFonts(FontSpec{Size: minorSize}, FontSpec{Size: majorSize})
	if err != nil {
		// the embedded fonts always parse
		panic(err)
	}
	return f
}

// MinorFace returns a new face for the minor font.
func (f *Fonts) MinorFace() (font.Face, error) {
	return newFace(f.minor, f.minorSize)
}

// MajorFace returns a new face for the major font.
func (f *Fonts) MajorFace() (font.Face, error) {
	return newFace(f.major, f.majorSize)
}

func parseFont(path string, fallback []byte) (*opentype.Font, error) {
	data := fallback
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", path, err)
	}
	return f, nil
}

func newFace(f *opentype.Font, size float64) (font.Face, error) {
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
