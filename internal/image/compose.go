// Package imagepkg composes the printable pages: content cards, index pages
// and title pages, along with the raster helpers they are built from.
package imagepkg

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// ErrEmptyImage is returned when a source raster is missing or has no pixels.
var ErrEmptyImage = errors.New("empty image")

// CardLayout is the geometry of a content card before rotation.
type CardLayout struct {
	Width, Height int

	BlurSigma float64

	QRSize   int
	QRInset  int // distance of the QR code's top-left corner from the right and bottom edges
	QRRadius int

	BoxLeft   int
	BoxInset  int // distance of the text box's top edge from the bottom edge
	BoxMargin int // canvas width minus box width
	BoxHeight int
	BoxRadius int
	BoxFill   color.NRGBA

	TextLeft   int
	URLTop     int // distance of the URL's top edge from the bottom edge
	URLColor   color.Color
	TextTop    int // distance of the first description line from the bottom edge
	LineHeight int
	TextColor  color.Color
	WrapWidth  int
}

// DefaultCardLayout returns the print service layout scaled to a w×h canvas.
func DefaultCardLayout(w, h int) CardLayout {
	return CardLayout{
		Width:      w,
		Height:     h,
		BlurSigma:  10,
		QRSize:     325,
		QRInset:    375,
		QRRadius:   10,
		BoxLeft:    50,
		BoxInset:   375,
		BoxMargin:  450,
		BoxHeight:  325,
		BoxRadius:  10,
		BoxFill:    color.NRGBA{R: 255, G: 255, B: 255, A: 150},
		TextLeft:   75,
		URLTop:     330,
		URLColor:   color.NRGBA{R: 128, G: 128, B: 128, A: 255},
		TextTop:    290,
		LineHeight: 40,
		TextColor:  color.Black,
		WrapWidth:  34,
	}
}

// Compositor builds content cards from a screenshot and a QR code.
type Compositor struct {
	layout CardLayout
	fonts  *Fonts
}

// NewCompositor returns a compositor for the given layout and fonts.
func NewCompositor(layout CardLayout, fonts *Fonts) *Compositor {
	return &Compositor{layout: layout, fonts: fonts}
}

// Layout returns the compositor's card geometry.
func (c *Compositor) Layout() CardLayout { return c.layout }

// ComposeCard layers a blurred screenshot, a rounded QR code, a translucent
// caption box, the URL and the wrapped description onto one canvas and
// rotates it a quarter turn counter-clockwise for the printer.
func (c *Compositor) ComposeCard(screenshot, qr image.Image, url, description string) (image.Image, error) {
	if isEmpty(screenshot) {
		return nil, fmt.Errorf("screenshot: %w", ErrEmptyImage)
	}
	if isEmpty(qr) {
		return nil, fmt.Errorf("qr code: %w", ErrEmptyImage)
	}
	l := c.layout

	canvas := imaging.Resize(screenshot, l.Width, l.Height, imaging.Lanczos)
	canvas = imaging.Blur(canvas, l.BlurSigma)

	code := imaging.Resize(qr, l.QRSize, l.QRSize, imaging.Lanczos)
	canvas = imaging.Overlay(canvas, RoundCorners(code, l.QRRadius),
		image.Pt(l.Width-l.QRInset, l.Height-l.QRInset), 1.0)

	box := imaging.New(max(l.Width-l.BoxMargin, 1), l.BoxHeight, l.BoxFill)
	canvas = imaging.Overlay(canvas, RoundCorners(box, l.BoxRadius),
		image.Pt(l.BoxLeft, l.Height-l.BoxInset), 1.0)

	minor, err := c.fonts.MinorFace()
	if err != nil {
		return nil, err
	}
	defer minor.Close()
	major, err := c.fonts.MajorFace()
	if err != nil {
		return nil, err
	}
	defer major.Close()

	dc := gg.NewContextForImage(canvas)
	dc.SetFontFace(minor)
	dc.SetColor(l.URLColor)
	drawTopLeft(dc, url, l.TextLeft, l.Height-l.URLTop)

	dc.SetFontFace(major)
	dc.SetColor(l.TextColor)
	y := l.Height - l.TextTop
	for _, line := range Wrap(description, l.WrapWidth) {
		drawTopLeft(dc, line, l.TextLeft, y)
		y += l.LineHeight
	}

	return imaging.Rotate90(dc.Image()), nil
}

// drawTopLeft draws s with its top-left corner at (x, y).
func drawTopLeft(dc *gg.Context, s string, x, y int) {
	dc.DrawStringAnchored(s, float64(x), float64(y), 0, 1)
}

func isEmpty(img image.Image) bool {
	return img == nil || img.Bounds().Empty()
}
