package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/youruser/sitecards/internal/sites"
)

// PageLayout is the geometry of index and title pages before rotation.
type PageLayout struct {
	Width, Height int
	PerPage       int
	Top           int
	Left          int
	LineHeight    int
	TextColor     color.Color
}

// DefaultPageLayout returns the index layout for a w×h canvas:
// 26 URLs per page, 60px apart, starting 200px from the top.
func DefaultPageLayout(w, h int) PageLayout {
	return PageLayout{
		Width:      w,
		Height:     h,
		PerPage:    26,
		Top:        200,
		Left:       100,
		LineHeight: 60,
		TextColor:  color.Black,
	}
}

// PageBuilder renders index and title pages over a shared background.
type PageBuilder struct {
	layout PageLayout
	fonts  *Fonts
}

// NewPageBuilder returns a builder for the given layout and fonts.
func NewPageBuilder(layout PageLayout, fonts *Fonts) *PageBuilder {
	return &PageBuilder{layout: layout, fonts: fonts}
}

// Layout returns the builder's page geometry.
func (b *PageBuilder) Layout() PageLayout { return b.layout }

// Paginate splits items into consecutive pages of at most perPage entries.
// The last page may be partial; no page is empty.
func Paginate[T any](items []T, perPage int) [][]T {
	perPage = max(perPage, 1)
	var pages [][]T
	for start := 0; start < len(items); start += perPage {
		end := min(start+perPage, len(items))
		pages = append(pages, items[start:end])
	}
	return pages
}

// Background resizes bg to the page canvas. A nil bg gives plain white.
func (b *PageBuilder) Background(bg image.Image) *image.NRGBA {
	if isEmpty(bg) {
		return imaging.New(b.layout.Width, b.layout.Height, color.White)
	}
	return imaging.Resize(bg, b.layout.Width, b.layout.Height, imaging.Lanczos)
}

// RenderIndexPage lists urls over the background, one per line, and
// rotates the page for printing.
func (b *PageBuilder) RenderIndexPage(bg image.Image, urls []string) (image.Image, error) {
	face, err := b.fonts.MinorFace()
	if err != nil {
		return nil, err
	}
	defer face.Close()

	l := b.layout
	dc := gg.NewContextForImage(b.Background(bg))
	dc.SetFontFace(face)
	dc.SetColor(l.TextColor)
	y := l.Top
	for _, u := range urls {
		drawTopLeft(dc, u, l.Left, y)
		y += l.LineHeight
	}
	return imaging.Rotate90(dc.Image()), nil
}

// RenderTitlePage returns the rotated background.
func (b *PageBuilder) RenderTitlePage(bg image.Image) image.Image {
	return imaging.Rotate90(b.Background(bg))
}

// BuildIndexPages renders one index page per PerPage records.
func (b *PageBuilder) BuildIndexPages(records []sites.Record, bg image.Image) ([]image.Image, error) {
	var out []image.Image
	for _, page := range Paginate(records, b.layout.PerPage) {
		img, err := b.RenderIndexPage(bg, sites.URLs(page))
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// BuildTitlePages returns count identical title pages.
func (b *PageBuilder) BuildTitlePages(bg image.Image, count int) []image.Image {
	out := make([]image.Image, 0, max(count, 0))
	for i := 0; i < count; i++ {
		out = append(out, b.RenderTitlePage(bg))
	}
	return out
}
