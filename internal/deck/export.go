package deck

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/signintech/gopdf"

	"github.com/youruser/sitecards/internal/store"
	"github.com/youruser/sitecards/internal/util"
)

// ErrNoPages is returned when there is nothing to export.
var ErrNoPages = errors.New("no pages to export")

// PDFOptions configures ExportPDF.
type PDFOptions struct {
	// Resolution is the pixel density of the page images in pixels per inch.
	Resolution float64
}

// pointsPerInch is the PDF user space unit.
const pointsPerInch = 72.0

// ExportPDF writes one PDF page per page in pages, loading each image from
// src. Pages are flattened onto white and sized from their pixel dimensions
// at opts.Resolution.
func ExportPDF(ctx context.Context, path string, src store.Store, pages []PageID, opts PDFOptions) error {
	if len(pages) == 0 {
		return ErrNoPages
	}
	if opts.Resolution <= 0 {
		opts.Resolution = 100
	}
	scale := pointsPerInch / opts.Resolution

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})

	for _, p := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := src.Load(ctx, p.Name())
		if err != nil {
			return fmt.Errorf("load page %s: %w", p, err)
		}
		flat := Flatten(img)
		b := flat.Bounds()
		size := gopdf.Rect{W: float64(b.Dx()) * scale, H: float64(b.Dy()) * scale}

		pdf.AddPageWithOption(gopdf.PageOption{PageSize: &size})
		if err := pdf.ImageFrom(flat, 0, 0, &size); err != nil {
			return fmt.Errorf("place page %s: %w", p, err)
		}
	}
	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := pdf.WritePdf(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Flatten composites img over an opaque white background of the same size.
func Flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
