package imagepkg

import (
	"image"
	"image/color"
	"image/draw"
)

// RoundMask returns an alpha mask of the given size that is opaque inside a
// rectangle with quarter-circle corners of the given radius and transparent
// outside it. A corner pixel belongs to the rectangle when its outer corner
// lies on or within the arc, so the outermost pixel is cut for any radius. The radius is clamped to half the shorter side;
// radius 0 yields a fully opaque mask.
func RoundMask(width, height, radius int) *image.Alpha {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	mask := image.NewAlpha(image.Rect(0, 0, width, height))
	draw.Draw(mask, mask.Bounds(), image.Opaque, image.Point{}, draw.Src)

	radius = max(0, min(radius, width/2, height/2))
	if radius == 0 {
		return mask
	}

	r := float64(radius)
	for dy := 0; dy < radius; dy++ {
		for dx := 0; dx < radius; dx++ {
			// distance from the pixel's outer corner to the arc centre at (r, r)
			x := r - float64(dx)
			y := r - float64(dy)
			if x*x+y*y <= r*r {
				continue
			}
			mask.SetAlpha(dx, dy, color.Alpha{})
			mask.SetAlpha(width-1-dx, dy, color.Alpha{})
			mask.SetAlpha(dx, height-1-dy, color.Alpha{})
			mask.SetAlpha(width-1-dx, height-1-dy, color.Alpha{})
		}
	}
	return mask
}

// ApplyMask returns a copy of img whose alpha is multiplied by mask.
// The mask is aligned with the image's top-left corner; pixels the mask
// does not cover become transparent.
func ApplyMask(img image.Image, mask *image.Alpha) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.DrawMask(out, out.Bounds(), img, b.Min, mask, mask.Bounds().Min, draw.Src)
	return out
}

// RoundCorners is ApplyMask with a RoundMask sized to img.
func RoundCorners(img image.Image, radius int) *image.NRGBA {
	b := img.Bounds()
	return ApplyMask(img, RoundMask(b.Dx(), b.Dy(), radius))
}
