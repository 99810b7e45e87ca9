package imagepkg

import (
	"fmt"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/go-cmp/cmp"

	"github.com/youruser/sitecards/internal/sites"
)

func testRecords(n int) []sites.Record {
	out := make([]sites.Record, n)
	for i := range out {
		out[i] = sites.Record{Row: i, URL: fmt.Sprintf("https://site%d.example", i), Description: "d"}
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		n, per int
		want   []int
	}{
		{53, 26, []int{26, 26, 1}},
		{52, 26, []int{26, 26}},
		{1, 26, []int{1}},
		{0, 26, nil},
		{5, 0, []int{1, 1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_by_%d", tt.n, tt.per), func(t *testing.T) {
			var got []int
			for _, p := range Paginate(testRecords(tt.n), tt.per) {
				got = append(got, len(p))
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("page sizes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPaginateKeepsOrder(t *testing.T) {
	pages := Paginate(testRecords(53), 26)
	if pages[1][0].Row != 26 || pages[2][0].Row != 52 {
		t.Errorf("pages start at rows %d and %d, want 26 and 52", pages[1][0].Row, pages[2][0].Row)
	}
}

func TestBuildIndexPages(t *testing.T) {
	layout := DefaultPageLayout(300, 400)
	b := NewPageBuilder(layout, DefaultFonts(25, 40))

	pages, err := b.BuildIndexPages(testRecords(53), nil)
	if err != nil {
		t.Fatalf("BuildIndexPages() error: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("len(pages) = %d, want 3", len(pages))
	}
	for i, p := range pages {
		if bb := p.Bounds(); bb.Dx() != 400 || bb.Dy() != 300 {
			t.Errorf("page %d bounds = %v, want 400x300", i, bb)
		}
	}

	// text is drawn in black on the white default background
	out := imaging.Clone(pages[0])
	dark := false
	for y := 0; y < out.Bounds().Dy() && !dark; y++ {
		for x := 0; x < out.Bounds().Dx(); x++ {
			if out.NRGBAAt(x, y).R < 64 {
				dark = true
				break
			}
		}
	}
	if !dark {
		t.Error("index page has no text pixels")
	}
}

func TestBuildTitlePages(t *testing.T) {
	b := NewPageBuilder(DefaultPageLayout(300, 400), DefaultFonts(25, 40))
	bg := imaging.New(30, 40, color.NRGBA{B: 255, A: 255})

	pages := b.BuildTitlePages(bg, 2)
	if len(pages) != 2 {
		t.Fatalf("len(pages) = %d, want 2", len(pages))
	}
	out := imaging.Clone(pages[1])
	if bb := out.Bounds(); bb.Dx() != 400 || bb.Dy() != 300 {
		t.Errorf("title bounds = %v, want 400x300", bb)
	}
	if got := out.NRGBAAt(200, 150); got.B < 250 || got.R > 5 {
		t.Errorf("title pixel = %v, want background blue", got)
	}

	if got := b.BuildTitlePages(bg, 0); len(got) != 0 {
		t.Errorf("BuildTitlePages(0) returned %d pages", len(got))
	}
}
