package document

import (
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/drummonds/pdfire/engine/pdfrenderer"
	"github.com/drummonds/pdfire/geometry"
	"github.com/drummonds/pdfire/options"
	"github.com/drummonds/pdfire/pdftest"
	"github.com/drummonds/pdfire/watermark"
)

func grayAt(img image.Image, x, y int) int {
	return int(color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y)
}

// TestWatermarkPlacementRendered stamps a 100x50 black image at half the
// width of a blank 600x800 page and checks where PDFium paints it. At a
// render width of 600 one point is one pixel, so the stamp covers a 300x150
// pixel rectangle.
func TestWatermarkPlacementRendered(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping PDFium watermark rendering test in short mode")
	}

	r, err := pdfrenderer.NewPDFiumRenderer()
	if err != nil {
		t.Fatalf("NewPDFiumRenderer failed: %v", err)
	}
	defer r.Close()

	data := pdftest.Build(pdftest.Doc{Pages: [][2]float64{{600, 800}, {600, 800}}, NoText: true})
	stamp, err := watermark.FromImage(imaging.New(100, 50, color.Black))
	if err != nil {
		t.Fatalf("Failed to build watermark image: %v", err)
	}
	rendering, err := options.NewRendering(options.WithTargetWidth(600))
	if err != nil {
		t.Fatalf("NewRendering failed: %v", err)
	}

	type point struct{ x, y int }
	tests := []struct {
		anchor  geometry.Anchor
		opacity float64
		inside  point
		outside []point
		want    int
	}{
		{geometry.BottomRight, 1, point{450, 725}, []point{{150, 725}, {450, 600}}, 0},
		{geometry.BottomLeft, 1, point{150, 725}, []point{{450, 725}, {150, 600}}, 0},
		{geometry.TopLeft, 1, point{150, 75}, []point{{450, 75}, {150, 225}}, 0},
		{geometry.TopRight, 1, point{450, 75}, []point{{150, 75}, {450, 225}}, 0},
		{geometry.Center, 1, point{300, 400}, []point{{100, 400}, {300, 250}, {300, 550}}, 0},
		{geometry.Center, 0.5, point{300, 400}, []point{{100, 400}, {300, 250}}, 127},
	}

	for _, tc := range tests {
		t.Run(tc.anchor.String(), func(t *testing.T) {
			d, err := New(data, WithRenderer(r))
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			defer d.Close()

			opts, err := options.NewWatermark(
				options.WithRotation(0),
				options.WithOpacity(tc.opacity),
				options.WithWidthRelativeToPage(0.5),
				options.WithAnchor(tc.anchor),
			)
			if err != nil {
				t.Fatalf("NewWatermark failed: %v", err)
			}
			if err := d.AddImageWatermark([]int{1}, stamp, opts); err != nil {
				t.Fatalf("AddImageWatermark failed: %v", err)
			}

			pages, err := d.RenderImages([]int{1, 2}, rendering)
			if err != nil {
				t.Fatalf("RenderImages failed: %v", err)
			}
			if size := pages[0].Bounds().Size(); size != image.Pt(600, 800) {
				t.Fatalf("rendered page size = %v, want 600x800", size)
			}

			if got := grayAt(pages[0], tc.inside.x, tc.inside.y); got < tc.want-3 || got > tc.want+3 {
				t.Errorf("gray inside the watermark at %v = %d, want about %d", tc.inside, got, tc.want)
			}
			for _, p := range tc.outside {
				if got := grayAt(pages[0], p.x, p.y); got != 255 {
					t.Errorf("gray outside the watermark at %v = %d, want 255", p, got)
				}
			}

			for _, p := range append(tc.outside, tc.inside) {
				if got := grayAt(pages[1], p.x, p.y); got != 255 {
					t.Errorf("page 2 was not selected but has gray %d at %v", got, p)
				}
			}
		})
	}
}
