package engine

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/drummonds/pdfire/geometry"
	"github.com/drummonds/pdfire/options"
	"github.com/drummonds/pdfire/pdferr"
	"github.com/drummonds/pdfire/watermark"
)

type fakeStamper struct {
	sizes      [][2]float64
	stamp      []byte
	placements []Placement
}

func (s *fakeStamper) PageCount() int { return len(s.sizes) }

func (s *fakeStamper) PageSize(pageNr int) (float64, float64, error) {
	return s.sizes[pageNr-1][0], s.sizes[pageNr-1][1], nil
}

func (s *fakeStamper) Stamp(stamp []byte, placements []Placement) ([]byte, error) {
	s.stamp = stamp
	s.placements = placements
	return []byte("%PDF-1.7 stamped"), nil
}

func newWatermark(t *testing.T, w, h int) *watermark.Image {
	t.Helper()
	img, err := watermark.FromImage(imaging.New(w, h, color.NRGBA{B: 255, A: 255}))
	if err != nil {
		t.Fatalf("Failed to build watermark: %v", err)
	}
	return img
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestApplyWatermarkPlacements(t *testing.T) {
	st := &fakeStamper{sizes: [][2]float64{{600, 800}, {800, 600}, {600, 800}}}
	img := newWatermark(t, 200, 100)
	opts, err := options.NewWatermark(
		options.WithRotation(0),
		options.WithOpacity(0.5),
		options.WithWidthRelativeToPage(0.5),
		options.WithAnchor(geometry.Center),
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	out, err := ApplyWatermark(st, []int{1, 2}, img, opts)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(out) != "%PDF-1.7 stamped" {
		t.Errorf("Expected stamper output to be returned, got %q", out)
	}
	if len(st.placements) != 2 {
		t.Fatalf("Expected 2 placements, got %d", len(st.placements))
	}

	p := st.placements[0]
	if p.Page != 1 || !almostEqual(p.Width, 300) || !almostEqual(p.Height, 150) ||
		!almostEqual(p.X, 150) || !almostEqual(p.Y, 325) || !almostEqual(p.Scale, 1.5) || p.Opacity != 0.5 {
		t.Errorf("Unexpected placement for page 1: %+v", p)
	}
	p = st.placements[1]
	if p.Page != 2 || !almostEqual(p.Width, 400) || !almostEqual(p.Height, 200) ||
		!almostEqual(p.X, 200) || !almostEqual(p.Y, 200) {
		t.Errorf("Unexpected placement for page 2: %+v", p)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(st.stamp))
	if err != nil {
		t.Fatalf("Stamp image is not a PNG: %v", err)
	}
	if cfg.Width != 200 || cfg.Height != 100 {
		t.Errorf("Expected unrotated 200x100 stamp, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestApplyWatermarkRotatedStampIsLarger(t *testing.T) {
	st := &fakeStamper{sizes: [][2]float64{{600, 800}}}
	img := newWatermark(t, 100, 100)

	if _, err := ApplyWatermark(st, []int{1}, img, nil); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(st.stamp))
	if err != nil {
		t.Fatalf("Stamp image is not a PNG: %v", err)
	}
	if cfg.Width != 142 || cfg.Height != 142 {
		t.Errorf("Expected 142x142 stamp for -45 degrees, got %dx%d", cfg.Width, cfg.Height)
	}
	if !almostEqual(st.placements[0].Width, 450) {
		t.Errorf("Expected stamp width 0.75 of the page (450), got %v", st.placements[0].Width)
	}
}

func TestApplyWatermarkOutOfRange(t *testing.T) {
	st := &fakeStamper{sizes: [][2]float64{{600, 800}}}
	img := newWatermark(t, 10, 10)

	_, err := ApplyWatermark(st, []int{1, 2}, img, nil)
	if !errors.Is(err, pdferr.ErrPageOutOfRange) {
		t.Fatalf("Expected ErrPageOutOfRange, got: %v", err)
	}
	if st.placements != nil {
		t.Error("Expected nothing stamped after a range error")
	}
}

func TestApplyWatermarkNoPages(t *testing.T) {
	st := &fakeStamper{sizes: [][2]float64{{600, 800}}}
	if _, err := ApplyWatermark(st, nil, newWatermark(t, 10, 10), nil); err == nil {
		t.Error("Expected error when no pages are selected")
	}
}

func TestApplyWatermarkDisposedImage(t *testing.T) {
	st := &fakeStamper{sizes: [][2]float64{{600, 800}}}
	img := newWatermark(t, 10, 10)
	img.Close()

	if _, err := ApplyWatermark(st, []int{1}, img, nil); !errors.Is(err, pdferr.ErrObjectDisposed) {
		t.Errorf("Expected ErrObjectDisposed, got: %v", err)
	}
}

func TestPlaceAnchors(t *testing.T) {
	for _, anchor := range []geometry.Anchor{geometry.TopLeft, geometry.TopRight, geometry.BottomLeft, geometry.BottomRight, geometry.Center} {
		opts, err := options.NewWatermark(options.WithAnchor(anchor), options.WithWidthRelativeToPage(0.25))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		p, err := Place(1, 612, 792, 300, 300, opts)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if p.X < 0 || p.Y < 0 || p.X+p.Width > 612+1e-9 || p.Y+p.Height > 792+1e-9 {
			t.Errorf("%v: placement %+v leaves the page", anchor, p)
		}
	}
}
