package engine

import (
	"errors"
	"fmt"

	"github.com/drummonds/pdfire/geometry"
	"github.com/drummonds/pdfire/options"
	"github.com/drummonds/pdfire/pdferr"
	"github.com/drummonds/pdfire/watermark"
)

// Placement is where the watermark goes on one page. Coordinates are PDF
// points from the bottom-left corner of the page.
type Placement struct {
	Page    int
	X       float64
	Y       float64
	Width   float64
	Height  float64
	Scale   float64 // Width divided by the image width in pixels
	Opacity float64
}

// Stamper is a read session over a document that can write a new copy of it
// with an image drawn on top of selected pages. Pages are 1-based.
type Stamper interface {
	PageCount() int
	PageSize(pageNr int) (width, height float64, err error)
	Stamp(png []byte, placements []Placement) ([]byte, error)
}

var errNoPages = errors.New("no pages selected for watermarking")

// ApplyWatermark rotates img, places it on every page in pages according to
// opts and returns the re-serialized document. The document behind st is not
// modified.
func ApplyWatermark(st Stamper, pages []int, img *watermark.Image, opts *options.Watermark) ([]byte, error) {
	if opts == nil {
		opts = options.DefaultWatermark()
	}
	if len(pages) == 0 {
		return nil, errNoPages
	}
	if err := pdferr.CheckPages(pages, st.PageCount()); err != nil {
		return nil, err
	}

	rotated, err := img.Rotated(opts.RotationDegrees())
	if err != nil {
		return nil, err
	}
	stamp, err := Encode(rotated, options.PNG, 100)
	if err != nil {
		return nil, fmt.Errorf("unable to encode watermark: %w", err)
	}
	imageWidth := float64(rotated.Bounds().Dx())
	imageHeight := float64(rotated.Bounds().Dy())

	placements := make([]Placement, 0, len(pages))
	for _, pageNr := range pages {
		pageWidth, pageHeight, err := st.PageSize(pageNr)
		if err != nil {
			return nil, err
		}
		p, err := Place(pageNr, pageWidth, pageHeight, imageWidth, imageHeight, opts)
		if err != nil {
			return nil, err
		}
		placements = append(placements, p)
	}

	out, err := st.Stamp(stamp, placements)
	if err != nil {
		return nil, fmt.Errorf("unable to stamp watermark: %w", err)
	}

	Logger.Debug("Watermark applied", "pages", len(placements), "rotation", opts.RotationDegrees(),
		"opacity", opts.Opacity(), "anchor", opts.Anchor().String())
	return out, nil
}

// Place scales an imageWidth x imageHeight watermark to the configured share
// of the page width and anchors it on the page.
func Place(pageNr int, pageWidth, pageHeight, imageWidth, imageHeight float64, opts *options.Watermark) (Placement, error) {
	scale := (pageWidth / imageWidth) * opts.WidthRelativeToPage()
	width := imageWidth * scale
	height := imageHeight * scale

	x, y, err := geometry.AnchorCoordinates(opts.Anchor(), pageWidth, pageHeight, width, height)
	if err != nil {
		return Placement{}, err
	}

	return Placement{
		Page:    pageNr,
		X:       x,
		Y:       y,
		Width:   width,
		Height:  height,
		Scale:   scale,
		Opacity: opts.Opacity(),
	}, nil
}
