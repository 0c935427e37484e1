package engine

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"

	"github.com/drummonds/pdfire/engine/pdfrenderer"
	"github.com/drummonds/pdfire/options"
	"github.com/drummonds/pdfire/pdferr"
)

// RenderPages rasterizes the 1-based pages of sess, in the order given, and
// returns one encoded image per page. Every page is checked against the page
// count before anything is rendered.
func RenderPages(sess pdfrenderer.Session, pages []int, opts *options.Rendering) ([][]byte, error) {
	if opts == nil {
		opts = options.DefaultRendering()
	}
	if err := pdferr.CheckPages(pages, sess.PageCount()); err != nil {
		return nil, err
	}
	rate, err := opts.Quality().CompressionRate()
	if err != nil {
		return nil, err
	}

	images := make([][]byte, 0, len(pages))
	for _, pageNr := range pages {
		canvas, err := renderPage(sess, pageNr, opts)
		if err != nil {
			return nil, err
		}
		data, err := Encode(canvas, opts.Format(), rate)
		if err != nil {
			return nil, fmt.Errorf("unable to encode page %d: %w", pageNr, err)
		}
		images = append(images, data)
	}

	Logger.Debug("Rendered pages", "count", len(images), "width", opts.TargetWidth(),
		"quality", opts.Quality().String(), "format", opts.Format().String())
	return images, nil
}

func renderPage(sess pdfrenderer.Session, pageNr int, opts *options.Rendering) (*image.NRGBA, error) {
	pageWidth, pageHeight, err := sess.PageSize(pageNr - 1)
	if err != nil {
		return nil, err
	}
	if pageWidth <= 0 || pageHeight <= 0 {
		return nil, fmt.Errorf("page %d has an empty media box (%vx%v)", pageNr, pageWidth, pageHeight)
	}

	width, height := CanvasSize(pageWidth, pageHeight, opts.TargetWidth())
	img, err := sess.RenderPage(pageNr-1, width, height)
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		img = imaging.Resize(img, width, height, imaging.Lanczos)
	}

	canvas := imaging.New(width, height, opts.Background())
	return imaging.Overlay(canvas, img, image.Pt(0, 0), 1.0), nil
}

// CanvasSize returns the pixel size of a pageWidth x pageHeight page scaled to
// targetWidth pixels wide. Neither side is smaller than one pixel.
func CanvasSize(pageWidth, pageHeight, targetWidth float64) (int, int) {
	scale := targetWidth / pageWidth
	width := int(math.Round(pageWidth * scale))
	height := int(math.Round(pageHeight * scale))
	return max(width, 1), max(height, 1)
}

// Encode writes img in format. rate is the 1-100 compression rate. For JPEG
// it is the quality and trades size for fidelity. PNG output is lossless at
// every rate; the rate only picks the zlib effort, and less effort does not
// guarantee a larger file.
func Encode(img image.Image, format options.Format, rate int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case options.PNG:
		err = imaging.Encode(&buf, img, imaging.PNG, imaging.PNGCompressionLevel(pngLevel(rate)))
	case options.JPEG:
		err = imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(rate))
	default:
		return nil, pdferr.Invalid("Format", format, "one of png, jpeg")
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pngLevel spends more zlib effort on lower rates.
func pngLevel(rate int) png.CompressionLevel {
	switch {
	case rate >= 100:
		return png.BestSpeed
	case rate >= 75:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
