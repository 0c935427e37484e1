package pdfrenderer

import (
	"bytes"
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// pointsPerInch is the resolution at which MuPDF reports page bounds.
const pointsPerInch = 72

// FitzRenderer implements PDF rendering using go-fitz (requires CGo and MuPDF)
type FitzRenderer struct {
}

// NewFitzRenderer creates a new Fitz-based PDF renderer
func NewFitzRenderer() (*FitzRenderer, error) {
	return &FitzRenderer{}, nil
}

// Open loads the PDF from memory with go-fitz
func (r *FitzRenderer) Open(data []byte) (Session, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document: %w", err)
	}
	return &fitzSession{doc: doc, sizes: cropSizes(data)}, nil
}

// cropSizes reads the visible page sizes in points with pdfcpu, since go-fitz
// only reports page bounds truncated to whole points. It returns nil when
// pdfcpu cannot read the document.
func cropSizes(data []byte) (sizes [][2]float64) {
	defer func() {
		if recover() != nil {
			sizes = nil
		}
	}()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	ctx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return nil
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil
	}
	boundaries, err := ctx.PageBoundaries(nil)
	if err != nil {
		return nil
	}

	sizes = make([][2]float64, len(boundaries))
	for i, pb := range boundaries {
		box := pb.CropBox()
		if box == nil {
			return nil
		}
		d := box.Dimensions()
		if pb.Rot%180 != 0 {
			d.Width, d.Height = d.Height, d.Width
		}
		sizes[i] = [2]float64{d.Width, d.Height}
	}
	return sizes
}

// Close cleans up resources (no-op for Fitz renderer as doc is closed per-session)
func (r *FitzRenderer) Close() error {
	return nil
}

type fitzSession struct {
	doc   *fitz.Document
	sizes [][2]float64
}

func (s *fitzSession) PageCount() int {
	return s.doc.NumPage()
}

func (s *fitzSession) PageSize(pageIndex int) (float64, float64, error) {
	if pageIndex >= 0 && pageIndex < len(s.sizes) && len(s.sizes) == s.doc.NumPage() {
		return s.sizes[pageIndex][0], s.sizes[pageIndex][1], nil
	}

	bound, err := s.doc.Bound(pageIndex)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to get size of page %d: %w", pageIndex, err)
	}
	return float64(bound.Dx()), float64(bound.Dy()), nil
}

// RenderPage renders at the DPI that makes the page width come out at width
// pixels. MuPDF antialiases text and graphics at its highest level by default.
func (s *fitzSession) RenderPage(pageIndex, width, height int) (image.Image, error) {
	pageWidth, _, err := s.PageSize(pageIndex)
	if err != nil {
		return nil, err
	}

	dpi := pointsPerInch * float64(width) / pageWidth
	img, err := s.doc.ImageDPI(pageIndex, dpi)
	if err != nil {
		return nil, fmt.Errorf("unable to render page %d: %w", pageIndex, err)
	}
	return img, nil
}

func (s *fitzSession) Close() error {
	return s.doc.Close()
}
