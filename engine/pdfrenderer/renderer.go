package pdfrenderer

import (
	"fmt"
	"image"
	"strings"
)

// Renderer names accepted by New.
const (
	KindPDFium = "pdfium"
	KindFitz   = "fitz"
)

// Renderer defines the interface for PDF to image conversion
type Renderer interface {
	// Open starts a read-only rasterization session over an in-memory PDF.
	// The session must be closed before data is modified.
	Open(data []byte) (Session, error)

	// Close cleans up any resources used by the renderer
	Close() error
}

// Session is one document opened by a Renderer. Page indexes are 0-based.
type Session interface {
	PageCount() int

	// PageSize returns the page size in points.
	PageSize(pageIndex int) (width, height float64, err error)

	// RenderPage rasterizes a page at width x height pixels. Backends may be
	// off by a pixel; callers resize when exact dimensions matter.
	RenderPage(pageIndex, width, height int) (image.Image, error)

	Close() error
}

// NewRenderer creates a new PDFium-based PDF renderer (pure Go, no CGo)
func NewRenderer() (Renderer, error) {
	r, err := NewPDFiumRenderer()
	if err != nil {
		return nil, err
	}
	return r, nil
}

// New creates the renderer called kind, or the default one when kind is empty.
func New(kind string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindPDFium:
		return NewRenderer()
	case KindFitz:
		r, err := NewFitzRenderer()
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q (want %s or %s)", kind, KindPDFium, KindFitz)
	}
}
