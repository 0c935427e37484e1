package pdfrenderer

import (
	"fmt"
	"image"
	"time"

	"github.com/disintegration/imaging"
	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
)

// PDFiumRenderer implements PDF rendering using go-pdfium with WebAssembly (pure Go, no CGo)
type PDFiumRenderer struct {
	pool     pdfium.Pool
	instance pdfium.Pdfium
}

// NewPDFiumRenderer creates a new PDFium-based PDF renderer using WebAssembly
func NewPDFiumRenderer() (*PDFiumRenderer, error) {
	// Documents are used from one goroutine at a time, so a single worker is enough
	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1, // Minimum idle workers
		MaxIdle:  1, // Maximum idle workers
		MaxTotal: 1, // Total worker limit
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PDFium WebAssembly: %w", err)
	}

	// Get a PDFium instance from the pool
	instance, err := pool.GetInstance(time.Second * 30)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to get PDFium instance: %w", err)
	}

	return &PDFiumRenderer{
		pool:     pool,
		instance: instance,
	}, nil
}

// Open loads the PDF into the PDFium instance
func (r *PDFiumRenderer) Open(data []byte) (Session, error) {
	if r.instance == nil {
		return nil, fmt.Errorf("PDFium renderer is closed")
	}

	doc, err := r.instance.OpenDocument(&requests.OpenDocument{
		File: &data,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open PDF document: %w", err)
	}

	pageCountResp, err := r.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: doc.Document,
	})
	if err != nil {
		r.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
			Document: doc.Document,
		})
		return nil, fmt.Errorf("unable to get page count: %w", err)
	}

	return &pdfiumSession{
		instance:  r.instance,
		document:  doc.Document,
		pageCount: pageCountResp.PageCount,
	}, nil
}

// Close cleans up resources used by the PDFium renderer
func (r *PDFiumRenderer) Close() error {
	if r.pool != nil {
		r.pool.Close()
		r.pool = nil
	}
	r.instance = nil
	return nil
}

type pdfiumSession struct {
	instance  pdfium.Pdfium
	document  references.FPDF_DOCUMENT
	pageCount int
}

func (s *pdfiumSession) page(pageIndex int) requests.Page {
	return requests.Page{
		ByIndex: &requests.PageByIndex{
			Document: s.document,
			Index:    pageIndex,
		},
	}
}

func (s *pdfiumSession) PageCount() int {
	return s.pageCount
}

func (s *pdfiumSession) PageSize(pageIndex int) (float64, float64, error) {
	size, err := s.instance.GetPageSize(&requests.GetPageSize{
		Page: s.page(pageIndex),
	})
	if err != nil {
		return 0, 0, fmt.Errorf("unable to get size of page %d: %w", pageIndex, err)
	}
	return size.Width, size.Height, nil
}

func (s *pdfiumSession) RenderPage(pageIndex, width, height int) (image.Image, error) {
	pageRender, err := s.instance.RenderPageInPixels(&requests.RenderPageInPixels{
		Page:        s.page(pageIndex),
		Width:       width,
		Height:      height,
		RenderFlags: enums.FPDF_RENDER_FLAG_LCD_TEXT,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to render page %d: %w", pageIndex, err)
	}

	// The pixels live in WebAssembly memory until Cleanup, copy them out first
	img := imaging.Clone(pageRender.Result.Image)
	pageRender.Cleanup()

	return img, nil
}

func (s *pdfiumSession) Close() error {
	_, err := s.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: s.document,
	})
	return err
}
