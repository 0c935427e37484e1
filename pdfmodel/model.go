// Package pdfmodel reads the PDF object graph with pdfcpu. It exposes the
// page tree, outline and named destinations in the shapes the bookmark and
// engine packages expect, and writes watermarked copies of a document.
package pdfmodel

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/drummonds/pdfire/bookmark"
	"github.com/drummonds/pdfire/pdferr"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// Logger is global since we will need it everywhere
var Logger = slog.Default()

func init() {
	// pdfcpu would otherwise create a config directory under the user's home.
	api.DisableConfigDir()
}

// NewConfiguration returns the pdfcpu configuration used for every read and
// write. Validation is relaxed so slightly broken real-world files still open.
func NewConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = true
	conf.WriteXRefStream = true
	return conf
}

// Session is one parsed document. It keeps its own copy of the input bytes
// and never modifies them.
type Session struct {
	data  []byte
	ctx   *model.Context
	dims  []types.Dim
	index bookmark.PageIndex
}

// Open parses data. Anything pdfcpu cannot read is reported as
// pdferr.ErrInvalidPDF.
func Open(data []byte) (s *Session, err error) {
	defer func() {
		if r := recover(); r != nil {
			s, err = nil, fmt.Errorf("%w: %v", pdferr.ErrInvalidPDF, r)
		}
	}()

	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("%w: missing %%PDF- header", pdferr.ErrInvalidPDF)
	}

	ctx, err := api.ReadContext(bytes.NewReader(data), NewConfiguration())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pdferr.ErrInvalidPDF, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("%w: %v", pdferr.ErrInvalidPDF, err)
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", pdferr.ErrInvalidPDF, err)
	}

	s = &Session{data: data, ctx: ctx, dims: dims}
	Logger.Debug("Parsed PDF", "pages", ctx.PageCount, "version", s.Version())
	return s, nil
}

// PageCount returns the number of pages in the page tree.
func (s *Session) PageCount() int {
	return s.ctx.PageCount
}

// PageSize returns the effective size in points of the 1-based page pageNr.
func (s *Session) PageSize(pageNr int) (float64, float64, error) {
	if err := pdferr.CheckPage(pageNr, s.PageCount()); err != nil {
		return 0, 0, err
	}
	if pageNr > len(s.dims) {
		return 0, 0, fmt.Errorf("no dimensions for page %d", pageNr)
	}
	d := s.dims[pageNr-1]
	return d.Width, d.Height, nil
}

// Version returns the header version, e.g. "1.7".
func (s *Session) Version() string {
	return s.ctx.VersionString()
}

// PageIndex maps each page object to its 1-based position. The page tree is
// walked once per session.
func (s *Session) PageIndex() (bookmark.PageIndex, error) {
	if s.index != nil {
		return s.index, nil
	}

	index := make(bookmark.PageIndex, s.PageCount())
	for pageNr := 1; pageNr <= s.PageCount(); pageNr++ {
		_, ref, _, err := s.ctx.PageDict(pageNr, false)
		if err != nil {
			return nil, fmt.Errorf("unable to read page %d: %w", pageNr, err)
		}
		if ref == nil {
			continue
		}
		index[bookmark.PageRef(ref.ObjectNumber.Value())] = pageNr
	}

	s.index = index
	return index, nil
}

// Bookmarks resolves the document outline. A document without an outline
// yields an empty, non-nil slice.
func (s *Session) Bookmarks() ([]bookmark.Node, error) {
	root, err := s.Outline()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return []bookmark.Node{}, nil
	}

	names, err := s.NamedDestinations()
	if err != nil {
		return nil, err
	}
	index, err := s.PageIndex()
	if err != nil {
		return nil, err
	}

	nodes, err := bookmark.ResolveTree(root, names, index)
	if err != nil {
		return nil, err
	}
	if nodes == nil {
		nodes = []bookmark.Node{}
	}
	return nodes, nil
}

// Close releases the parsed object graph.
func (s *Session) Close() error {
	s.ctx = nil
	s.dims = nil
	s.index = nil
	return nil
}
