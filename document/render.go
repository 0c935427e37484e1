package document

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/drummonds/pdfire/engine"
	"github.com/drummonds/pdfire/engine/pdfrenderer"
	"github.com/drummonds/pdfire/options"
	"github.com/drummonds/pdfire/pdferr"
)

// withRenderer runs fn against a fresh rendering session. Without an injected
// renderer a backend of the configured kind is created for this call only.
func (d *Document) withRenderer(fn func(pdfrenderer.Session) error) error {
	if err := d.check(); err != nil {
		return err
	}

	r := d.renderer
	if r == nil {
		created, err := d.newRenderer(d.rendererKind)
		if err != nil {
			return fmt.Errorf("unable to start %s renderer: %w", d.rendererKind, err)
		}
		defer created.Close()
		r = created
	}

	sess, err := r.Open(d.data)
	if err != nil {
		return fmt.Errorf("%w: %v", pdferr.ErrInvalidPDF, err)
	}
	defer sess.Close()
	return fn(sess)
}

func (d *Document) renderingOptions(opts *options.Rendering) *options.Rendering {
	if opts == nil {
		return d.rendering
	}
	return opts
}

// RenderPages rasterizes the 1-based pages, in the order given, and returns
// one encoded image per page. A page outside the document fails the whole
// call with pdferr.ErrPageOutOfRange before anything is rendered. Nil opts
// means the document defaults.
func (d *Document) RenderPages(pages []int, opts *options.Rendering) ([][]byte, error) {
	opts = d.renderingOptions(opts)

	var images [][]byte
	err := d.withRenderer(func(sess pdfrenderer.Session) error {
		var err error
		images, err = engine.RenderPages(sess, pages, opts)
		return err
	})
	if err != nil {
		return nil, err
	}

	d.logger.Debug("Pages rendered", "pages", len(images), "quality", opts.Quality().String())
	return images, nil
}

// RenderRange renders pages start through end inclusive.
func (d *Document) RenderRange(start, end int, opts *options.Rendering) ([][]byte, error) {
	pages, err := pdferr.PageRange(start, end)
	if err != nil {
		return nil, err
	}
	return d.RenderPages(pages, opts)
}

// RenderImages is RenderPages with the results decoded.
func (d *Document) RenderImages(pages []int, opts *options.Rendering) ([]image.Image, error) {
	encoded, err := d.RenderPages(pages, opts)
	if err != nil {
		return nil, err
	}

	images := make([]image.Image, len(encoded))
	for i, data := range encoded {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("unable to decode rendered page %d: %w", pages[i], err)
		}
		images[i] = img
	}
	return images, nil
}

// RenderToFiles renders pages and writes each one to
// fmt.Sprintf(pattern, pageNumber). It returns the paths written.
func (d *Document) RenderToFiles(pattern string, pages []int, opts *options.Rendering) ([]string, error) {
	if strings.Count(pattern, "%d") != 1 {
		return nil, pdferr.Invalid("Pattern", pattern, "a path with exactly one %d")
	}

	encoded, err := d.RenderPages(pages, opts)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(encoded))
	for i, data := range encoded {
		path := fmt.Sprintf(pattern, pages[i])
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("unable to write page %d: %w", pages[i], err)
		}
		paths[i] = path
	}

	d.logger.Info("Pages written", "pages", len(paths), "pattern", pattern)
	return paths, nil
}
