package document

import (
	"fmt"

	"github.com/drummonds/pdfire/engine"
	"github.com/drummonds/pdfire/options"
	"github.com/drummonds/pdfire/pdferr"
	"github.com/drummonds/pdfire/pdfmodel"
	"github.com/drummonds/pdfire/watermark"
)

// AddImageWatermark draws img on top of each of the 1-based pages and
// replaces the document content with the result. On error the document is
// left exactly as it was. An empty page list changes nothing. Nil opts means
// the document defaults.
//
// The previous content is discarded; callers that need it must keep a copy
// from Bytes first.
func (d *Document) AddImageWatermark(pages []int, img *watermark.Image, opts *options.Watermark) error {
	if err := d.check(); err != nil {
		return err
	}
	if img == nil {
		return fmt.Errorf("%w: no watermark image", pdferr.ErrInvalidImage)
	}
	if len(pages) == 0 {
		return nil
	}
	if opts == nil {
		opts = d.watermark
	}

	d.state = beingMutated
	defer func() { d.state = validated }()

	sess, err := pdfmodel.Open(d.data)
	if err != nil {
		return err
	}
	out, err := engine.ApplyWatermark(sess, pages, img, opts)
	sess.Close()
	if err != nil {
		return err
	}

	d.data = out
	d.version++
	d.logger.Info("Watermark applied", "pages", len(pages), "version", d.version, "bytes", len(out))
	return nil
}

// AddImageWatermarkRange watermarks pages start through end inclusive.
func (d *Document) AddImageWatermarkRange(start, end int, img *watermark.Image, opts *options.Watermark) error {
	pages, err := pdferr.PageRange(start, end)
	if err != nil {
		return err
	}
	return d.AddImageWatermark(pages, img, opts)
}
