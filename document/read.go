package document

import (
	"github.com/drummonds/pdfire/bookmark"
	"github.com/drummonds/pdfire/pdferr"
	"github.com/drummonds/pdfire/pdfmodel"
)

// withModel runs fn against a fresh object-model session that is closed
// before returning.
func (d *Document) withModel(fn func(*pdfmodel.Session) error) error {
	if err := d.check(); err != nil {
		return err
	}
	sess, err := pdfmodel.Open(d.data)
	if err != nil {
		return err
	}
	defer sess.Close()
	return fn(sess)
}

// PageCount returns the number of pages.
func (d *Document) PageCount() (int, error) {
	var count int
	err := d.withModel(func(sess *pdfmodel.Session) error {
		count = sess.PageCount()
		return nil
	})
	return count, err
}

// Bookmarks returns the outline as a tree. Every call builds a new tree that
// belongs to the caller.
func (d *Document) Bookmarks() ([]bookmark.Node, error) {
	var nodes []bookmark.Node
	err := d.withModel(func(sess *pdfmodel.Session) error {
		var err error
		nodes, err = sess.Bookmarks()
		return err
	})
	if err != nil {
		return nil, err
	}
	d.logger.Debug("Bookmarks extracted", "top", len(nodes))
	return nodes, nil
}

// ExtractText returns the plain text of each of the 1-based pages, in the
// order given. No pages means every page.
func (d *Document) ExtractText(pages ...int) ([]string, error) {
	if len(pages) == 0 {
		count, err := d.PageCount()
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return []string{}, nil
		}
		if pages, err = pdferr.PageRange(1, count); err != nil {
			return nil, err
		}
	}
	if err := d.check(); err != nil {
		return nil, err
	}
	return pdfmodel.ExtractText(d.data, pages)
}
