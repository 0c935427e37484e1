package pdfmodel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/drummonds/pdfire/pdferr"
	"github.com/ledongthuc/pdf"
)

// ExtractText returns the plain text of the 1-based pages, one string per
// page in the order given. Pages the extractor cannot decode yield an empty
// string rather than an error.
func ExtractText(data []byte, pages []int) (texts []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: text extraction failed: %v", pdferr.ErrInvalidPDF, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create PDF reader: %v", pdferr.ErrInvalidPDF, err)
	}
	if err := pdferr.CheckPages(pages, reader.NumPage()); err != nil {
		return nil, err
	}

	texts = make([]string, len(pages))
	for i, pageNum := range pages {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			Logger.Warn("Failed to extract text", "page", pageNum, "error", err)
			continue
		}
		texts[i] = strings.TrimSpace(text)
	}

	return texts, nil
}
