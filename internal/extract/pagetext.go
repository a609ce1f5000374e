// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// PageTexts produces the per-page plain text of a document, in page order.
// The pipeline depends on this interface so tests can substitute canned
// pages without real PDFs.
type PageTexts interface {
	// Pages reads the document at path and returns one string per page.
	// A document with zero pages returns an empty slice and no error.
	Pages(path string) ([]string, error)
}

// PDFReader extracts page text with the ledongthuc/pdf library.
type PDFReader struct{}

// Pages implements PageTexts.
func (PDFReader) Pages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF %s: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	pages := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extracting text from %s page %d: %w", path, i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}
