// Package pdftext extracts plain text from result PDFs, one string per page.
// Extraction quality is whatever the library gives us; downstream parsing is
// line-oriented and best effort anyway.
package pdftext

import (
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Pages returns the plain text of every page in the PDF at path. A page that
// fails to extract yields an empty string rather than failing the document.
func Pages(path string) ([]string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening PDF: %w", err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, text)
	}

	return pages, nil
}
