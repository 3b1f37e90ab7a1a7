package source

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmptyText is returned when a PDF yields no text at all, e.g. a scan.
var ErrEmptyText = errors.New("source: no extractable text")

// PDFPages extracts the plain text of every page.
func PDFPages(path string) (pages []string, err error) {
	// the reader panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("source: read pdf %s: %v", filepath.Base(path), r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("source: open pdf: %w", err)
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("source: page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return pages, nil
}

// PDFText joins the page texts, each followed by a newline.
func PDFText(path string) (string, error) {
	pages, err := PDFPages(path)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", ErrEmptyText
	}
	return b.String(), nil
}

// ExtractionFailed is the text that stands in for a document whose text
// could not be read.
func ExtractionFailed(name string) string {
	return fmt.Sprintf("[Original document: %s - text extraction failed]", filepath.Base(name))
}
