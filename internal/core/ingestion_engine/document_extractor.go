package ingestion_engine

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/markdave123-py/resumeapp/internal/core"
)

var _ core.TextExtractor = (*PDFExtractor)(nil)

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText returns the trimmed plain text of every page that has any, in
// page order, each followed by a newline. Pages without extractable text are
// skipped. NUL characters are dropped since Postgres TEXT cannot hold them.
func (e *PDFExtractor) ExtractText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("%w: %v", ErrMalformedDocument, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	n := r.NumPage()
	if n == 0 {
		return "", fmt.Errorf("%w: document has no pages", ErrMalformedDocument)
	}

	var b strings.Builder
	for i := 1; i <= n; i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText, err := p.GetPlainText(nil)
		if err != nil {
			continue
		}
		// GetPlainText starts every page with a newline.
		pageText = strings.TrimSpace(strings.ReplaceAll(pageText, "\x00", ""))
		if pageText == "" {
			continue
		}
		b.WriteString(pageText)
		b.WriteString("\n")
	}
	return b.String(), nil
}
