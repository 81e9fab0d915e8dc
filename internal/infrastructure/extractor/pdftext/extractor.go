// Package pdftext extracts plain text from PDF bytes.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/ballotline/manifesto-qa/internal/core/domain"
)

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract reads the whole document and concatenates per-page text joined
// with newlines. Malformed input fails with a typed extraction error.
func (e *Extractor) Extract(ctx context.Context, r io.Reader) (string, int, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", 0, fmt.Errorf("read pdf bytes: %w", err)
	}
	if len(raw) == 0 {
		return "", 0, domain.WrapError(domain.ErrInvalidInput, "extract pdf", fmt.Errorf("empty file"))
	}

	reader, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", 0, domain.WrapError(domain.ErrExtraction, "open pdf", err)
	}

	pageCount := reader.NumPage()
	var b strings.Builder
	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return "", 0, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", 0, domain.WrapError(domain.ErrExtraction, fmt.Sprintf("extract page %d", i), err)
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), pageCount, nil
}
