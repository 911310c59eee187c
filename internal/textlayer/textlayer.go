// Package textlayer reads the embedded text layer of a PDF page by page. It
// is a cheap alternative to OCR for guides that were exported digitally
// rather than scanned.
package textlayer

import (
	"context"
	"fmt"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/rs/zerolog"

	"pokedata/internal/logger"
)

// Source extracts per-page text from a PDF's text layer.
type Source struct {
	log zerolog.Logger
}

// New creates a text-layer source.
func New() *Source {
	return &Source{log: logger.WithComponent("textlayer")}
}

// PageTexts returns one string per page, in page order. A page without a
// text layer, or one that fails to decode, contributes an empty string.
func (s *Source) PageTexts(ctx context.Context, path string) ([]string, error) {
	const op = "PageTexts"

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open PDF: %w", op, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	texts := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			s.log.Warn().
				Err(err).
				Str("file", path).
				Int("page", i).
				Msg("Failed to read text layer, using empty page")
			texts = append(texts, "")
			continue
		}
		texts = append(texts, text)
	}

	return texts, nil
}
