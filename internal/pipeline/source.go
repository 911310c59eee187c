package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"pokedata/internal/logger"
	"pokedata/internal/ocr"
)

// TextSource produces the text of each page of a document, in page order.
// An error means the whole document is unusable; a page that fails on its
// own is returned as an empty string.
type TextSource interface {
	PageTexts(ctx context.Context, path string) ([]string, error)
}

// Rasterizer renders PDF pages to bitmaps.
type Rasterizer interface {
	PageCount(ctx context.Context, path string) (int, error)
	RenderPage(ctx context.Context, path string, page, dpi int) (ocr.PageImage, error)
}

// OCRSource is a TextSource that rasterizes every page and runs it through a
// recognizer, one page at a time.
type OCRSource struct {
	rasterizer Rasterizer
	recognizer ocr.Recognizer
	dpi        int
	log        zerolog.Logger
}

// NewOCRSource combines a rasterizer and a recognizer. A non-positive dpi
// means ocr.DefaultDPI.
func NewOCRSource(rasterizer Rasterizer, recognizer ocr.Recognizer, dpi int) *OCRSource {
	if dpi <= 0 {
		dpi = ocr.DefaultDPI
	}
	return &OCRSource{
		rasterizer: rasterizer,
		recognizer: recognizer,
		dpi:        dpi,
		log:        logger.WithComponent("ocr-source"),
	}
}

// PageTexts implements TextSource.
func (s *OCRSource) PageTexts(ctx context.Context, path string) ([]string, error) {
	pageCount, err := s.rasterizer.PageCount(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}

	texts := make([]string, 0, pageCount)
	for page := 1; page <= pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		s.log.Info().
			Str("file", path).
			Int("page", page).
			Int("pages", pageCount).
			Msg("OCR processing page")

		text, err := s.pageText(ctx, path, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.Warn().
				Err(err).
				Str("file", path).
				Int("page", page).
				Msg("Page failed, using empty text")
			text = ""
		}
		texts = append(texts, text)
	}
	return texts, nil
}

func (s *OCRSource) pageText(ctx context.Context, path string, page int) (string, error) {
	img, err := s.rasterizer.RenderPage(ctx, path, page, s.dpi)
	if err != nil {
		return "", &PageError{Path: path, Page: page, Err: err}
	}
	text, err := s.recognizer.Recognize(ctx, img)
	if err != nil {
		return "", &PageError{Path: path, Page: page, Err: err}
	}
	return text, nil
}
