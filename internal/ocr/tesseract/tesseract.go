// Package tesseract implements ocr.Recognizer on top of a local Tesseract
// installation through gosseract. It needs libtesseract and the trained data
// for the configured languages at build and run time.
package tesseract

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"pokedata/internal/ocr"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = "eng"

// Recognizer runs Tesseract on one page at a time.
type Recognizer struct {
	clientFactory func() *gosseract.Client
	languages     []string
}

// New constructs a Tesseract-backed recognizer.
func New(languages ...string) *Recognizer {
	if len(languages) == 0 {
		languages = []string{DefaultLanguage}
	}
	return &Recognizer{
		clientFactory: gosseract.NewClient,
		languages:     append([]string(nil), languages...),
	}
}

// Recognize performs OCR on a single page image. A fresh client per page
// keeps pages independent of each other.
func (r *Recognizer) Recognize(ctx context.Context, page ocr.PageImage) (string, error) {
	const op = "Recognize"

	if len(page.Data) == 0 {
		return "", ocr.WrapOCRError(op, page.Page, ocr.ErrEmptyImage, "")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := r.clientFactory()
	defer c.Close()

	if err := c.SetLanguage(r.languages...); err != nil {
		return "", ocr.WrapOCRError(op, page.Page, err, "set languages")
	}
	if page.DPI > 0 {
		if err := c.SetVariable(gosseract.SettableVariable("user_defined_dpi"), fmt.Sprint(page.DPI)); err != nil {
			return "", ocr.WrapOCRError(op, page.Page, err, "set dpi")
		}
	}
	if err := c.SetImageFromBytes(page.Data); err != nil {
		return "", ocr.WrapOCRError(op, page.Page, err, "set image")
	}

	text, err := c.Text()
	if err != nil {
		return "", ocr.WrapOCRError(op, page.Page, ocr.ErrOCRFailed, fmt.Sprintf("recognize text: %v", err))
	}
	return text, nil
}

// Close is a no-op; clients are released after every page.
func (r *Recognizer) Close() error {
	return nil
}
