// Package ocr provides page-level text recognition for rasterized PDF pages.
//
// A Recognizer turns one page bitmap into plain text. Implementations:
//   - tesseract.Recognizer (subpackage): local Tesseract through gosseract, the default engine
//   - VisionRecognizer: Google Cloud Vision document text detection
//   - DocumentAIRecognizer: a Google Document AI OCR processor
//
// Cloud engines read credentials from the environment:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//   - GOOGLE_CLOUD_PROJECT, GOOGLE_CLOUD_LOCATION, DOCUMENT_AI_PROCESSOR_ID: Document AI only
//
// Recognition works one page at a time. Callers decide what a failed page
// means; the guide pipeline treats it as an empty page.
package ocr

import (
	"context"
)

const (
	// MaxImageSizeBytes is the largest page image sent to a cloud engine (20MB)
	MaxImageSizeBytes = 20 * 1024 * 1024

	// DefaultDPI is the rasterization resolution used when none is configured.
	DefaultDPI = 300

	// FormatPNG is the only page image format produced by the rasterizer.
	FormatPNG = "image/png"
)

// Engine names accepted by the CLI and the run manifest.
const (
	EngineTesseract  = "tesseract"
	EngineVision     = "vision"
	EngineDocumentAI = "documentai"
	EngineTextLayer  = "textlayer"
)

// PageImage is one rasterized PDF page.
type PageImage struct {
	// Page is the 1-based page number within its document.
	Page int

	// Data is the encoded image.
	Data []byte

	// Format is the MIME type of Data.
	Format string

	// DPI is the resolution the page was rendered at.
	DPI int
}

// Recognizer extracts text from a single page image.
type Recognizer interface {
	// Recognize returns the plain text found on the page. An empty page
	// yields an empty string and no error.
	Recognize(ctx context.Context, page PageImage) (string, error)

	// Close releases engine resources.
	Close() error
}
