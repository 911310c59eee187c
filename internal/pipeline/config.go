package pipeline

import (
	"fmt"

	"pokedata/internal/ocr"
)

// DefaultOutput is the export file written when none is configured.
const DefaultOutput = "complete_dataset.csv"

// Document names one guide PDF and the game it covers. Title and region are
// supplied by the caller, never derived from the PDF.
type Document struct {
	Path      string `mapstructure:"path" yaml:"path"`
	GameTitle string `mapstructure:"game_title" yaml:"game_title"`
	Region    string `mapstructure:"region" yaml:"region"`
}

// Config is everything one extraction run needs.
type Config struct {
	// Documents are processed in order; their rows are exported in the same order.
	Documents []Document `mapstructure:"documents" yaml:"documents"`

	// Output is the CSV file written at the end of the run.
	Output string `mapstructure:"output" yaml:"output"`

	// DPI is the page rasterization resolution.
	DPI int `mapstructure:"dpi" yaml:"dpi"`

	// Engine selects the page text source: tesseract, vision, documentai or textlayer.
	Engine string `mapstructure:"engine" yaml:"engine"`

	// Languages are recognition language hints (e.g. "eng" for Tesseract, "en" for Vision).
	Languages []string `mapstructure:"languages" yaml:"languages,omitempty"`

	// SheetURL optionally names a Google Sheet that also receives the rows.
	SheetURL string `mapstructure:"sheet_url" yaml:"sheet_url,omitempty"`

	// SheetName is the worksheet used with SheetURL.
	SheetName string `mapstructure:"sheet_name" yaml:"sheet_name,omitempty"`
}

// DefaultConfig returns the settings of a run with no manifest.
func DefaultConfig() Config {
	return Config{
		Output:    DefaultOutput,
		DPI:       ocr.DefaultDPI,
		Engine:    ocr.EngineTesseract,
		SheetName: "Guide",
	}
}

// Validate checks that the configuration can drive a run.
func (c Config) Validate() error {
	if len(c.Documents) == 0 {
		return fmt.Errorf("%w: no documents configured", ErrInvalidConfig)
	}
	for i, doc := range c.Documents {
		if doc.Path == "" {
			return fmt.Errorf("%w: document %d has no path", ErrInvalidConfig, i+1)
		}
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidConfig)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("%w: dpi must be positive, got %d", ErrInvalidConfig, c.DPI)
	}
	switch c.Engine {
	case ocr.EngineTesseract, ocr.EngineVision, ocr.EngineDocumentAI, ocr.EngineTextLayer:
	default:
		return fmt.Errorf("%w: %q", ocr.ErrUnknownEngine, c.Engine)
	}
	return nil
}
