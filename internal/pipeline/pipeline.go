// Package pipeline runs the guide extraction: for every configured PDF it
// collects the page texts, parses them into rows and finally writes all rows
// to one CSV file.
//
// Documents and pages are processed strictly one after another. A document
// that cannot be read is skipped and a page that cannot be recognized is
// empty; only failing to write the export fails the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pokedata/internal/guide"
	"pokedata/internal/logger"
)

// Result summarizes a finished run.
type Result struct {
	// Rows holds every exported row in document, then segment, order.
	Rows []guide.Row

	// Processed counts the documents that produced rows.
	Processed int

	// Skipped lists the documents that were reported and left out.
	Skipped []*DocumentError

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Pipeline turns guide PDFs into export rows.
type Pipeline struct {
	source TextSource
}

// New creates a pipeline reading page text from source.
func New(source TextSource) *Pipeline {
	return &Pipeline{source: source}
}

// Run processes every document in cfg and writes the rows to cfg.Output.
// Per-document failures are logged and recorded in the result. The returned
// error is non-nil only for an invalid configuration, cancellation, or a
// failure to write the output.
func (p *Pipeline) Run(ctx context.Context, cfg Config) (*Result, error) {
	const op = "Run"
	log := componentLogger(ctx)
	start := time.Now()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}
	for i, doc := range cfg.Documents {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: canceled before document %d: %w", op, i+1, err)
		}

		log.Info().
			Str("file", doc.Path).
			Str("game_title", doc.GameTitle).
			Int("document", i+1).
			Int("documents", len(cfg.Documents)).
			Msg("Processing document")

		rows, err := p.ProcessDocument(ctx, doc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%s: canceled during %s: %w", op, doc.Path, ctx.Err())
			}
			var docErr *DocumentError
			if !errors.As(err, &docErr) {
				docErr = &DocumentError{Path: doc.Path, Err: err}
			}
			log.Error().
				Err(err).
				Str("file", doc.Path).
				Msg("Skipping document")
			result.Skipped = append(result.Skipped, docErr)
			continue
		}

		result.Rows = append(result.Rows, rows...)
		result.Processed++
	}

	if err := WriteOutput(cfg.Output, result.Rows); err != nil {
		log.Error().
			Err(err).
			Str("output", cfg.Output).
			Msg("Failed to write output")
		return nil, err
	}

	result.Duration = time.Since(start)
	log.Info().
		Str("output", cfg.Output).
		Int("rows", len(result.Rows)).
		Int("processed", result.Processed).
		Int("skipped", len(result.Skipped)).
		Dur("duration", result.Duration).
		Msg("Dataset written")

	return result, nil
}

// ProcessDocument extracts the rows of a single document.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc Document) ([]guide.Row, error) {
	log := logger.WithDocument(componentLogger(ctx), doc.Path, doc.GameTitle)

	if err := validateDocument(doc.Path); err != nil {
		return nil, &DocumentError{Path: doc.Path, Err: err}
	}

	pages, err := p.source.PageTexts(ctx, doc.Path)
	if err != nil {
		return nil, &DocumentError{Path: doc.Path, Err: err}
	}

	rawText := strings.Join(pages, "\n")
	rows := guide.BuildRows(doc.GameTitle, doc.Region, rawText)

	log.Info().
		Int("pages", len(pages)).
		Int("text_length", len(rawText)).
		Int("segments", len(rows)).
		Msg("Document parsed")

	return rows, nil
}

// WriteOutput writes rows to a CSV file at path, creating parent directories.
// The file is written under a temporary name and renamed into place, so an
// existing export is only replaced by a complete one.
func WriteOutput(path string, rows []guide.Row) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: %v", ErrOutputFailed, err)
		}
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputFailed, err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	if err := guide.WriteCSV(f, rows); err != nil {
		f.Close()
		return fmt.Errorf("%w: %v", ErrOutputFailed, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputFailed, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputFailed, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputFailed, err)
	}
	return nil
}

// validateDocument checks that path names a readable, non-empty regular file.
func validateDocument(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrDocumentNotFound, path)
		}
		return fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: not a regular file: %s", ErrDocumentUnreadable, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: empty file: %s", ErrDocumentUnreadable, path)
	}
	return nil
}

func componentLogger(ctx context.Context) zerolog.Logger {
	return logger.WithContext(ctx).With().Str("component", "pipeline").Logger()
}
