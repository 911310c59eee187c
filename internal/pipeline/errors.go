package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when a run configuration cannot drive a run.
	ErrInvalidConfig = errors.New("invalid pipeline configuration")

	// ErrDocumentNotFound is returned when a configured PDF does not exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrDocumentUnreadable is returned when a configured PDF cannot be opened or paged.
	ErrDocumentUnreadable = errors.New("document unreadable")

	// ErrOutputFailed is returned when the export cannot be written. It is
	// the only error that fails a run.
	ErrOutputFailed = errors.New("failed to write output")
)

// DocumentError reports a document that was skipped.
type DocumentError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// PageError reports a page whose text could not be produced.
type PageError struct {
	Path string
	Page int
	Err  error
}

// Error implements the error interface.
func (e *PageError) Error() string {
	return fmt.Sprintf("document %s page %d: %v", e.Path, e.Page, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *PageError) Unwrap() error {
	return e.Err
}
