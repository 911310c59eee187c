package ocr

import (
	"errors"
	"fmt"
)

// Common OCR processing errors
var (
	// ErrImageTooLarge is returned when a page image exceeds MaxImageSizeBytes.
	ErrImageTooLarge = errors.New("page image exceeds the maximum size (20MB)")

	// ErrEmptyImage is returned when a page image carries no data.
	ErrEmptyImage = errors.New("page image is empty")

	// ErrOCRFailed is returned when the recognition engine fails to process a page.
	ErrOCRFailed = errors.New("OCR processing failed")

	// ErrMissingCredentials is returned when neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS environment variables are configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrInvalidConfiguration is returned when a cloud engine lacks project or processor settings.
	ErrInvalidConfiguration = errors.New("invalid OCR engine configuration")

	// ErrUnknownEngine is returned for engine names that no recognizer implements.
	ErrUnknownEngine = errors.New("unknown OCR engine")
)

// OCRError wraps errors with additional context about the OCR processing failure.
type OCRError struct {
	// Op is the operation that failed (e.g., "Recognize", "NewVisionRecognizer").
	Op string

	// Page is the 1-based page number, or 0 when the failure is not page specific.
	Page int

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *OCRError) Error() string {
	op := e.Op
	if e.Page > 0 {
		op = fmt.Sprintf("%s (page %d)", e.Op, e.Page)
	}
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewOCRError creates a new OCRError with the specified operation and underlying error.
func NewOCRError(op string, page int, err error, details string) *OCRError {
	return &OCRError{
		Op:      op,
		Page:    page,
		Err:     err,
		Details: details,
	}
}

// WrapOCRError wraps an error as an OCRError if it isn't already one.
func WrapOCRError(op string, page int, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err
	}

	return NewOCRError(op, page, err, details)
}

// validatePage rejects page images a cloud engine cannot accept.
func validatePage(op string, page PageImage) error {
	if len(page.Data) == 0 {
		return WrapOCRError(op, page.Page, ErrEmptyImage, "")
	}
	if len(page.Data) > MaxImageSizeBytes {
		return WrapOCRError(op, page.Page, ErrImageTooLarge, fmt.Sprintf("image size: %d bytes", len(page.Data)))
	}
	return nil
}
