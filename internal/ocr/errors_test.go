package ocr

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOCRError_Message(t *testing.T) {
	err := NewOCRError("Recognize", 3, ErrOCRFailed, "Vision API error: boom")
	assert.Equal(t, "ocr: Recognize (page 3) failed: Vision API error: boom: OCR processing failed", err.Error())

	err = NewOCRError("NewVisionRecognizer", 0, ErrMissingCredentials, "")
	assert.Equal(t, "ocr: NewVisionRecognizer failed: "+ErrMissingCredentials.Error(), err.Error())
}

func TestWrapOCRError(t *testing.T) {
	assert.NoError(t, WrapOCRError("Recognize", 1, nil, ""))

	wrapped := WrapOCRError("Recognize", 2, ErrEmptyImage, "")
	assert.ErrorIs(t, wrapped, ErrEmptyImage)

	var ocrErr *OCRError
	require.True(t, errors.As(wrapped, &ocrErr))
	assert.Equal(t, 2, ocrErr.Page)

	// already wrapped errors pass through unchanged
	assert.Same(t, ocrErr, WrapOCRError("Other", 9, wrapped, "ignored"))
}

func TestValidatePage(t *testing.T) {
	assert.ErrorIs(t, validatePage("Recognize", PageImage{Page: 1}), ErrEmptyImage)
	assert.ErrorIs(t, validatePage("Recognize", PageImage{Page: 1, Data: make([]byte, MaxImageSizeBytes+1)}), ErrImageTooLarge)
	assert.NoError(t, validatePage("Recognize", PageImage{Page: 1, Data: []byte{0x89, 'P', 'N', 'G'}}))
}

func TestRecognizersRejectEmptyPagesBeforeCallingTheAPI(t *testing.T) {
	ctx := context.Background()

	_, err := NewVisionRecognizerWithClient(nil, nil).Recognize(ctx, PageImage{Page: 4})
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = (&DocumentAIRecognizer{}).Recognize(ctx, PageImage{Page: 4})
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestNewDocumentAIRecognizer_RequiresProjectAndProcessor(t *testing.T) {
	_, err := NewDocumentAIRecognizer(context.Background(), DocumentAIConfig{ProcessorID: "abc"})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = NewDocumentAIRecognizer(context.Background(), DocumentAIConfig{ProjectID: "proj"})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestDocumentAIConfig_ProcessorName(t *testing.T) {
	cfg := DocumentAIConfig{ProjectID: "p", Location: "eu", ProcessorID: "x1"}
	assert.Equal(t, "projects/p/locations/eu/processors/x1", cfg.processorName())
}
