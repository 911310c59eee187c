package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// DocumentAIConfig holds configuration for a Document AI OCR processor.
type DocumentAIConfig struct {
	// ProjectID is the Google Cloud project ID where Document AI is enabled.
	ProjectID string

	// Location is the processing location (e.g., "us", "eu").
	Location string

	// ProcessorID is the ID of an OCR processor (type OCR_PROCESSOR).
	ProcessorID string

	// Timeout bounds a single page request. Default: 60 seconds.
	Timeout time.Duration
}

// processorName returns the full resource name of the configured processor.
func (c DocumentAIConfig) processorName() string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", c.ProjectID, c.Location, c.ProcessorID)
}

// DocumentAIRecognizer implements Recognizer with a Document AI OCR processor.
type DocumentAIRecognizer struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
}

// NewDocumentAIRecognizer creates a recognizer for the configured processor,
// using credentials from the environment.
func NewDocumentAIRecognizer(ctx context.Context, config DocumentAIConfig) (*DocumentAIRecognizer, error) {
	const op = "NewDocumentAIRecognizer"

	if config.ProjectID == "" {
		return nil, WrapOCRError(op, 0, ErrInvalidConfiguration, "GOOGLE_CLOUD_PROJECT is required")
	}
	if config.ProcessorID == "" {
		return nil, WrapOCRError(op, 0, ErrInvalidConfiguration, "DOCUMENT_AI_PROCESSOR_ID is required")
	}
	if config.Location == "" {
		config.Location = "us"
	}
	if config.Timeout <= 0 {
		config.Timeout = 60 * time.Second
	}

	clientOptions := credentialOptions()
	hasCredentials := len(clientOptions) > 0
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if !hasCredentials {
			return nil, WrapOCRError(op, 0, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, 0, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return &DocumentAIRecognizer{client: client, config: config}, nil
}

// Recognize sends one page image to the OCR processor.
func (d *DocumentAIRecognizer) Recognize(ctx context.Context, page PageImage) (string, error) {
	const op = "Recognize"

	if err := validatePage(op, page); err != nil {
		return "", err
	}

	mimeType := page.Format
	if mimeType == "" {
		mimeType = FormatPNG
	}

	processCtx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{
		Name: d.config.processorName(),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  page.Data,
				MimeType: mimeType,
			},
		},
	}

	resp, err := d.client.ProcessDocument(processCtx, req)
	if err != nil {
		return "", WrapOCRError(op, page.Page, ErrOCRFailed, describeDocumentAIError(err))
	}
	if resp.Document == nil {
		return "", WrapOCRError(op, page.Page, ErrOCRFailed, "no document in response")
	}
	return resp.Document.Text, nil
}

// describeDocumentAIError turns common API failures into short messages.
func describeDocumentAIError(err error) string {
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "PERMISSION_DENIED"):
		return "insufficient permissions for Document AI"
	case strings.Contains(errStr, "QUOTA_EXCEEDED"), strings.Contains(errStr, "RESOURCE_EXHAUSTED"):
		return "Document AI API quota exceeded"
	case strings.Contains(errStr, "NOT_FOUND"):
		return "processor not found"
	case strings.Contains(errStr, "INVALID_ARGUMENT"):
		return "page image rejected by processor"
	default:
		return fmt.Sprintf("Document AI call failed: %v", err)
	}
}

// Close closes the underlying Document AI client.
func (d *DocumentAIRecognizer) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}
