package ocr

import (
	"context"
	"fmt"
	"os"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// VisionRecognizer implements Recognizer using Google Cloud Vision API.
type VisionRecognizer struct {
	client    *vision.ImageAnnotatorClient
	languages []string
}

// credentialOptions returns client options for the credentials configured in
// the environment. Inline JSON wins over a credentials file; with neither the
// client falls back to Application Default Credentials.
func credentialOptions() []option.ClientOption {
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(credJSON))}
	}
	if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		return []option.ClientOption{option.WithCredentialsFile(credFile)}
	}
	return nil
}

// NewVisionRecognizer creates a Vision recognizer with credentials from environment.
// Languages are passed to the API as hints and may be empty.
func NewVisionRecognizer(ctx context.Context, languages []string) (*VisionRecognizer, error) {
	const op = "NewVisionRecognizer"

	opts := credentialOptions()
	client, err := vision.NewImageAnnotatorClient(ctx, opts...)
	if err != nil {
		if len(opts) == 0 {
			return nil, WrapOCRError(op, 0, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, 0, err, "failed to create Vision client")
	}

	return NewVisionRecognizerWithClient(client, languages), nil
}

// NewVisionRecognizerWithClient creates a recognizer with an explicit client (for testing).
func NewVisionRecognizerWithClient(client *vision.ImageAnnotatorClient, languages []string) *VisionRecognizer {
	return &VisionRecognizer{
		client:    client,
		languages: append([]string(nil), languages...),
	}
}

// Recognize runs document text detection on one page image.
func (v *VisionRecognizer) Recognize(ctx context.Context, page PageImage) (string, error) {
	const op = "Recognize"

	if err := validatePage(op, page); err != nil {
		return "", err
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{Content: page.Data},
				Features: []*visionpb.Feature{
					{Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION},
				},
				ImageContext: &visionpb.ImageContext{LanguageHints: v.languages},
			},
		},
	}

	resp, err := v.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return "", WrapOCRError(op, page.Page, ErrOCRFailed, fmt.Sprintf("Vision API call failed: %v", err))
	}
	if len(resp.Responses) == 0 {
		return "", WrapOCRError(op, page.Page, ErrOCRFailed, "no response from Vision API")
	}

	imgResp := resp.Responses[0]
	if imgResp.Error != nil {
		return "", WrapOCRError(op, page.Page, ErrOCRFailed, fmt.Sprintf("Vision API error: %s", imgResp.Error.Message))
	}
	if imgResp.FullTextAnnotation == nil {
		return "", nil
	}
	return imgResp.FullTextAnnotation.Text, nil
}

// Close closes the underlying Vision client.
func (v *VisionRecognizer) Close() error {
	if v.client != nil {
		return v.client.Close()
	}
	return nil
}
