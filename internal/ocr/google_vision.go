package ocr

import (
	"context"
	"os"

	vision "cloud.google.com/go/vision/v2/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"
	"google.golang.org/api/option"
)

// DefaultLanguageHint is passed to the provider when no hint is configured.
// Receipts from the supported marketplaces are English.
const DefaultLanguageHint = "en"

// GoogleVisionDetector implements TextDetector using the Google Cloud Vision API.
type GoogleVisionDetector struct {
	client       *vision.ImageAnnotatorClient
	languageHint string
}

// NewGoogleVisionDetector creates a detector with credentials from environment.
// It expects either GOOGLE_APPLICATION_CREDENTIALS path or GOOGLE_CREDENTIALS JSON in env.
func NewGoogleVisionDetector(ctx context.Context, languageHint string) (TextDetector, error) {
	const op = "NewGoogleVisionDetector"

	var client *vision.ImageAnnotatorClient
	var err error

	// Check for inline credentials first
	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_CREDENTIALS")
		}
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		client, err = vision.NewImageAnnotatorClient(ctx, option.WithCredentialsFile(credFile))
		if err != nil {
			return nil, WrapOCRError(op, err, "failed to create client with GOOGLE_APPLICATION_CREDENTIALS")
		}
	} else {
		// Try default credentials as fallback
		client, err = vision.NewImageAnnotatorClient(ctx)
		if err != nil {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
	}

	return NewGoogleVisionDetectorWithClient(client, languageHint), nil
}

// NewGoogleVisionDetectorWithClient creates a detector with an explicit client (for testing).
func NewGoogleVisionDetectorWithClient(client *vision.ImageAnnotatorClient, languageHint string) TextDetector {
	if languageHint == "" {
		languageHint = DefaultLanguageHint
	}
	return &GoogleVisionDetector{
		client:       client,
		languageHint: languageHint,
	}
}

// Detect runs DOCUMENT_TEXT_DETECTION on one image.
func (g *GoogleVisionDetector) Detect(ctx context.Context, imageData []byte) (*Result, error) {
	const op = "Detect"

	if len(imageData) == 0 {
		return nil, WrapOCRError(op, ErrEmptyImage, "")
	}

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{
			{
				Image: &visionpb.Image{
					Content: imageData,
				},
				Features: []*visionpb.Feature{
					{
						Type: visionpb.Feature_DOCUMENT_TEXT_DETECTION,
					},
				},
				ImageContext: &visionpb.ImageContext{
					LanguageHints: []string{g.languageHint},
				},
			},
		},
	}

	resp, err := g.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return nil, WrapOCRError(op, ErrDetectionFailed, err.Error())
	}

	if len(resp.GetResponses()) == 0 {
		return nil, WrapOCRError(op, ErrDetectionFailed, "no response from Vision API")
	}

	annotation := resp.GetResponses()[0]
	if annotation.GetError() != nil {
		return nil, WrapOCRError(op, ErrDetectionFailed, annotation.GetError().GetMessage())
	}

	return parseAnnotation(annotation), nil
}

// Close closes the underlying Vision client.
func (g *GoogleVisionDetector) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}
