package ocr

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"
)

// DocumentAIConfig holds settings for the Document AI detector.
type DocumentAIConfig struct {
	ProjectID   string
	Location    string // e.g., "us" or "eu"
	ProcessorID string
}

// DocumentAIDetector implements TextDetector using a Google Document AI
// OCR processor. It is an alternative to the Vision backend behind the
// same interface; band geometry and text reduction behave identically.
type DocumentAIDetector struct {
	client *documentai.DocumentProcessorClient
	config DocumentAIConfig
}

// NewDocumentAIDetector creates a detector with credentials from environment.
// Expects: GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS
func NewDocumentAIDetector(ctx context.Context, config DocumentAIConfig) (TextDetector, error) {
	const op = "NewDocumentAIDetector"

	if config.ProjectID == "" || config.ProcessorID == "" {
		return nil, WrapOCRError(op, ErrInvalidConfiguration, "Document AI requires a project ID and processor ID")
	}
	if config.Location == "" {
		config.Location = "us" // Default location
	}

	var clientOptions []option.ClientOption

	// Set regional endpoint if not us-central1
	if config.Location != "us" {
		endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", config.Location)
		clientOptions = append(clientOptions, option.WithEndpoint(endpoint))
	}

	if credJSON := os.Getenv("GOOGLE_CREDENTIALS"); credJSON != "" {
		clientOptions = append(clientOptions, option.WithCredentialsJSON([]byte(credJSON)))
	} else if credFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credFile != "" {
		clientOptions = append(clientOptions, option.WithCredentialsFile(credFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, clientOptions...)
	if err != nil {
		if len(clientOptions) == 0 {
			return nil, WrapOCRError(op, ErrMissingCredentials, "no credentials found in environment")
		}
		return nil, WrapOCRError(op, err, fmt.Sprintf("failed to create Document AI client for location: %s", config.Location))
	}

	return NewDocumentAIDetectorWithClient(client, config), nil
}

// NewDocumentAIDetectorWithClient creates a detector with an explicit client (for testing).
func NewDocumentAIDetectorWithClient(client *documentai.DocumentProcessorClient, config DocumentAIConfig) TextDetector {
	return &DocumentAIDetector{
		client: client,
		config: config,
	}
}

// Detect runs the OCR processor on one image.
func (d *DocumentAIDetector) Detect(ctx context.Context, imageData []byte) (*Result, error) {
	const op = "Detect"

	if len(imageData) == 0 {
		return nil, WrapOCRError(op, ErrEmptyImage, "")
	}

	req := &documentaipb.ProcessRequest{
		Name: fmt.Sprintf("projects/%s/locations/%s/processors/%s",
			d.config.ProjectID, d.config.Location, d.config.ProcessorID),
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  imageData,
				MimeType: http.DetectContentType(imageData),
			},
		},
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, WrapOCRError(op, ErrDetectionFailed, err.Error())
	}

	doc := resp.GetDocument()
	if doc == nil {
		return nil, WrapOCRError(op, ErrDetectionFailed, "no document in Document AI response")
	}

	return reduceDocument(doc), nil
}

// Close closes the underlying Document AI client.
func (d *DocumentAIDetector) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}

// reduceDocument converts a Document AI response to a Result, preferring
// per-block layout and falling back to the flat document text.
func reduceDocument(doc *documentaipb.Document) *Result {
	var blocks []TextBlock
	for _, page := range doc.GetPages() {
		for _, block := range page.GetBlocks() {
			layout := block.GetLayout()
			text := strings.TrimRight(anchorText(doc.GetText(), layout.GetTextAnchor()), "\n")
			if strings.TrimSpace(text) == "" {
				continue
			}
			minY, maxY := layoutBounds(layout)
			blocks = append(blocks, TextBlock{
				Text: text,
				MinY: minY,
				MaxY: maxY,
			})
		}
	}

	if len(blocks) > 0 {
		sort.SliceStable(blocks, func(i, j int) bool {
			return blocks[i].MinY < blocks[j].MinY
		})
		texts := make([]string, len(blocks))
		for i, b := range blocks {
			texts[i] = b.Text
		}
		return &Result{
			Text:   strings.Join(texts, "\n"),
			Blocks: blocks,
		}
	}

	return &Result{Text: doc.GetText()}
}

// anchorText resolves a layout's text anchor segments against the full
// document text.
func anchorText(fullText string, anchor *documentaipb.Document_TextAnchor) string {
	if anchor == nil {
		return ""
	}
	var b strings.Builder
	for _, segment := range anchor.GetTextSegments() {
		start := int(segment.GetStartIndex())
		end := int(segment.GetEndIndex())
		if start < 0 || end > len(fullText) || start >= end {
			continue
		}
		b.WriteString(fullText[start:end])
	}
	return b.String()
}

// layoutBounds returns the minimum and maximum Y coordinate among a layout's
// bounding polygon vertices.
func layoutBounds(layout *documentaipb.Document_Page_Layout) (minY, maxY int) {
	vertices := layout.GetBoundingPoly().GetVertices()
	if len(vertices) == 0 {
		return 0, 0
	}
	minY = int(vertices[0].GetY())
	maxY = minY
	for _, v := range vertices[1:] {
		y := int(v.GetY())
		if y < minY {
			minY = y
		}
		if y > maxY {
			maxY = y
		}
	}
	return minY, maxY
}
