// Package ocr provides document text detection for receipt images using
// Google Cloud backends.
//
// Two detector implementations are available behind the TextDetector
// interface: the Cloud Vision API (default) and a Document AI OCR processor.
// Both request full-page structural annotation and reduce the response to a
// linear text rendering plus per-block vertical positions, which the scan
// engine needs to stitch overlapping image bands back together.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// The Document AI detector additionally requires GOOGLE_CLOUD_PROJECT and
// DOCUMENT_AI_PROCESSOR_ID (see internal/config).
package ocr

import "context"

// TextDetector extracts text from a single self-contained raster image.
type TextDetector interface {
	// Detect runs document text detection on one image and returns its
	// linear text plus per-block geometry. Coordinates in the result are
	// local to the supplied image.
	Detect(ctx context.Context, imageData []byte) (*Result, error)

	// Close releases the underlying provider client.
	Close() error
}

// TextBlock is one provider-identified paragraph or region. MinY and MaxY
// are the extreme vertical coordinates of its bounding polygon, in pixels
// local to the image the block was detected on.
type TextBlock struct {
	Text string `json:"text"`
	MinY int    `json:"min_y"`
	MaxY int    `json:"max_y"`
}

// Result is the reduced outcome of one detection call.
type Result struct {
	// Text is the provider's best linear rendering of the image,
	// block texts joined with newlines when structure was available.
	Text string `json:"text"`

	// Blocks are sorted ascending by MinY. Empty when the provider
	// returned only a flat text annotation.
	Blocks []TextBlock `json:"blocks,omitempty"`
}
