// Package receipt turns an arbitrarily tall receipt image into a single
// ordered plain-text transcript.
//
// The text detection backend accepts images only up to a bounded height per
// request. Images within that bound are sent as-is (the single-shot path).
// Taller images are partitioned into overlapping horizontal bands, each band
// is detected independently and in order, and the per-band results are
// stitched back together: text re-detected inside the overlap between two
// consecutive bands appears once in the transcript, rendered by the later
// band.
//
// The pipeline is strictly sequential per job. No state is shared between
// jobs; each Scan call owns its image and intermediate buffers.
package receipt

import "receiptscan/internal/ocr"

// Dimensions describe a decoded image. Format is advisory metadata only.
type Dimensions struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Band is one full-width horizontal slice of the source image.
type Band struct {
	Index   int `json:"index"`
	YOffset int `json:"y_offset"`
	Height  int `json:"height"`
}

// BandResult pairs a band with the text detected on it. Block coordinates
// are translated to source-image space (band-local Y plus the band's offset).
type BandResult struct {
	Band
	Text   string          `json:"text"`
	Blocks []ocr.TextBlock `json:"blocks,omitempty"`
}

// Transcript is the final result of one scan job.
type Transcript struct {
	Text       string     `json:"text"`
	Dimensions Dimensions `json:"dimensions"`
	Chunked    bool       `json:"chunked"`
}

// Options carry the chunking thresholds. All three must come from
// configuration; the algorithm treats them as opaque pixel counts.
type Options struct {
	// SingleShotMaxHeight is the tallest image sent to the provider in
	// one request. Anything taller takes the chunked path.
	SingleShotMaxHeight int

	// BandHeight is the height of each band on the chunked path.
	BandHeight int

	// BandOverlap is the number of pixel rows shared by consecutive
	// bands. Must be smaller than BandHeight.
	BandOverlap int
}

// newBandResult translates a detection result into source-image coordinates.
func newBandResult(band Band, res *ocr.Result) BandResult {
	br := BandResult{
		Band: band,
		Text: res.Text,
	}
	if len(res.Blocks) > 0 {
		br.Blocks = make([]ocr.TextBlock, len(res.Blocks))
		for i, b := range res.Blocks {
			br.Blocks[i] = ocr.TextBlock{
				Text: b.Text,
				MinY: b.MinY + band.YOffset,
				MaxY: b.MaxY + band.YOffset,
			}
		}
	}
	return br
}
