package receipt

import (
	"bytes"
	"context"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"receiptscan/internal/logger"
	"receiptscan/internal/ocr"
)

// Scanner orchestrates one scan job: inspect, then either a single direct
// detection call or the band pipeline (plan, extract, detect, merge).
type Scanner struct {
	detector ocr.TextDetector
	opts     Options
	log      zerolog.Logger
}

// NewScanner creates a scanner around a text detector.
func NewScanner(detector ocr.TextDetector, opts Options) *Scanner {
	return &Scanner{
		detector: detector,
		opts:     opts,
		log:      logger.WithComponent("scanner"),
	}
}

// ScanDataURI is Scan for a base64 data-URI payload.
func (s *Scanner) ScanDataURI(ctx context.Context, uri string) (*Transcript, error) {
	data, err := DecodeDataURI(uri)
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx, data)
}

// Scan produces a transcript for one receipt image.
//
// On the chunked path, a provider failure on one band is not fatal: the band
// contributes nothing and the job continues, so one bad band cannot void a
// whole multi-band scan. The loss is logged per band. On the single-shot
// path the same failure aborts the job, surfacing the provider's message.
func (s *Scanner) Scan(ctx context.Context, payload []byte) (*Transcript, error) {
	const op = "Scan"

	log := s.log.With().Str("job_id", uuid.NewString()).Logger()

	dims, err := Inspect(payload)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("width", dims.Width).
		Int("height", dims.Height).
		Str("format", dims.Format).
		Msg("Image inspected")

	if dims.Height <= s.opts.SingleShotMaxHeight {
		res, err := s.detector.Detect(ctx, payload)
		if err != nil {
			return nil, WrapScanError(op, err, "text detection failed")
		}
		log.Info().
			Int("height", dims.Height).
			Int("text_length", len(res.Text)).
			Msg("Scan completed on single-shot path")
		return &Transcript{
			Text:       res.Text,
			Dimensions: dims,
			Chunked:    false,
		}, nil
	}

	bands, err := PlanBands(dims.Height, s.opts.BandHeight, s.opts.BandOverlap)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int("height", dims.Height).
		Int("bands", len(bands)).
		Int("band_height", s.opts.BandHeight).
		Int("overlap", s.opts.BandOverlap).
		Msg("Image exceeds single-shot limit, taking chunked path")

	img, err := imaging.Decode(bytes.NewReader(payload))
	if err != nil {
		return nil, NewScanError(op, ErrUndecodableImage, err.Error())
	}

	// Bands run strictly in index order; the merge step compares each
	// band's tail against the next band's head.
	results := make([]BandResult, 0, len(bands))
	for _, band := range bands {
		pixels, err := ExtractBand(img, band)
		if err != nil {
			return nil, err
		}

		res, err := s.detector.Detect(ctx, pixels)
		if err != nil {
			// Degrade rather than abort: the transcript will
			// silently omit this band's rows.
			log.Warn().
				Err(err).
				Int("band", band.Index).
				Int("y_offset", band.YOffset).
				Msg("Band detection failed, continuing without its text")
			res = &ocr.Result{}
		}
		results = append(results, newBandResult(band, res))
	}

	text := MergeResults(results)

	log.Info().
		Int("bands", len(results)).
		Int("text_length", len(text)).
		Msg("Scan completed on chunked path")

	return &Transcript{
		Text:       text,
		Dimensions: dims,
		Chunked:    true,
	}, nil
}
