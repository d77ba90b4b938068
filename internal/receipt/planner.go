package receipt

import "fmt"

// PlanBands partitions an image of the given height into an ordered list of
// bands. When the image fits in one request the plan is a single band over
// the whole height; otherwise consecutive bands share exactly overlap rows
// and the last band may be short. Every pixel row is covered by at least
// one band.
func PlanBands(height, bandHeight, overlap int) ([]Band, error) {
	const op = "PlanBands"

	if overlap < 0 {
		return nil, NewScanError(op, ErrInvalidChunkConfig, fmt.Sprintf("overlap %d is negative", overlap))
	}
	if bandHeight <= overlap {
		return nil, NewScanError(op, ErrInvalidChunkConfig, fmt.Sprintf("band height %d, overlap %d", bandHeight, overlap))
	}

	if height <= bandHeight {
		return []Band{{Index: 0, YOffset: 0, Height: height}}, nil
	}

	var bands []Band
	stride := bandHeight - overlap
	for y := 0; ; y += stride {
		h := bandHeight
		if y+h > height {
			h = height - y
		}
		bands = append(bands, Band{Index: len(bands), YOffset: y, Height: h})
		if y+h >= height {
			return bands, nil
		}
	}
}
