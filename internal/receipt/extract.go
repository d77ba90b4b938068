package receipt

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// ExtractBand crops the full-width region the band describes and re-encodes
// it as a self-contained PNG suitable for one detection request.
func ExtractBand(img image.Image, band Band) ([]byte, error) {
	const op = "ExtractBand"

	bounds := img.Bounds()
	if band.YOffset < 0 || band.Height <= 0 || band.YOffset+band.Height > bounds.Dy() {
		return nil, NewScanError(op, ErrBandOutOfBounds,
			fmt.Sprintf("band %d covers rows [%d, %d) of %d", band.Index, band.YOffset, band.YOffset+band.Height, bounds.Dy()))
	}

	crop := imaging.Crop(img, image.Rect(
		bounds.Min.X,
		bounds.Min.Y+band.YOffset,
		bounds.Max.X,
		bounds.Min.Y+band.YOffset+band.Height,
	))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, crop, imaging.PNG); err != nil {
		return nil, WrapScanError(op, err, fmt.Sprintf("failed to encode band %d", band.Index))
	}
	return buf.Bytes(), nil
}
