package receipt

import (
	"bytes"
	"encoding/base64"
	"image"
	"strings"

	// Register the raster formats the scan pipeline accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// Inspect determines an image's pixel dimensions and encoding format from
// raw bytes without decoding the pixel data.
func Inspect(data []byte) (Dimensions, error) {
	const op = "Inspect"

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Dimensions{}, NewScanError(op, ErrUndecodableImage, err.Error())
	}

	return Dimensions{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: format,
	}, nil
}

// DecodeDataURI extracts the raw image bytes from a data-URI payload such as
// "data:image/png;base64,iVBOR...".
func DecodeDataURI(uri string) ([]byte, error) {
	const op = "DecodeDataURI"

	if !strings.HasPrefix(uri, "data:") {
		return nil, NewScanError(op, ErrInvalidDataURI, "missing data: scheme")
	}

	idx := strings.Index(uri, ";base64,")
	if idx < 0 {
		return nil, NewScanError(op, ErrInvalidDataURI, "only base64-encoded data URIs are supported")
	}

	data, err := base64.StdEncoding.DecodeString(uri[idx+len(";base64,"):])
	if err != nil {
		return nil, NewScanError(op, ErrInvalidDataURI, err.Error())
	}
	return data, nil
}
