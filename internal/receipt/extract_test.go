package receipt

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestExtractBand(t *testing.T) {
	// Red channel encodes each row's Y coordinate so the crop origin is
	// verifiable from the pixels.
	img := imaging.New(50, 120, color.NRGBA{255, 255, 255, 255})
	for y := 0; y < 120; y++ {
		for x := 0; x < 50; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(y), G: 0, B: 0, A: 255})
		}
	}

	data, err := ExtractBand(img, Band{Index: 1, YOffset: 40, Height: 30})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	crop, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("band is not a decodable image: %v", err)
	}
	if crop.Bounds().Dx() != 50 || crop.Bounds().Dy() != 30 {
		t.Fatalf("unexpected crop size %dx%d", crop.Bounds().Dx(), crop.Bounds().Dy())
	}

	r, _, _, _ := crop.At(0, 0).RGBA()
	if uint8(r>>8) != 40 {
		t.Fatalf("crop does not start at row 40: first row has red %d", uint8(r>>8))
	}
	r, _, _, _ = crop.At(0, 29).RGBA()
	if uint8(r>>8) != 69 {
		t.Fatalf("crop does not end at row 69: last row has red %d", uint8(r>>8))
	}
}

func TestExtractBandOutOfBounds(t *testing.T) {
	img := imaging.New(50, 120, color.NRGBA{255, 255, 255, 255})

	cases := []Band{
		{Index: 0, YOffset: 100, Height: 30},
		{Index: 0, YOffset: -1, Height: 30},
		{Index: 0, YOffset: 0, Height: 0},
		{Index: 0, YOffset: 120, Height: 1},
	}
	for _, band := range cases {
		if _, err := ExtractBand(img, band); !errors.Is(err, ErrBandOutOfBounds) {
			t.Fatalf("band %+v: expected ErrBandOutOfBounds, got %v", band, err)
		}
	}
}
