package audio

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
)

// coverMaxDim bounds embedded cover art; anything larger is scaled down
// preserving aspect ratio.
const coverMaxDim = 1000

// CoverJPEG re-encodes downloaded cover art as JPEG so the embedded APIC
// frame's image/jpeg MIME type holds even for PNG sources, scaling down
// oversized images along the way.
func CoverJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover image: %w", err)
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	if width > coverMaxDim || height > coverMaxDim {
		ratio := float64(width) / float64(height)
		if ratio > 1 {
			width = coverMaxDim
			height = int(float64(coverMaxDim) / ratio)
		} else {
			height = coverMaxDim
			width = int(float64(coverMaxDim) * ratio)
		}

		dst := image.NewRGBA(image.Rect(0, 0, width, height))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("failed to encode cover image: %w", err)
	}

	return buf.Bytes(), nil
}
