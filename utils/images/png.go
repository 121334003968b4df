package images

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// EncodePNG encodes image as PNG, optionally resizing to fit a square box of
// the given size. size <= 0 keeps original dimensions.
func EncodePNG(img image.Image, size int) ([]byte, error) {
	if size > 0 {
		b := img.Bounds()
		if b.Dx() > size || b.Dy() > size {
			img = imaging.Fit(img, size, size, imaging.Lanczos)
		}
	}
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
