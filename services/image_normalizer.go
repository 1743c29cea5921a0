// File: /services/image_normalizer.go
package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gen2brain/webp"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
)

const (
	// WebPQuality and WebPMethod bound the size of stored images.
	WebPQuality = 85
	WebPMethod  = 6
)

// NormalizeImage decodes any supported image and re-encodes it as lossy WebP.
// Images with transparency or a palette are flattened onto white; everything
// else is converted to plain RGB. Undecodable input yields ErrUnprocessableImage.
func NormalizeImage(data []byte) ([]byte, error) {
	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnprocessableImage, err)
	}

	rgb := flatten(src)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, rgb, webp.Options{Quality: WebPQuality, Method: WebPMethod}); err != nil {
		return nil, fmt.Errorf("%w: encoding %s as webp: %v", ErrUnprocessableImage, format, err)
	}
	return buf.Bytes(), nil
}

// flatten returns an opaque RGBA copy of src anchored at the origin.
func flatten(src image.Image) *image.RGBA {
	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))

	if hasAlphaOrPalette(src) {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
		draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Over)
		return dst
	}

	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)
	return dst
}

func hasAlphaOrPalette(img image.Image) bool {
	switch img.(type) {
	case *image.Paletted, *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64,
		*image.Alpha, *image.Alpha16, *image.NYCbCrA:
		return true
	}
	return false
}
