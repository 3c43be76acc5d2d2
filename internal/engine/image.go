package engine

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

var (
	// ErrImageEmpty reports empty reference-image data.
	ErrImageEmpty = errors.New("engine: image data is empty")
	// ErrImageDecode reports undecodable reference-image data.
	ErrImageDecode = errors.New("engine: failed to decode image")
)

// EncodePNG serializes img as PNG bytes. All service output is PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeImage decodes PNG or JPEG bytes into pixel data.
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrImageEmpty
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return img, nil
}

// ResizeTo scales img to width x height. Returns the input unchanged when
// it already matches. Catmull-Rom keeps reference detail that conditioning
// depends on.
func ResizeTo(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
