// Package captcha turns the base64 captcha image the platform serves into a
// PNG preview the user can open. The noisy color background washes out in a
// grayscale saturation map, leaving the code itself readable.
package captcha

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"regexp"

	// The platform has served captchas in all three formats.
	_ "image/gif"
	_ "image/jpeg"
)

var dataURIRe = regexp.MustCompile(`^data:image/[a-zA-Z0-9.+-]+;base64,`)

// Decode parses a "data:image/...;base64," URI into an image. Bare base64
// without the URI prefix is accepted too.
func Decode(dataURI string) (image.Image, error) {
	payload := dataURIRe.ReplaceAllString(dataURI, "")

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode captcha base64: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode captcha image: %w", err)
	}
	return img, nil
}

// SaturationMap renders the HSV saturation of every pixel as a grayscale
// image. Saturated (colored) pixels come out bright, gray and white pixels
// come out black.
func SaturationMap(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.SetGray(x, y, color.Gray{Y: saturation(img.At(x, y))})
		}
	}
	return out
}

// saturation is the S channel of the HSV decomposition, scaled to [0, 255].
func saturation(c color.Color) uint8 {
	r, g, b, _ := c.RGBA()

	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	if max == 0 {
		return 0
	}
	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	return uint8((max - min) * 255 / max)
}

// SavePreview writes the image as a PNG into the user's temp directory and
// returns the file path.
func SavePreview(img image.Image) (string, error) {
	f, err := os.CreateTemp("", "qgxf-captcha-*.png")
	if err != nil {
		return "", fmt.Errorf("create captcha preview: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("encode captcha preview: %w", err)
	}
	return f.Name(), nil
}
