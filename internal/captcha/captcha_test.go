package captcha

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T) image.Image {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})                   // fully saturated red
	img.Set(1, 0, color.RGBA{R: 255, G: 255, B: 255, A: 255})   // white
	img.Set(2, 0, color.RGBA{R: 128, G: 128, B: 128, A: 255})   // gray
	img.Set(3, 0, color.RGBA{R: 200, G: 100, B: 100, A: 255})   // half saturated
	return img
}

func dataURI(t *testing.T, img image.Image) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeDataURI(t *testing.T) {
	img, err := Decode(dataURI(t, testImage(t)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
}

func TestDecodeBareBase64(t *testing.T) {
	uri := dataURI(t, testImage(t))
	bare := strings.TrimPrefix(uri, "data:image/png;base64,")

	img, err := Decode(bare)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode("data:image/png;base64,!!!not-base64!!!")
	assert.Error(t, err)

	_, err = Decode(base64.StdEncoding.EncodeToString([]byte("not an image")))
	assert.Error(t, err)
}

func TestSaturationMap(t *testing.T) {
	out := SaturationMap(testImage(t))

	assert.EqualValues(t, 255, out.GrayAt(0, 0).Y, "pure red is fully saturated")
	assert.EqualValues(t, 0, out.GrayAt(1, 0).Y, "white has no saturation")
	assert.EqualValues(t, 0, out.GrayAt(2, 0).Y, "gray has no saturation")

	half := out.GrayAt(3, 0).Y
	assert.Greater(t, half, uint8(100))
	assert.Less(t, half, uint8(160))
}

func TestSavePreview(t *testing.T) {
	path, err := SavePreview(testImage(t))
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(path) })

	assert.True(t, strings.HasSuffix(path, ".png"))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 2), img.Bounds())
}
