package imaging

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 20), G: uint8(y * 20), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestResize_PNG(t *testing.T) {
	src := encodePNG(t, testImage(10, 10))

	tests := []struct {
		width, wantH int
	}{
		{500, 500},
		{250, 250},
		{100, 100},
		{5, 5},
	}

	for _, tt := range tests {
		out, err := Resize(src, tt.width)
		require.NoError(t, err)

		img, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, tt.width, img.Bounds().Dx())
		assert.Equal(t, tt.wantH, img.Bounds().Dy())
	}
}

func TestResize_KeepsAspectRatio(t *testing.T) {
	src := encodePNG(t, testImage(10, 4))

	out, err := Resize(src, 100)
	require.NoError(t, err)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 40, cfg.Height)
}

func TestResize_JPEGStaysJPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(8, 8), nil))

	out, err := Resize(buf.Bytes(), 100)
	require.NoError(t, err)

	_, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestResize_Deterministic(t *testing.T) {
	src := encodePNG(t, testImage(10, 10))

	a, err := Resize(src, 250)
	require.NoError(t, err)
	b, err := Resize(src, 250)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResize_Errors(t *testing.T) {
	_, err := Resize([]byte("not an image"), 100)
	assert.Error(t, err)

	_, err = Resize(encodePNG(t, testImage(2, 2)), 0)
	assert.ErrorIs(t, err, ErrInvalidWidth)
}

func TestResize_TallImageIsRejected(t *testing.T) {
	// A few hundred bytes of PNG that would scale to 500x20000000
	src := encodePNG(t, image.NewGray(image.Rect(0, 0, 1, 40000)))

	_, err := Resize(src, 500)
	assert.ErrorIs(t, err, ErrTooLarge)

	// Narrow targets that stay under the pixel cap still work
	out, err := Resize(encodePNG(t, image.NewGray(image.Rect(0, 0, 10, 400))), 100)
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Height)
}

// withDimensions rewrites the IHDR size of an encoded PNG.
func withDimensions(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	out := bytes.Clone(data)
	require.Equal(t, "IHDR", string(out[12:16]))
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestResize_HugeDeclaredSourceIsRejected(t *testing.T) {
	src := withDimensions(t, encodePNG(t, testImage(2, 2)), 100_000, 100_000)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	require.NoError(t, err)
	require.Equal(t, 100_000, cfg.Width)

	_, err = Resize(src, 100)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestTargetHeight(t *testing.T) {
	h, err := targetHeight(10, 4, 100)
	require.NoError(t, err)
	assert.Equal(t, 40, h)

	h, err = targetHeight(1000, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, h)

	_, err = targetHeight(1, 40000, 500)
	assert.ErrorIs(t, err, ErrTooLarge)
}
