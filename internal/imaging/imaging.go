// Package imaging produces resized copies of uploaded images.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	jpegQuality = 85

	// maxSourcePixels bounds the decoded source, read from the header first.
	maxSourcePixels = 50_000_000
	// maxTargetPixels bounds the resized output. Very tall sources would
	// otherwise scale to enormous heights.
	maxTargetPixels = 25_000_000
)

var (
	ErrInvalidWidth = errors.New("width must be positive")
	ErrTooLarge     = errors.New("image too large")
)

// Resize scales the encoded image in data to width pixels, keeping its aspect
// ratio. JPEG sources are re-encoded as JPEG, everything else as PNG. The
// output depends only on the input, so repeated calls are byte-identical.
func Resize(data []byte, width int) ([]byte, error) {
	if width <= 0 {
		return nil, ErrInvalidWidth
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("decode image: empty %dx%d image", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxSourcePixels {
		return nil, fmt.Errorf("%w: source is %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}

	height, err := targetHeight(cfg.Width, cfg.Height, width)
	if err != nil {
		return nil, err
	}

	src, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := src.Bounds()

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	if format == "jpeg" {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	} else {
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}

	return buf.Bytes(), nil
}

// targetHeight keeps the aspect ratio of a srcW x srcH image scaled to width.
func targetHeight(srcW, srcH, width int) (int, error) {
	height := (int64(srcH)*int64(width) + int64(srcW)/2) / int64(srcW)
	if height < 1 {
		height = 1
	}
	if int64(width)*height > maxTargetPixels {
		return 0, fmt.Errorf("%w: %dx%d scaled to width %d", ErrTooLarge, srcW, srcH, width)
	}
	return int(height), nil
}
