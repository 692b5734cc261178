// Package debug provides debug capture utilities for the sky viewer.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"github.com/Faultbox/skylight/internal/lighting"
)

// ScreenshotCapture writes frames as PNG files named after the sky state.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
	}
}

// FileName returns the file a capture of s is written to, for example
// sky_20240320T1200Z_51.48N_0.00E_sunny.png.
func (sc *ScreenshotCapture) FileName(s lighting.State) string {
	name := fmt.Sprintf("%s_%s_%s_%s_%s.png",
		sc.prefix,
		s.Instant.UTC().Format("20060102T1504Z"),
		coord(s.Location.Latitude, 'N', 'S'),
		coord(s.Location.Longitude, 'E', 'W'),
		s.Weather,
	)
	if sc.outputDir != "" {
		name = filepath.Join(sc.outputDir, name)
	}
	return name
}

func coord(v float64, pos, neg byte) string {
	hemi := pos
	if v < 0 {
		hemi = neg
	}
	return fmt.Sprintf("%.2f%c", math.Abs(v), hemi)
}

// CaptureFromPixels writes bottom-up RGBA pixels (as GL reads them) for
// state s and returns the file path.
func (sc *ScreenshotCapture) CaptureFromPixels(pixels []byte, width, height int, s lighting.State) (string, error) {
	if len(pixels) != width*height*4 {
		return "", fmt.Errorf("pixel data size mismatch: expected %d, got %d", width*height*4, len(pixels))
	}

	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.FileName(s)
	if err := writePNG(filename, FlipRows(pixels, width, height)); err != nil {
		return "", err
	}
	return filename, nil
}

// FlipRows converts bottom-up RGBA rows into a top-down image.
func FlipRows(pixels []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	rowSize := width * 4
	for y := 0; y < height; y++ {
		srcOffset := (height - 1 - y) * rowSize
		dstOffset := y * img.Stride
		copy(img.Pix[dstOffset:dstOffset+rowSize], pixels[srcOffset:srcOffset+rowSize])
	}
	return img
}

func writePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}
