// Package imageio loads template images and saves captioned memes.
package imageio

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/natefinch/atomic"
)

// TimestampLayout is the time format embedded in default output names.
const TimestampLayout = "2006-01-02_15-04-05"

// JPEGQuality is used when saving .jpg and .jpeg outputs.
const JPEGQuality = 95

// Load decodes the image at path, applies its EXIF orientation and returns
// a private NRGBA copy that can be drawn on.
func Load(path string) (*image.NRGBA, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("imageio: open %s: %w", path, err)
	}
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba, nil
	}
	return imaging.Clone(img), nil
}

// Save encodes img in the format implied by the extension of path and writes
// it atomically, creating parent directories.
func Save(img image.Image, path string) error {
	format, err := imaging.FormatFromFilename(path)
	if err != nil {
		return fmt.Errorf("imageio: %s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("imageio: encode %s: %w", path, err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("imageio: create %s: %w", dir, err)
		}
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return fmt.Errorf("imageio: write %s: %w", path, err)
	}
	return nil
}

// DefaultOutputPath names a meme after its template stem and the time it was
// made, e.g. dir/two_buttons_2024-05-01_13-37-00.png.
func DefaultOutputPath(dir, stem, format string, now time.Time) string {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	if format == "" {
		format = "png"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", stem, now.Format(TimestampLayout), format))
}
