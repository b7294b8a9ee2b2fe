package meme

import (
	"fmt"
	"image/draw"
	"log/slog"
)

// Create captions img in place.
//
// It finds the largest fitting font size for each present caption line, uses
// the smallest of those for both lines and renders them. Validation and fitting
// errors are returned before any pixel of img is touched.
func Create(img draw.Image, caption Caption, opts Options) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("meme: image is nil")
	}
	if opts.Fonts == nil {
		return nil, ErrNoFontSource
	}
	if len(caption.Lines()) == 0 {
		return nil, ErrEmptyCaption
	}
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}
	logger := loggerOrDiscard(opts.Logger)

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	var candidates []int
	for _, line := range caption.Lines() {
		size, err := findMaxFittingSize(width, height, line, opts.Fonts, opts.Layout, logger)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, size)
	}
	logger.Debug("font size candidates", slog.Any("candidates", candidates))

	size := SelectSize(candidates...)
	logger.Debug("selected font size", slog.Int("size", size))

	face, err := opts.Fonts.Face(size)
	if err != nil {
		return nil, fmt.Errorf("meme: create face at size %d: %w", size, err)
	}
	placements, err := Render(img, face, caption, opts.Layout.Margins)
	if err != nil {
		return nil, err
	}

	return &Result{
		Image:      img,
		Width:      width,
		Height:     height,
		Caption:    caption,
		Layout:     opts.Layout,
		Budget:     BudgetFor(width, height, opts.Layout),
		Candidates: candidates,
		FontSize:   size,
		Placements: placements,
	}, nil
}
