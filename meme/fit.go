package meme

import (
	"fmt"
	"log/slog"
	"math"
)

// Budget is the pixel area a caption line may occupy.
type Budget struct {
	MaxWidth  int `json:"maxWidth"`
	MaxHeight int `json:"maxHeight"`
}

// BudgetFor derives the caption budget for an image of the given size.
// The height budget is rounded half to even.
func BudgetFor(width, height int, cfg LayoutConfig) Budget {
	return Budget{
		MaxWidth:  width - 2*cfg.Margins.Horizontal,
		MaxHeight: int(math.RoundToEven(float64(height) * cfg.MaxTextToHeightRatio)),
	}
}

// Fits reports whether e fits the budget. Width may touch the limit, height
// must stay strictly below it.
func (b Budget) Fits(e Extent) bool {
	return e.Width <= float64(b.MaxWidth) && e.Height < float64(b.MaxHeight)
}

// FindMaxFittingSize returns the largest integer font size at which text fits
// an image of width x height under cfg.
//
// The search probes sizes 1, 2, 3, ... and stops at the first size that does
// not fit, so it relies on measured extents growing with size. When cfg.MaxFontSize
// is set the search stops there and returns the cap if it still fits.
func FindMaxFittingSize(width, height int, text string, src FontSource, cfg LayoutConfig) (int, error) {
	return findMaxFittingSize(width, height, text, src, cfg, nil)
}

func findMaxFittingSize(width, height int, text string, src FontSource, cfg LayoutConfig, logger *slog.Logger) (int, error) {
	logger = loggerOrDiscard(logger)
	budget := BudgetFor(width, height, cfg)

	fits := func(size int) (bool, error) {
		face, err := src.Face(size)
		if err != nil {
			return false, fmt.Errorf("meme: create face at size %d: %w", size, err)
		}
		ext, err := Measure(text, face)
		if err != nil {
			return false, err
		}
		ok := budget.Fits(ext)
		logger.Debug("probe font size",
			slog.Int("size", size),
			slog.Float64("width", ext.Width),
			slog.Int("max_width", budget.MaxWidth),
			slog.Float64("height", ext.Height),
			slog.Int("max_height", budget.MaxHeight),
			slog.Bool("fits", ok),
		)
		return ok, nil
	}

	ok, err := fits(1)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, &FitError{Text: text, MaxWidth: budget.MaxWidth, MaxHeight: budget.MaxHeight}
	}

	size := 1
	for cfg.MaxFontSize <= 0 || size < cfg.MaxFontSize {
		ok, err := fits(size + 1)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		size++
	}
	return size, nil
}

// SelectSize returns the smallest candidate, so every caption fits at the
// shared size. It returns 0 for no candidates.
func SelectSize(candidates ...int) int {
	if len(candidates) == 0 {
		return 0
	}
	selected := candidates[0]
	for _, c := range candidates[1:] {
		selected = min(selected, c)
	}
	return selected
}
