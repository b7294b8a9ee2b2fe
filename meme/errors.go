package meme

import (
	"errors"
	"fmt"
)

// Sentinel errors for the meme package.
var (
	// ErrEmptyCaption is returned when neither top nor bottom text is given.
	ErrEmptyCaption = errors.New("meme: at least one of top or bottom text must be provided")

	// ErrNoFit is returned when even font size 1 does not fit the layout budget.
	ErrNoFit = errors.New("meme: no font size fits")

	// ErrMeasure is returned when a font backend reports no usable ink box.
	ErrMeasure = errors.New("meme: text measurement failed")

	// ErrInvalidLayout is returned by LayoutConfig.Validate.
	ErrInvalidLayout = errors.New("meme: invalid layout configuration")

	// ErrNoFontSource is returned by Create when Options.Fonts is nil.
	ErrNoFontSource = errors.New("meme: missing font source")
)

// FitError reports a caption that does not fit at the smallest font size.
type FitError struct {
	Text      string
	MaxWidth  int
	MaxHeight int
}

func (e *FitError) Error() string {
	return fmt.Sprintf("meme: no font size fits %q in %dx%d px; try increasing max_text_to_height_ratio or decreasing margins",
		e.Text, e.MaxWidth, e.MaxHeight)
}

func (e *FitError) Unwrap() error { return ErrNoFit }

// MeasureError reports a backend that returned no ink box for Text.
type MeasureError struct {
	Text string
	Size int
}

func (e *MeasureError) Error() string {
	return fmt.Sprintf("meme: cannot measure %q at size %d: backend returned no bounding box", e.Text, e.Size)
}

func (e *MeasureError) Unwrap() error { return ErrMeasure }
