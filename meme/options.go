package meme

import (
	"image/color"
	"image/draw"
	"log/slog"
)

// Options configures Create with the collaborators the core needs.
type Options struct {
	Layout LayoutConfig
	Fonts  FontSource
	Logger *slog.Logger
}

// FontSource instantiates faces of one font resource. Face is called once per
// probed size, so implementations should keep the parsed font and make face
// creation cheap.
type FontSource interface {
	Face(size int) (Face, error)
}

// Face is a font resource at a fixed integer pixel size.
//
// All coordinates are in pixels with the origin at the top-left corner of the
// line box, so the baseline sits at y = ascent.
type Face interface {
	Size() int

	// InkBounds returns the right (x2) and bottom (y2) edges of the ink bounding
	// box of text. ok is false when the backend has no box for text, which
	// happens for empty or whitespace-only strings.
	InkBounds(text string) (x2, y2 float64, ok bool)

	// Descent is the distance reserved below the baseline, as a positive value.
	Descent() float64

	// DrawOutlined draws text onto dst with its line box origin at (x, y).
	DrawOutlined(dst draw.Image, x, y float64, text string, style Style) error
}

// Style is the caption paint. Captions always use CaptionStyle.
type Style struct {
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth int
}

// CaptionStyle is white text with a 2px black outline.
var CaptionStyle = Style{
	Fill:        color.White,
	Stroke:      color.Black,
	StrokeWidth: 2,
}

func loggerOrDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
