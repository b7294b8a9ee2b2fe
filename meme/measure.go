package meme

import "math"

// Measure returns the rendered size of text at face's size.
//
// Width is the right edge of the ink box, not the advance width. Height is the
// bottom edge of the ink box plus the font descent, so lines without
// descenders still reserve room below the baseline.
func Measure(text string, face Face) (Extent, error) {
	x2, y2, ok := face.InkBounds(text)
	if !ok || !finite(x2) || !finite(y2) {
		return Extent{}, &MeasureError{Text: text, Size: face.Size()}
	}
	descent := face.Descent()
	if !finite(descent) {
		return Extent{}, &MeasureError{Text: text, Size: face.Size()}
	}
	return Extent{Width: x2, Height: y2 + descent}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
