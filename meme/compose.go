package meme

import (
	"fmt"
	"image/draw"
)

// Render draws the caption onto img with face and returns where each line went.
// img is modified in place.
//
// The top line is centred horizontally at margins.Vertical from the top edge.
// The bottom line is centred and anchored so its measured height ends
// margins.Vertical above the bottom edge. Lines are not re-checked against
// the budget.
func Render(img draw.Image, face Face, caption Caption, margins Margins) (Placements, error) {
	var out Placements
	bounds := img.Bounds()
	width, height := float64(bounds.Dx()), float64(bounds.Dy())

	if caption.Top != "" {
		ext, err := Measure(caption.Top, face)
		if err != nil {
			return Placements{}, err
		}
		p := &Placement{
			Text:   caption.Top,
			X:      (width - ext.Width) / 2,
			Y:      float64(margins.Vertical),
			Width:  ext.Width,
			Height: ext.Height,
		}
		if err := drawLine(img, face, p); err != nil {
			return Placements{}, err
		}
		out.Top = p
	}

	if caption.Bottom != "" {
		ext, err := Measure(caption.Bottom, face)
		if err != nil {
			return Placements{}, err
		}
		p := &Placement{
			Text:   caption.Bottom,
			X:      (width - ext.Width) / 2,
			Y:      height - ext.Height - float64(margins.Vertical),
			Width:  ext.Width,
			Height: ext.Height,
		}
		if err := drawLine(img, face, p); err != nil {
			return Placements{}, err
		}
		out.Bottom = p
	}
	return out, nil
}

func drawLine(img draw.Image, face Face, p *Placement) error {
	// Placements are relative to the image bounds, which need not start at (0, 0).
	origin := img.Bounds().Min
	if err := face.DrawOutlined(img, float64(origin.X)+p.X, float64(origin.Y)+p.Y, p.Text, CaptionStyle); err != nil {
		return fmt.Errorf("meme: draw %q: %w", p.Text, err)
	}
	return nil
}
