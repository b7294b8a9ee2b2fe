// Package xfont adapts golang.org/x/image/font faces to meme.Face.
//
// Outlines are drawn the way most Go meme generators do it: the string is
// drawn in the stroke colour at every pixel offset within the stroke radius,
// then once more in the fill colour on top.
package xfont

import (
	"fmt"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/piotrgredowski/memer-cli/meme"
)

// Face wraps a font.Face created at a known pixel size (DPI 72).
type Face struct {
	face font.Face
	size int
}

var _ meme.Face = (*Face)(nil)

// New wraps face, which must have been created at size pixels per em.
func New(face font.Face, size int) *Face {
	return &Face{face: face, size: size}
}

// Size implements meme.Face.
func (f *Face) Size() int { return f.size }

// InkBounds implements meme.Face. font.BoundString reports bounds relative to
// the dot on the baseline, so y is shifted by the ascent.
func (f *Face) InkBounds(text string) (float64, float64, bool) {
	if text == "" {
		return 0, 0, false
	}
	bounds, _ := font.BoundString(f.face, text)
	if bounds.Empty() {
		return 0, 0, false
	}
	ascent := f.face.Metrics().Ascent
	return toFloat(bounds.Max.X), toFloat(ascent + bounds.Max.Y), true
}

// Descent implements meme.Face.
func (f *Face) Descent() float64 {
	return math.Abs(toFloat(f.face.Metrics().Descent))
}

// DrawOutlined implements meme.Face.
func (f *Face) DrawOutlined(dst draw.Image, x, y float64, text string, style meme.Style) error {
	if dst == nil {
		return fmt.Errorf("xfont: nil destination")
	}
	baseline := fixed.Point26_6{
		X: toFixed(x),
		Y: toFixed(y) + f.face.Metrics().Ascent,
	}
	d := &font.Drawer{Dst: dst, Face: f.face}

	if r := style.StrokeWidth; r > 0 && style.Stroke != nil {
		d.Src = image.NewUniform(style.Stroke)
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy > r*r {
					continue
				}
				d.Dot = baseline.Add(fixed.P(dx, dy))
				d.DrawString(text)
			}
		}
	}

	if style.Fill != nil {
		d.Src = image.NewUniform(style.Fill)
		d.Dot = baseline
		d.DrawString(text)
	}
	return nil
}

func toFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }
