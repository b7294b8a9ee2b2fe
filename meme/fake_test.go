package meme_test

import (
	"fmt"
	"image"
	"image/draw"
	"math"
	"strings"

	"github.com/piotrgredowski/memer-cli/meme"
)

// blockSource produces faces whose glyphs are solid blocks: every rune is
// size/2 px wide, ink reaches 3/4 of the size below the line top and the
// descent is 1/4 of the size, so a line measures exactly size px high.
type blockSource struct {
	probes []int
	fail   int
}

func (s *blockSource) Face(size int) (meme.Face, error) {
	s.probes = append(s.probes, size)
	if s.fail > 0 && size >= s.fail {
		return nil, fmt.Errorf("face %d unavailable", size)
	}
	return blockFace{size: size}, nil
}

type blockFace struct{ size int }

func (f blockFace) Size() int { return f.size }

func (f blockFace) InkBounds(text string) (float64, float64, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, 0, false
	}
	return float64(len([]rune(text))) * float64(f.size) / 2, 0.75 * float64(f.size), true
}

func (f blockFace) Descent() float64 { return 0.25 * float64(f.size) }

func (f blockFace) DrawOutlined(dst draw.Image, x, y float64, text string, style meme.Style) error {
	x2, y2, ok := f.InkBounds(text)
	if !ok {
		return fmt.Errorf("nothing to draw")
	}
	w := style.StrokeWidth
	outer := image.Rect(int(math.Floor(x))-w, int(math.Floor(y))-w, int(math.Ceil(x+x2))+w, int(math.Ceil(y+y2))+w)
	inner := image.Rect(int(math.Floor(x)), int(math.Floor(y)), int(math.Ceil(x+x2)), int(math.Ceil(y+y2)))
	draw.Draw(dst, outer.Intersect(dst.Bounds()), image.NewUniform(style.Stroke), image.Point{}, draw.Src)
	draw.Draw(dst, inner.Intersect(dst.Bounds()), image.NewUniform(style.Fill), image.Point{}, draw.Src)
	return nil
}
