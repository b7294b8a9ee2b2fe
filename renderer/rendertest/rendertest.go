// Package rendertest checks renderer.Backend implementations against the
// behaviour the caption core relies on.
package rendertest

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/piotrgredowski/memer-cli/meme"
	"github.com/piotrgredowski/memer-cli/renderer"
)

// Background is the fill used for blank test images.
var Background = color.RGBA{0x80, 0x80, 0x80, 0xff}

// Blank returns a w x h image filled with Background.
func Blank(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(Background), image.Point{}, draw.Src)
	return img
}

// Run exercises b with the font in fontData.
func Run(t *testing.T, b renderer.Backend, fontData []byte) {
	t.Helper()
	src, err := b.FontSource(fontData)
	if err != nil {
		t.Fatalf("%s: font source: %v", b.Name(), err)
	}

	t.Run("MeasureGrowsWithSize", func(t *testing.T) { measureGrows(t, src) })
	t.Run("WhitespaceHasNoExtent", func(t *testing.T) { whitespace(t, src) })
	t.Run("HelloWorld", func(t *testing.T) { helloWorld(t, src) })
	t.Run("TinyImageFails", func(t *testing.T) { tinyImage(t, src) })
	t.Run("Deterministic", func(t *testing.T) { deterministic(t, src) })
	t.Run("OffsetBounds", func(t *testing.T) { offsetBounds(t, src) })
	t.Run("EmptyFontData", func(t *testing.T) {
		if _, err := b.FontSource(nil); err == nil {
			t.Fatalf("expected error for empty font data")
		}
	})
}

func measureGrows(t *testing.T, src meme.FontSource) {
	prev := meme.Extent{}
	for _, size := range []int{8, 16, 32, 64} {
		face, err := src.Face(size)
		if err != nil {
			t.Fatalf("face %d: %v", size, err)
		}
		if face.Size() != size {
			t.Fatalf("face.Size() = %d, want %d", face.Size(), size)
		}
		ext, err := meme.Measure("HELLO", face)
		if err != nil {
			t.Fatalf("measure at %d: %v", size, err)
		}
		if ext.Width <= prev.Width || ext.Height <= prev.Height {
			t.Fatalf("extent at %d = %+v, not larger than %+v", size, ext, prev)
		}
		if face.Descent() <= 0 {
			t.Fatalf("descent at %d = %v, want > 0", size, face.Descent())
		}
		prev = ext
	}
}

func whitespace(t *testing.T, src meme.FontSource) {
	face, err := src.Face(20)
	if err != nil {
		t.Fatalf("face: %v", err)
	}
	_, err = meme.Measure("   ", face)
	if !errors.Is(err, meme.ErrMeasure) {
		t.Fatalf("Measure(spaces) error = %v, want ErrMeasure", err)
	}
}

func layout(vertical, horizontal int, ratio float64) meme.LayoutConfig {
	return meme.LayoutConfig{
		MaxTextToHeightRatio: ratio,
		Margins:              meme.Margins{Vertical: vertical, Horizontal: horizontal},
	}
}

func helloWorld(t *testing.T, src meme.FontSource) {
	img := Blank(500, 500)
	res, err := meme.Create(img, meme.Caption{Top: "HELLO", Bottom: "WORLD"}, meme.Options{
		Layout: layout(20, 10, 0.2),
		Fonts:  src,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.FontSize <= 0 {
		t.Fatalf("font size = %d", res.FontSize)
	}
	if len(res.Candidates) != 2 {
		t.Fatalf("candidates = %v, want two", res.Candidates)
	}
	if res.FontSize != min(res.Candidates[0], res.Candidates[1]) {
		t.Fatalf("font size %d is not the smaller of %v", res.FontSize, res.Candidates)
	}
	top, bottom := res.Placements.Top, res.Placements.Bottom
	if top == nil || bottom == nil {
		t.Fatalf("placements = %+v", res.Placements)
	}
	if top.Y != 20 {
		t.Fatalf("top y = %v, want 20", top.Y)
	}
	if got := bottom.Y + bottom.Height; math.Abs(got-480) > 1e-9 {
		t.Fatalf("bottom line ends at %v, want 480", got)
	}
	if top.Height >= 100 || top.Width > 480 {
		t.Fatalf("top extent %vx%v exceeds the 480x100 budget", top.Width, top.Height)
	}
	for i, text := range []string{"HELLO", "WORLD"} {
		nextFits(t, src, res.Budget, text, res.Candidates[i])
	}
	if !touched(img, image.Rect(150, 20, 350, 120)) {
		t.Fatalf("no caption pixels in the top band")
	}
	if !touched(img, image.Rect(150, 380, 350, 480)) {
		t.Fatalf("no caption pixels in the bottom band")
	}
	if touched(img, image.Rect(0, 200, 500, 300)) {
		t.Fatalf("caption pixels leaked into the middle of the image")
	}
}

// nextFits checks that size fits the budget and size+1 does not.
func nextFits(t *testing.T, src meme.FontSource, b meme.Budget, text string, size int) {
	t.Helper()
	for _, tc := range []struct {
		size int
		want bool
	}{{size, true}, {size + 1, false}} {
		face, err := src.Face(tc.size)
		if err != nil {
			t.Fatalf("face %d: %v", tc.size, err)
		}
		ext, err := meme.Measure(text, face)
		if err != nil {
			t.Fatalf("measure %q at %d: %v", text, tc.size, err)
		}
		if got := b.Fits(ext); got != tc.want {
			t.Fatalf("%q at size %d: extent %+v fits %+v = %v, want %v", text, tc.size, ext, b, got, tc.want)
		}
	}
}

func tinyImage(t *testing.T, src meme.FontSource) {
	img := Blank(10, 10)
	before := bytes.Clone(img.Pix)
	_, err := meme.Create(img, meme.Caption{Top: "THIS IS A VERY LONG STRING"}, meme.Options{
		Layout: layout(5, 5, 0.1),
		Fonts:  src,
	})
	var fitErr *meme.FitError
	if !errors.As(err, &fitErr) {
		t.Fatalf("error = %v, want *meme.FitError", err)
	}
	if !errors.Is(err, meme.ErrNoFit) {
		t.Fatalf("error %v does not match ErrNoFit", err)
	}
	if !bytes.Equal(before, img.Pix) {
		t.Fatalf("image was modified by a failed create")
	}
}

func deterministic(t *testing.T, src meme.FontSource) {
	render := func() []byte {
		img := Blank(320, 240)
		if _, err := meme.Create(img, meme.Caption{Top: "one does not", Bottom: "simply"}, meme.Options{
			Layout: layout(10, 10, 0.25),
			Fonts:  src,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
		return img.Pix
	}
	if !bytes.Equal(render(), render()) {
		t.Fatalf("rendering the same caption twice produced different pixels")
	}
}

// offsetBounds draws into a sub-image and expects the same pixels as a
// standalone image of the same size, with nothing drawn outside it.
func offsetBounds(t *testing.T, src meme.FontSource) {
	opts := meme.Options{Layout: layout(10, 10, 0.25), Fonts: src}
	caption := meme.Caption{Top: "TOP", Bottom: "BOTTOM"}

	want := Blank(200, 150)
	if _, err := meme.Create(want, caption, opts); err != nil {
		t.Fatalf("create: %v", err)
	}

	outer := Blank(260, 200)
	r := image.Rect(30, 20, 230, 170)
	sub := outer.SubImage(r).(*image.RGBA)
	if _, err := meme.Create(sub, caption, opts); err != nil {
		t.Fatalf("create in sub-image: %v", err)
	}

	for y := 0; y < 150; y++ {
		for x := 0; x < 200; x++ {
			if got, w := outer.RGBAAt(r.Min.X+x, r.Min.Y+y), want.RGBAAt(x, y); got != w {
				t.Fatalf("pixel (%d, %d) = %v, want %v", x, y, got, w)
			}
		}
	}
	for _, band := range []image.Rectangle{
		image.Rect(0, 0, 260, 20), image.Rect(0, 170, 260, 200),
		image.Rect(0, 20, 30, 170), image.Rect(230, 20, 260, 170),
	} {
		if touched(outer, band) {
			t.Fatalf("pixels drawn outside the sub-image in %v", band)
		}
	}
}

func touched(img *image.RGBA, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y) != Background {
				return true
			}
		}
	}
	return false
}
