package canvasrenderer

import (
	"crypto/sha256"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/piotrgredowski/memer-cli/meme"
	"github.com/piotrgredowski/memer-cli/renderer"
)

// The canvas works in millimetres. Rasterizing at one dot per millimetre makes
// one canvas unit one pixel, so pixel sizes only need converting to points
// when a face is created.
const (
	mmPerPt = 25.4 / 72
	ptPerMm = 1 / mmPerPt
)

var resolution = canvas.DPMM(1.0)

// Renderer measures and draws captions via github.com/tdewolff/canvas.
// Parsed font families are cached by content so batch runs parse each font once.
type Renderer struct {
	fontMu       sync.Mutex
	fontFamilies map[[sha256.Size]byte]*canvas.FontFamily
}

var _ renderer.Backend = (*Renderer)(nil)

// NewRenderer creates a canvas backend with an empty font cache.
func NewRenderer() *Renderer {
	return &Renderer{fontFamilies: map[[sha256.Size]byte]*canvas.FontFamily{}}
}

// Name implements renderer.Backend.
func (r *Renderer) Name() string { return "canvas" }

// FontSource implements renderer.Backend.
func (r *Renderer) FontSource(data []byte) (meme.FontSource, error) {
	family, err := r.ensureFontFamily(data)
	if err != nil {
		return nil, err
	}
	return &Source{family: family}, nil
}

func (r *Renderer) ensureFontFamily(data []byte) (*canvas.FontFamily, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("canvas: empty font data")
	}
	key := sha256.Sum256(data)
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[key]; ok {
		return family, nil
	}
	family := canvas.NewFontFamily(fmt.Sprintf("caption-%x", key[:4]))
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("canvas: load font: %w", err)
	}
	r.fontFamilies[key] = family
	return family, nil
}

// Source instantiates faces of one loaded font family.
type Source struct {
	family *canvas.FontFamily
}

// Face implements meme.FontSource. A new canvas face is created per call.
func (s *Source) Face(size int) (meme.Face, error) {
	if size < 1 {
		return nil, fmt.Errorf("canvas: invalid font size %d", size)
	}
	face := s.family.Face(toPt(float64(size)), canvas.White, canvas.FontRegular, canvas.FontNormal)
	return &Face{face: face, size: size}, nil
}

// Face is a canvas font face at a pixel size.
type Face struct {
	face *canvas.FontFace
	size int
}

var _ meme.Face = (*Face)(nil)

// Size implements meme.Face.
func (f *Face) Size() int { return f.size }

// InkBounds implements meme.Face. Glyph outlines are built with the baseline at
// y=0 and y pointing up, so the bottom edge measured from the line top is the
// ascent minus the lowest outline point.
func (f *Face) InkBounds(text string) (float64, float64, bool) {
	path, err := f.outline(text)
	if err != nil {
		return 0, 0, false
	}
	bounds := path.Bounds()
	ascent := f.face.Metrics().Ascent
	return bounds.X1, ascent - bounds.Y0, true
}

// Descent implements meme.Face.
func (f *Face) Descent() float64 {
	return math.Abs(f.face.Metrics().Descent)
}

// DrawOutlined implements meme.Face. The stroke is drawn first at twice the
// outline width and the fill is painted over it, leaving StrokeWidth pixels of
// outline outside the glyphs.
func (f *Face) DrawOutlined(dst draw.Image, x, y float64, text string, style meme.Style) error {
	path, err := f.outline(text)
	if err != nil {
		return err
	}
	bounds := dst.Bounds()
	if bounds.Min != (image.Point{}) {
		// The rasterizer addresses pixels from (0, 0).
		dst = rebase(dst)
		x -= float64(bounds.Min.X)
		y -= float64(bounds.Min.Y)
	}
	width, height := float64(bounds.Dx()), float64(bounds.Dy())

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	// The default coordinate system has its origin bottom-left with y up.
	baseline := height - (y + f.face.Metrics().Ascent)

	if style.StrokeWidth > 0 && style.Stroke != nil {
		ctx.SetFillColor(transparent)
		ctx.SetStrokeColor(style.Stroke)
		ctx.SetStrokeWidth(2 * float64(style.StrokeWidth))
		ctx.SetStrokeJoiner(canvas.RoundJoin)
		ctx.DrawPath(x, baseline, path)
	}
	if style.Fill != nil {
		ctx.SetFillColor(style.Fill)
		ctx.SetStrokeColor(transparent)
		ctx.DrawPath(x, baseline, path)
	}

	ras := rasterizer.FromImage(dst, resolution, canvas.DefaultColorSpace)
	c.RenderTo(ras)
	return nil
}

func (f *Face) outline(text string) (*canvas.Path, error) {
	if text == "" {
		return nil, fmt.Errorf("canvas: empty text")
	}
	path, _, err := f.face.ToPath(text)
	if err != nil {
		return nil, fmt.Errorf("canvas: outline %q: %w", text, err)
	}
	if path == nil || path.Empty() {
		return nil, fmt.Errorf("canvas: %q has no outline", text)
	}
	return path, nil
}

var transparent = color.RGBA{0, 0, 0, 0}

// originImage presents an image whose bounds start at min as one starting at (0, 0).
type originImage struct {
	draw.Image
	min image.Point
}

func (o originImage) Bounds() image.Rectangle { return o.Image.Bounds().Sub(o.min) }

func (o originImage) At(x, y int) color.Color { return o.Image.At(x+o.min.X, y+o.min.Y) }

func (o originImage) Set(x, y int, c color.Color) { o.Image.Set(x+o.min.X, y+o.min.Y, c) }

// rebase returns dst with its bounds moved to start at (0, 0). RGBA and NRGBA
// images share their pixels under a new header.
func rebase(dst draw.Image) draw.Image {
	switch img := dst.(type) {
	case *image.RGBA:
		return &image.RGBA{Pix: img.Pix, Stride: img.Stride, Rect: img.Rect.Sub(img.Rect.Min)}
	case *image.NRGBA:
		return &image.NRGBA{Pix: img.Pix, Stride: img.Stride, Rect: img.Rect.Sub(img.Rect.Min)}
	}
	return originImage{Image: dst, min: dst.Bounds().Min}
}

// toPt converts a pixel (millimetre) em size to points.
func toPt(px float64) float64 { return px * ptPerMm }
