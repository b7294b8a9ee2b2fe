// Package freetype is a caption backend on github.com/golang/freetype/truetype.
// It only reads TrueType outlines.
package freetype

import (
	"fmt"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/piotrgredowski/memer-cli/meme"
	"github.com/piotrgredowski/memer-cli/renderer"
	"github.com/piotrgredowski/memer-cli/renderer/xfont"
)

// Backend parses fonts with the freetype port.
type Backend struct{}

var _ renderer.Backend = Backend{}

// Name implements renderer.Backend.
func (Backend) Name() string { return "freetype" }

// FontSource implements renderer.Backend.
func (Backend) FontSource(data []byte) (meme.FontSource, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("freetype: parse font: %w", err)
	}
	return &Source{font: f}, nil
}

// Source creates unhinted faces of one parsed font.
type Source struct {
	font *truetype.Font
}

// Face implements meme.FontSource.
func (s *Source) Face(size int) (meme.Face, error) {
	if size < 1 {
		return nil, fmt.Errorf("freetype: invalid font size %d", size)
	}
	face := truetype.NewFace(s.font, &truetype.Options{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	return xfont.New(face, size), nil
}
