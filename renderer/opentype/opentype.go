// Package opentype is a caption backend on golang.org/x/image/font/opentype.
package opentype

import (
	"fmt"

	"golang.org/x/image/font"
	xopentype "golang.org/x/image/font/opentype"

	"github.com/piotrgredowski/memer-cli/meme"
	"github.com/piotrgredowski/memer-cli/renderer"
	"github.com/piotrgredowski/memer-cli/renderer/xfont"
)

// Backend parses TrueType and OpenType fonts with the sfnt parser.
type Backend struct{}

var _ renderer.Backend = Backend{}

// Name implements renderer.Backend.
func (Backend) Name() string { return "opentype" }

// FontSource implements renderer.Backend.
func (Backend) FontSource(data []byte) (meme.FontSource, error) {
	f, err := xopentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("opentype: parse font: %w", err)
	}
	return &Source{font: f}, nil
}

// Source creates unhinted faces of one parsed font.
type Source struct {
	font *xopentype.Font
}

// Face implements meme.FontSource.
func (s *Source) Face(size int) (meme.Face, error) {
	if size < 1 {
		return nil, fmt.Errorf("opentype: invalid font size %d", size)
	}
	face, err := xopentype.NewFace(s.font, &xopentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("opentype: create face at size %d: %w", size, err)
	}
	return xfont.New(face, size), nil
}
