package meme

import (
	"fmt"
	"image/draw"
)

// Caption holds the top and bottom text of a meme. An empty string means the
// caption line is absent.
type Caption struct {
	Top    string `json:"top,omitempty"`
	Bottom string `json:"bottom,omitempty"`
}

// NewCaption validates that at least one caption line is present.
func NewCaption(top, bottom string) (Caption, error) {
	if top == "" && bottom == "" {
		return Caption{}, ErrEmptyCaption
	}
	return Caption{Top: top, Bottom: bottom}, nil
}

// Lines returns the present caption lines, top first.
func (c Caption) Lines() []string {
	lines := make([]string, 0, 2)
	if c.Top != "" {
		lines = append(lines, c.Top)
	}
	if c.Bottom != "" {
		lines = append(lines, c.Bottom)
	}
	return lines
}

// Margins are pixel offsets from the image edges.
type Margins struct {
	Vertical   int `json:"vertical" yaml:"vertical"`
	Horizontal int `json:"horizontal" yaml:"horizontal"`
}

// LayoutConfig holds the numeric layout parameters. It is read-only to the core.
type LayoutConfig struct {
	// MaxTextToHeightRatio caps caption height as a share of the image height, in (0, 1].
	MaxTextToHeightRatio float64 `json:"maxTextToHeightRatio"`
	Margins              Margins `json:"margins"`
	// MaxFontSize stops the size search early; 0 means unbounded.
	MaxFontSize int `json:"maxFontSize,omitempty"`
	// FontLocator names the font resource the FontSource was built from. Informational only.
	FontLocator string `json:"fontLocator,omitempty"`
}

// Validate checks the ranges of every field.
func (c LayoutConfig) Validate() error {
	if !(c.MaxTextToHeightRatio > 0 && c.MaxTextToHeightRatio <= 1) {
		return fmt.Errorf("%w: max_text_to_height_ratio %v not in (0, 1]", ErrInvalidLayout, c.MaxTextToHeightRatio)
	}
	if c.Margins.Vertical < 0 || c.Margins.Horizontal < 0 {
		return fmt.Errorf("%w: margins must be non-negative, got vertical=%d horizontal=%d",
			ErrInvalidLayout, c.Margins.Vertical, c.Margins.Horizontal)
	}
	if c.MaxFontSize < 0 {
		return fmt.Errorf("%w: max_font_size must be non-negative, got %d", ErrInvalidLayout, c.MaxFontSize)
	}
	return nil
}

// Extent is the measured size of a caption line in pixels.
type Extent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Placement records where a caption line was drawn.
type Placement struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Placements holds the drawn caption lines; nil entries were absent.
type Placements struct {
	Top    *Placement `json:"top,omitempty"`
	Bottom *Placement `json:"bottom,omitempty"`
}

// Result is the outcome of Create. Image is the same handle that was passed in.
type Result struct {
	Image      draw.Image   `json:"-"`
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	Caption    Caption      `json:"caption"`
	Layout     LayoutConfig `json:"layout"`
	Budget     Budget       `json:"budget"`
	Candidates []int        `json:"candidates"`
	FontSize   int          `json:"fontSize"`
	Placements Placements   `json:"placements"`
}
