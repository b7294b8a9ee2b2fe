package freetype

import (
	"testing"

	"golang.org/x/image/font/gofont/gomonobold"

	"github.com/piotrgredowski/memer-cli/renderer/rendertest"
)

func TestBackend(t *testing.T) {
	rendertest.Run(t, Backend{}, gomonobold.TTF)
}

func TestParseGarbage(t *testing.T) {
	if _, err := (Backend{}).FontSource([]byte("definitely not truetype")); err == nil {
		t.Fatalf("expected parse error")
	}
}
