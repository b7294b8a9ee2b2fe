package imageio

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
)

func TestSaveAndLoad(t *testing.T) {
	src := imaging.New(30, 20, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	dir := t.TempDir()

	for _, name := range []string{"out.png", "nested/out.jpg", "out.gif"} {
		path := filepath.Join(dir, name)
		if err := Save(src, path); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
		img, err := Load(path)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if img.Bounds() != image.Rect(0, 0, 30, 20) {
			t.Fatalf("%s bounds = %v", name, img.Bounds())
		}
	}

	png, err := Load(filepath.Join(dir, "out.png"))
	if err != nil {
		t.Fatal(err)
	}
	if got := png.NRGBAAt(5, 5); got != (color.NRGBA{R: 200, G: 10, B: 10, A: 255}) {
		t.Fatalf("png pixel = %v", got)
	}
}

func TestSaveUnknownFormat(t *testing.T) {
	if err := Save(imaging.New(1, 1, color.Black), filepath.Join(t.TempDir(), "out.webp")); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2024, 5, 1, 13, 37, 0, 0, time.UTC)
	got := DefaultOutputPath("/tmp/memes", "two_buttons", ".PNG", now)
	if got != filepath.Join("/tmp/memes", "two_buttons_2024-05-01_13-37-00.png") {
		t.Fatalf("got %s", got)
	}
	if got := DefaultOutputPath("d", "x", "", now); filepath.Ext(got) != ".png" {
		t.Fatalf("empty format gave %s", got)
	}
}
