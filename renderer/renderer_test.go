package renderer_test

import (
	"reflect"
	"testing"

	"github.com/piotrgredowski/memer-cli/meme"
	"github.com/piotrgredowski/memer-cli/renderer"
)

type namedBackend string

func (n namedBackend) Name() string                             { return string(n) }
func (namedBackend) FontSource([]byte) (meme.FontSource, error) { return nil, nil }

func TestSetLookup(t *testing.T) {
	set := renderer.NewSet(namedBackend("canvas"), namedBackend("opentype"))

	b, err := set.Lookup("  Canvas ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if b.Name() != "canvas" {
		t.Fatalf("got %q", b.Name())
	}
	if _, err := set.Lookup("cairo"); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if got, want := set.Names(), []string{"canvas", "opentype"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("names = %v, want %v", got, want)
	}
}
