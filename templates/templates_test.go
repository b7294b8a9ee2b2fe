package templates

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNiceName(t *testing.T) {
	cases := map[string]string{
		"one_does_not_simply":  "One Does Not Simply",
		"distracted-boyfriend": "Distracted Boyfriend",
		"drakeHotlineBling":    "Drake Hotline Bling",
		"UPPER_case":           "U P P E R Case",
		"  spaced__out ":       "Spaced Out",
		"":                     "",
	}
	for in, want := range cases {
		if got := NiceName(in); got != want {
			t.Fatalf("NiceName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "two_buttons.jpg")
	tpl := New(path)
	if tpl.Name != "Two Buttons" || tpl.Stem != "two_buttons" || tpl.Path != path {
		t.Fatalf("template = %+v", tpl)
	}
	if len(tpl.Key) != 64 {
		t.Fatalf("key %q is not a sha256 hex digest", tpl.Key)
	}
	if New(path).Key != tpl.Key {
		t.Fatalf("key is not stable")
	}
	if New(filepath.Join(dir, "other.jpg")).Key == tpl.Key {
		t.Fatalf("different paths share a key")
	}
}

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	touch(t, filepath.Join(a, "two_buttons.jpg"))
	touch(t, filepath.Join(a, "change-my-mind.png"))
	touch(t, filepath.Join(a, "notes.txt"))
	touch(t, filepath.Join(b, "two-buttons.png"))
	single := filepath.Join(t.TempDir(), "ancientAliens.gif")
	touch(t, single)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	idx, err := Discover([]string{a, b, single, filepath.Join(a, "missing")}, []string{"jpg", ".png"}, logger)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if idx.Len() != 3 {
		t.Fatalf("discovered %d templates: %+v", idx.Len(), idx.All())
	}

	tpl, err := idx.Lookup("Two Buttons")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if tpl.Path != filepath.Join(a, "two_buttons.jpg") {
		t.Fatalf("clash resolved to %s, want the first search path", tpl.Path)
	}
	if !strings.Contains(logs.String(), "template name clash") {
		t.Fatalf("clash was not logged: %s", logs.String())
	}

	if _, err := idx.Lookup("ancient aliens"); err != nil {
		t.Fatalf("case-insensitive lookup: %v", err)
	}
	if _, err := idx.Lookup("Nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	names := []string{}
	for _, tpl := range idx.All() {
		names = append(names, tpl.Name)
	}
	if strings.Join(names, ",") != "Ancient Aliens,Change My Mind,Two Buttons" {
		t.Fatalf("names = %v", names)
	}
}

func TestSearch(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "one_does_not_simply.jpg"))
	touch(t, filepath.Join(dir, "two_buttons.jpg"))
	idx, err := Discover([]string{dir}, []string{"jpg"}, nil)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	cases := map[string]int{
		"simply":      1,
		"ONE DOES":    1,
		"onedoesnot":  1,
		`"buttons"`:   1,
		"jpg":         2,
		"distracted":  0,
		"two_buttons": 1,
	}
	for phrase, want := range cases {
		if got := len(idx.Search(phrase)); got != want {
			t.Fatalf("Search(%q) found %d, want %d", phrase, got, want)
		}
	}
}

func TestPullLists(t *testing.T) {
	items, err := DefaultPullList()
	if err != nil {
		t.Fatalf("default list: %v", err)
	}
	if len(items) == 0 {
		t.Fatalf("default list is empty")
	}
	for _, it := range items {
		if !strings.HasPrefix(it.URL, "https://") {
			t.Fatalf("bad url %q", it.URL)
		}
	}

	path := filepath.Join(t.TempDir(), "pull.yaml")
	yml := "templates:\n  - url: https://example.com/a.jpg\n  - name: b\n    url: https://example.com/b.jpg\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	items, err = LoadPullList(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(items) != 2 || items[0].Name != "" || items[1].Name != "b" {
		t.Fatalf("items = %+v", items)
	}

	if _, err := ParsePullList([]byte("templates:\n  - name: x\n")); err == nil {
		t.Fatalf("expected error for missing url")
	}
}

func TestDedupe(t *testing.T) {
	in := []PullItem{
		{Name: "a", URL: "u1"},
		{Name: "b", URL: "u2"},
		{Name: "a", URL: "u1"},
		{URL: "u1"},
	}
	out := Dedupe(in)
	if len(out) != 3 || out[0] != in[0] || out[1] != in[1] || out[2] != in[3] {
		t.Fatalf("dedupe = %+v", out)
	}
}
