package fonts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileName(t *testing.T) {
	cases := []struct {
		spec Spec
		want string
	}{
		{Spec{Name: "impact", Extension: "ttf"}, "impact.ttf"},
		{Spec{Name: "impact", Extension: ".ttf"}, "impact.ttf"},
		{Spec{Name: "impact.ttf", Extension: "ttf"}, "impact.ttf"},
		{Spec{Name: "impact.otf"}, "impact.otf"},
		{Spec{Name: "impact"}, "impact"},
	}
	for _, tc := range cases {
		if got := tc.spec.FileName(); got != tc.want {
			t.Fatalf("%+v.FileName() = %q, want %q", tc.spec, got, tc.want)
		}
	}
}

func TestResolveBuiltinFirst(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go-bold.ttf"), []byte("shadow"), 0o644); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"go-bold", "go-bold.ttf", "builtin:go-bold"} {
		got, err := Resolve(Spec{Name: name, Extension: "ttf", SearchPaths: []string{dir}})
		if err != nil {
			t.Fatalf("resolve %q: %v", name, err)
		}
		if got != "builtin:go-bold" {
			t.Fatalf("resolve %q = %q, want builtin:go-bold", name, got)
		}
	}
}

func TestResolveSearchPathsInOrder(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(second, "impact.ttf"), []byte("b"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Resolve(Spec{Name: "impact", Extension: ".ttf", SearchPaths: []string{first, second}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != filepath.Join(second, "impact.ttf") {
		t.Fatalf("got %q", got)
	}

	if err := os.WriteFile(filepath.Join(first, "impact.ttf"), []byte("a"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = Resolve(Spec{Name: "impact", Extension: ".ttf", SearchPaths: []string{first, second}})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != filepath.Join(first, "impact.ttf") {
		t.Fatalf("expected the first search path to win, got %q", got)
	}
}

func TestResolveSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "impact.ttf"), 0o755); err != nil {
		t.Fatal(err)
	}
	_, err := Resolve(Spec{Name: "impact.ttf", SearchPaths: []string{dir}})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestResolveEmptyName(t *testing.T) {
	if _, err := Resolve(Spec{Name: "  "}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoad(t *testing.T) {
	for _, name := range Builtins() {
		data, err := Load(BuiltinPrefix + name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if len(data) == 0 {
			t.Fatalf("%s is empty", name)
		}
	}

	if _, err := Load("builtin:comic-sans"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.ttf")); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}

	path := filepath.Join(t.TempDir(), "f.ttf")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, err := Load(path)
	if err != nil || string(data) != "abc" {
		t.Fatalf("load file = %q, %v", data, err)
	}
}
