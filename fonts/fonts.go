// Package fonts resolves caption font locators and loads font bytes.
//
// A locator is either "builtin:<name>" for one of the Go fonts compiled into
// the binary, or a path to a font file on disk.
package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// BuiltinPrefix marks locators served from the compiled-in fonts.
const BuiltinPrefix = "builtin:"

// DefaultName is the font used when the configuration does not name one.
const DefaultName = "go-bold"

// ErrNotFound is returned when a font cannot be found anywhere.
var ErrNotFound = errors.New("fonts: font not found")

var builtins = map[string][]byte{
	"go-regular":     goregular.TTF,
	"go-medium":      gomedium.TTF,
	"go-bold":        gobold.TTF,
	"go-bold-italic": gobolditalic.TTF,
	"go-mono-bold":   gomonobold.TTF,
}

// Builtins lists the names of the compiled-in fonts.
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Spec describes where to look for a font.
type Spec struct {
	// Name may or may not carry the extension.
	Name        string   `yaml:"name"`
	SearchPaths []string `yaml:"search_paths"`
	Extension   string   `yaml:"extension,omitempty"`
}

// FileName returns Name with Extension appended unless it already ends with it.
// The extension may be given with or without the leading dot.
func (s Spec) FileName() string {
	if s.Extension == "" || strings.HasSuffix(s.Name, s.Extension) {
		return s.Name
	}
	if strings.HasPrefix(s.Extension, ".") {
		return s.Name + s.Extension
	}
	return s.Name + "." + s.Extension
}

// Resolve turns s into a locator. Built-in fonts are checked first, then each
// search path in order.
func Resolve(s Spec) (string, error) {
	if strings.TrimSpace(s.Name) == "" {
		return "", fmt.Errorf("fonts: empty font name")
	}
	if name, ok := builtinName(s.Name); ok {
		return BuiltinPrefix + name, nil
	}
	if name, ok := builtinName(s.FileName()); ok {
		return BuiltinPrefix + name, nil
	}

	file := s.FileName()
	if filepath.IsAbs(file) && isFile(file) {
		return file, nil
	}
	for _, dir := range s.SearchPaths {
		candidate := filepath.Join(expandHome(dir), file)
		if isFile(candidate) {
			abs, err := filepath.Abs(candidate)
			if err != nil {
				return candidate, nil
			}
			return abs, nil
		}
	}
	return "", fmt.Errorf("%w: %q (looked at built-in fonts and %v)", ErrNotFound, file, s.SearchPaths)
}

// Load returns the bytes behind a locator.
func Load(locator string) ([]byte, error) {
	if name, ok := strings.CutPrefix(locator, BuiltinPrefix); ok {
		data, found := builtins[name]
		if !found {
			return nil, fmt.Errorf("%w: built-in font %q (available: %s)", ErrNotFound, name, strings.Join(Builtins(), ", "))
		}
		return data, nil
	}
	data, err := os.ReadFile(locator)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, locator)
		}
		return nil, fmt.Errorf("fonts: read %s: %w", locator, err)
	}
	return data, nil
}

// builtinName accepts "go-bold", "builtin:go-bold" and "go-bold.ttf".
func builtinName(name string) (string, bool) {
	name = strings.TrimPrefix(name, BuiltinPrefix)
	name = strings.TrimSuffix(name, ".ttf")
	_, ok := builtins[name]
	return name, ok
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func expandHome(dir string) string {
	if rest, ok := strings.CutPrefix(dir, "~"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return dir
}
