// Package templates discovers meme template images and reads pull lists.
package templates

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
)

// ErrNotFound is returned by Index.Lookup for unknown names.
var ErrNotFound = errors.New("templates: template not found")

// Template is an image file usable as a meme background.
type Template struct {
	Path string `json:"path"`
	// Name is the human friendly form of the file stem.
	Name string `json:"name"`
	// Key is the sha256 hex digest of Path and stays stable while the file does not move.
	Key  string `json:"key"`
	Stem string `json:"stem"`
}

// New describes the template at path.
func New(path string) Template {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sum := sha256.Sum256([]byte(path))
	return Template{
		Path: path,
		Name: NiceName(stem),
		Key:  hex.EncodeToString(sum[:]),
		Stem: stem,
	}
}

// NiceName turns a file stem like "one_doesNot-simply" into "One Does Not Simply".
func NiceName(stem string) string {
	stem = strings.NewReplacer("_", " ", "-", " ").Replace(stem)

	var b strings.Builder
	var prev rune
	for i, r := range stem {
		if unicode.IsUpper(r) && i > 0 && prev != ' ' {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	words := strings.Fields(b.String())
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// Index holds discovered templates by name.
type Index struct {
	byName map[string]Template
}

// Discover scans searchPaths in order. A search path that is a file is taken
// as a template; a directory contributes its files matching extensions, without
// recursing. When two files share a name the first one wins. Missing search
// paths are skipped.
func Discover(searchPaths, extensions []string, logger *slog.Logger) (*Index, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	idx := &Index{byName: map[string]Template{}}

	for _, root := range searchPaths {
		info, err := os.Stat(root)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.Debug("template search path does not exist", slog.String("path", root))
				continue
			}
			return nil, fmt.Errorf("templates: stat %s: %w", root, err)
		}
		if !info.IsDir() {
			idx.add(New(root), logger)
			continue
		}
		for _, ext := range extensions {
			ext = strings.TrimPrefix(ext, ".")
			matches, err := filepath.Glob(filepath.Join(root, "*."+ext))
			if err != nil {
				return nil, fmt.Errorf("templates: scan %s: %w", root, err)
			}
			sort.Strings(matches)
			for _, m := range matches {
				if fi, err := os.Stat(m); err != nil || fi.IsDir() {
					continue
				}
				idx.add(New(m), logger)
			}
		}
	}
	return idx, nil
}

func (idx *Index) add(t Template, logger *slog.Logger) {
	if existing, ok := idx.byName[t.Name]; ok {
		if existing.Path != t.Path {
			logger.Warn("template name clash, keeping the first",
				slog.String("name", t.Name),
				slog.String("kept", existing.Path),
				slog.String("skipped", t.Path))
		}
		return
	}
	idx.byName[t.Name] = t
}

// Len returns the number of templates.
func (idx *Index) Len() int { return len(idx.byName) }

// All returns the templates sorted by name.
func (idx *Index) All() []Template {
	out := make([]Template, 0, len(idx.byName))
	for _, t := range idx.byName {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup finds a template by name. An exact match is preferred over a
// case-insensitive one.
func (idx *Index) Lookup(name string) (Template, error) {
	if t, ok := idx.byName[name]; ok {
		return t, nil
	}
	for _, t := range idx.All() {
		if strings.EqualFold(t.Name, strings.TrimSpace(name)) {
			return t, nil
		}
	}
	return Template{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Search returns the templates whose name, key or path contain phrase,
// ignoring case. Separators are also ignored, so "onedoes" finds
// "one_does_not_simply.jpg".
func (idx *Index) Search(phrase string) []Template {
	phrase = strings.ToLower(strings.Trim(strings.TrimSpace(phrase), `"'`))
	var out []Template
	for _, t := range idx.All() {
		if matches(t, phrase) {
			out = append(out, t)
		}
	}
	return out
}

var separators = strings.NewReplacer("-", "", "_", "", ".", "", "/", "", `\`, "", " ", "")

func matches(t Template, phrase string) bool {
	body := strings.ToLower(t.Name + t.Key + t.Path)
	return strings.Contains(body, phrase) || strings.Contains(separators.Replace(body), phrase)
}
