package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piotrgredowski/memer-cli/meme"
)

// Backend turns raw font file bytes into a meme.FontSource that can measure
// and draw captions at any integer pixel size.
type Backend interface {
	Name() string
	FontSource(data []byte) (meme.FontSource, error)
}

// Set is a lookup table of backends by name.
type Set map[string]Backend

// NewSet indexes backends by their Name.
func NewSet(backends ...Backend) Set {
	s := make(Set, len(backends))
	for _, b := range backends {
		s[b.Name()] = b
	}
	return s
}

// Lookup returns the backend registered under name.
func (s Set) Lookup(name string) (Backend, error) {
	b, ok := s[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("renderer: unknown backend %q (available: %s)", name, strings.Join(s.Names(), ", "))
	}
	return b, nil
}

// Names returns the registered backend names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
