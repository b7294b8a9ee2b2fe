// Package binding resolves ${path} placeholders against nested data.
//
// Paths are dot separated map keys with optional list indexes, for example
// ${data.people[0].name}. A default can follow ":-", as in ${team:-ops}.
package binding

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ErrUnresolved is returned by InterpolateStrict for a placeholder whose path
// does not exist and that has no default.
var ErrUnresolved = errors.New("binding: unresolved placeholder")

// Interpolate replaces ${path} in text with values from data. Placeholders
// that cannot be resolved fall back to their default, or stay as written.
func Interpolate(text string, data any) string {
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		if val, ok := resolve(match, data); ok {
			return val
		}
		return match
	})
}

// InterpolateStrict is Interpolate that fails on the first placeholder it
// cannot resolve.
func InterpolateStrict(text string, data any) (string, error) {
	var firstErr error
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		if val, ok := resolve(match, data); ok {
			return val
		}
		if firstErr == nil {
			firstErr = fmt.Errorf("%w: %s", ErrUnresolved, match)
		}
		return match
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// Lookup returns the value at path inside data.
func Lookup(data any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if data == nil || path == "" {
		return nil, false
	}
	return resolvePath(data, path)
}

func resolve(match string, data any) (string, bool) {
	groups := exprPattern.FindStringSubmatch(match)
	if len(groups) < 2 {
		return "", false
	}
	path, def, hasDefault := strings.Cut(groups[1], ":-")
	if val, ok := Lookup(data, path); ok && val != nil {
		return fmt.Sprint(val), true
	}
	if hasDefault {
		return def, true
	}
	return "", false
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(segment string) (string, []string) {
	name := segment
	indexes := []string{}
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 {
			if rest[0] != '[' {
				break
			}
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
