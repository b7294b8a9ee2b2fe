// Package validation checks user input before it reaches the filesystem,
// the network or the caption renderer.
package validation

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	// MaxTextLength is the longest accepted caption, in characters.
	MaxTextLength = 1000
	// MaxNameLength applies to template names and sanitized file names.
	MaxNameLength = 255
)

// Error is returned for every rejected input.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}

func fail(field, format string, args ...any) error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// FilePath rejects traversal and system paths, resolves path to an absolute
// path and, when mustExist is set, checks that it exists.
func FilePath(path string, mustExist bool) (string, error) {
	if strings.Contains(path, "..") || strings.HasPrefix(path, "/etc") || strings.HasPrefix(path, "/proc") {
		return "", fail("path", "unsafe file path %q", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fail("path", "invalid file path %q", path)
	}
	if mustExist {
		if _, err := os.Stat(abs); err != nil {
			return "", fail("path", "file does not exist: %s", path)
		}
	}
	return abs, nil
}

// TemplateName trims name and rejects empty, overlong or unsafe names.
func TemplateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fail("template name", "cannot be empty")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fail("template name", "too long (max %d characters)", MaxNameLength)
	}
	if strings.IndexFunc(name, reservedRune) >= 0 {
		return "", fail("template name", "contains invalid characters")
	}
	return name, nil
}

// URL accepts absolute http and https URLs with a host.
func URL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fail("url", "cannot be empty")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fail("url", "invalid URL format: %s", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fail("url", "unsupported URL scheme: %s", u.Scheme)
	}
	return raw, nil
}

// Text limits caption length and strips control characters other than
// newline, tab and carriage return.
func Text(text string) (string, error) {
	if utf8.RuneCountInString(text) > MaxTextLength {
		return "", fail("text", "too long (max %d characters)", MaxTextLength)
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n', r == '\t', r == '\r':
			return r
		case r < 0x20, r == 0x7f:
			return -1
		}
		return r
	}, text), nil
}

// SanitizeFilename replaces reserved characters with underscores, trims
// spaces and dots and falls back to "untitled".
func SanitizeFilename(name string) string {
	sanitized := strings.Map(func(r rune) rune {
		if reservedRune(r) {
			return '_'
		}
		return r
	}, name)
	sanitized = strings.Trim(sanitized, " .")
	if sanitized == "" {
		return "untitled"
	}
	if runes := []rune(sanitized); len(runes) > MaxNameLength {
		sanitized = string(runes[:MaxNameLength])
	}
	return sanitized
}

func reservedRune(r rune) bool {
	return r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r)
}
