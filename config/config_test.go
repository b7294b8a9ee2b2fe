package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}
}

func TestLoadWritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Text.MaxTextToHeightRatio != 0.2 {
		t.Fatalf("ratio = %v", cfg.Text.MaxTextToHeightRatio)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default file not written: %v", err)
	}

	again, err := Load(path, nil)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if again.Text.Margins != cfg.Text.Margins || again.Images.Remote != cfg.Images.Remote {
		t.Fatalf("round trip changed the configuration: %+v vs %+v", again, cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
text:
  max_text_to_height_ratio: 0.5
  margins:
    vertical: 3
    horizontal: 4
  font:
    name: impact
    extension: .ttf
    search_paths: [/usr/share/fonts]
interface:
  log_level: debug
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Text.MaxTextToHeightRatio != 0.5 || cfg.Text.Margins.Vertical != 3 || cfg.Text.Margins.Horizontal != 4 {
		t.Fatalf("text = %+v", cfg.Text)
	}
	if cfg.Text.Font.FileName() != "impact.ttf" {
		t.Fatalf("font file = %q", cfg.Text.Font.FileName())
	}
	if cfg.Text.Backend != "canvas" {
		t.Fatalf("backend default lost: %q", cfg.Text.Backend)
	}
	if cfg.Images.Remote.Timeout != 10 || cfg.Timeout() != 10*time.Second {
		t.Fatalf("remote default lost: %+v", cfg.Images.Remote)
	}
	level, err := cfg.LogLevel()
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("level = %v, %v", level, err)
	}

	layout := cfg.Layout("builtin:go-bold")
	if layout.MaxTextToHeightRatio != 0.5 || layout.Margins.Horizontal != 4 || layout.FontLocator != "builtin:go-bold" {
		t.Fatalf("layout = %+v", layout)
	}
	if err := layout.Validate(); err != nil {
		t.Fatalf("layout invalid: %v", err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"ratio":       "text:\n  max_text_to_height_ratio: 1.5\n",
		"margin":      "text:\n  margins:\n    vertical: -1\n",
		"timeout":     "images:\n  remote:\n    timeout: 0\n",
		"format":      "images:\n  output:\n    format: webp\n",
		"level":       "interface:\n  log_level: loud\n",
		"concurrency": "images:\n  remote:\n    concurrency: 0\n",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path, nil)
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("text:\n  colour: red\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDumpUsesSnakeCase(t *testing.T) {
	data, err := Default().Dump()
	if err != nil {
		t.Fatalf("dump: %v", err)
	}
	for _, key := range []string{"max_text_to_height_ratio:", "verify_ssl:", "search_paths:", "log_level:", "pull_dir:", "history_path:"} {
		if !strings.Contains(string(data), key) {
			t.Fatalf("dump missing %s:\n%s", key, data)
		}
	}
}

func TestPaths(t *testing.T) {
	if filepath.Base(Path()) != "config.yaml" || !strings.Contains(Path(), AppName) {
		t.Fatalf("Path() = %q", Path())
	}
	if filepath.Base(TemplatesDir()) != "templates" {
		t.Fatalf("TemplatesDir() = %q", TemplatesDir())
	}
}
