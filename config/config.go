// Package config loads and saves the memer YAML configuration.
//
// A Configuration is loaded once and treated as immutable. Values derived from
// it, like the resolved font or the discovered templates, are computed by the
// packages that need them.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/piotrgredowski/memer-cli/fonts"
	"github.com/piotrgredowski/memer-cli/meme"
)

// AppName names the per-user config and data directories.
const AppName = "memer"

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

// Configuration is the root of config.yaml.
type Configuration struct {
	Text      Text      `yaml:"text"`
	Images    Images    `yaml:"images"`
	Interface Interface `yaml:"interface"`
}

// Text holds caption layout settings.
type Text struct {
	MaxTextToHeightRatio float64 `yaml:"max_text_to_height_ratio"`
	// MaxFontSize of 0 leaves the font size search unbounded.
	MaxFontSize int          `yaml:"max_font_size"`
	Backend     string       `yaml:"backend"`
	Margins     meme.Margins `yaml:"margins"`
	Font        fonts.Spec   `yaml:"font"`
}

type Images struct {
	Templates Templates `yaml:"templates"`
	Remote    Remote    `yaml:"remote"`
	Output    Output    `yaml:"output"`
}

// Templates lists where template images are discovered. A search path may
// also point at a single file. Pulled templates are saved to PullDir.
type Templates struct {
	Extensions  []string `yaml:"extensions"`
	SearchPaths []string `yaml:"search_paths"`
	PullDir     string   `yaml:"pull_dir"`
}

// Remote configures template downloads. Timeout is in seconds.
type Remote struct {
	Timeout     int  `yaml:"timeout"`
	VerifySSL   bool `yaml:"verify_ssl"`
	Concurrency int  `yaml:"concurrency"`
}

type Output struct {
	Format string `yaml:"format"`
}

type Interface struct {
	LogLevel string `yaml:"log_level"`
	// HistoryPath is the sqlite history database; empty disables history.
	HistoryPath string `yaml:"history_path"`
}

// OutputFormats are the accepted values of images.output.format.
var OutputFormats = []string{"png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff"}

// Default returns the built-in configuration.
func Default() *Configuration {
	return &Configuration{
		Text: Text{
			MaxTextToHeightRatio: 0.2,
			Backend:              "canvas",
			Margins:              meme.Margins{Vertical: 20, Horizontal: 10},
			Font: fonts.Spec{
				Name:        fonts.DefaultName,
				SearchPaths: []string{},
				Extension:   "ttf",
			},
		},
		Images: Images{
			Templates: Templates{
				Extensions:  []string{"jpg", "jpeg", "png"},
				SearchPaths: []string{TemplatesDir()},
				PullDir:     TemplatesDir(),
			},
			Remote: Remote{
				Timeout:     10,
				VerifySSL:   true,
				Concurrency: 4,
			},
			Output: Output{Format: "png"},
		},
		Interface: Interface{
			LogLevel:    "info",
			HistoryPath: CatalogPath(),
		},
	}
}

// Path is the default location of config.yaml.
func Path() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// TemplatesDir is where pulled templates are stored.
func TemplatesDir() string {
	return filepath.Join(xdg.DataHome, AppName, "templates")
}

// CatalogPath is the sqlite database recording pulled templates.
func CatalogPath() string {
	return filepath.Join(xdg.DataHome, AppName, "catalog.db")
}

// Load reads the configuration at path. Keys missing from the file keep their
// default values. When the file does not exist the defaults are written to
// path and returned.
func Load(path string, logger *slog.Logger) (*Configuration, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		logger.Info("configuration file not found, generating one from defaults", slog.String("path", path))
		if err := cfg.Save(path); err != nil {
			// Defaults still work without a file on disk.
			logger.Warn("failed to write default configuration", slog.String("path", path), slog.Any("error", err))
		}
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	logger.Debug("configuration loaded", slog.String("path", path))
	return cfg, nil
}

// Save writes c to path atomically, creating parent directories.
func (c *Configuration) Save(path string) error {
	data, err := c.Dump()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Dump renders c as YAML.
func (c *Configuration) Dump() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Validate checks every section and reports the first problem.
func (c *Configuration) Validate() error {
	t := c.Text
	if !(t.MaxTextToHeightRatio > 0 && t.MaxTextToHeightRatio <= 1) {
		return fmt.Errorf("%w: text.max_text_to_height_ratio must be in (0, 1], got %v", ErrInvalid, t.MaxTextToHeightRatio)
	}
	if t.MaxFontSize < 0 {
		return fmt.Errorf("%w: text.max_font_size must be >= 0, got %d", ErrInvalid, t.MaxFontSize)
	}
	if t.Margins.Vertical < 0 || t.Margins.Horizontal < 0 {
		return fmt.Errorf("%w: text.margins must be >= 0, got %+v", ErrInvalid, t.Margins)
	}
	if strings.TrimSpace(t.Backend) == "" {
		return fmt.Errorf("%w: text.backend is empty", ErrInvalid)
	}
	if strings.TrimSpace(t.Font.Name) == "" {
		return fmt.Errorf("%w: text.font.name is empty", ErrInvalid)
	}
	if len(c.Images.Templates.Extensions) == 0 {
		return fmt.Errorf("%w: images.templates.extensions is empty", ErrInvalid)
	}
	if strings.TrimSpace(c.Images.Templates.PullDir) == "" {
		return fmt.Errorf("%w: images.templates.pull_dir is empty", ErrInvalid)
	}
	if c.Images.Remote.Timeout <= 0 {
		return fmt.Errorf("%w: images.remote.timeout must be > 0, got %d", ErrInvalid, c.Images.Remote.Timeout)
	}
	if c.Images.Remote.Concurrency < 1 {
		return fmt.Errorf("%w: images.remote.concurrency must be >= 1, got %d", ErrInvalid, c.Images.Remote.Concurrency)
	}
	if !validFormat(c.Images.Output.Format) {
		return fmt.Errorf("%w: images.output.format %q is not one of %v", ErrInvalid, c.Images.Output.Format, OutputFormats)
	}
	if _, err := c.LogLevel(); err != nil {
		return fmt.Errorf("%w: interface.log_level: %v", ErrInvalid, err)
	}
	return nil
}

// Layout builds the caption layout for a resolved font locator.
func (c *Configuration) Layout(fontLocator string) meme.LayoutConfig {
	return meme.LayoutConfig{
		MaxTextToHeightRatio: c.Text.MaxTextToHeightRatio,
		Margins:              c.Text.Margins,
		MaxFontSize:          c.Text.MaxFontSize,
		FontLocator:          fontLocator,
	}
}

// Timeout is the download timeout as a duration.
func (c *Configuration) Timeout() time.Duration {
	return time.Duration(c.Images.Remote.Timeout) * time.Second
}

// LogLevel parses interface.log_level.
func (c *Configuration) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Interface.LogLevel)); err != nil {
		return slog.LevelInfo, err
	}
	return level, nil
}

func validFormat(format string) bool {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
