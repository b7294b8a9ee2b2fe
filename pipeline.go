package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/piotrgredowski/memer-cli/catalog"
	"github.com/piotrgredowski/memer-cli/fonts"
	"github.com/piotrgredowski/memer-cli/imageio"
	"github.com/piotrgredowski/memer-cli/meme"
	"github.com/piotrgredowski/memer-cli/templates"
	"github.com/piotrgredowski/memer-cli/validation"
)

// memeRequest is one meme to produce, from either create or batch.
type memeRequest struct {
	Template    string
	Top         string
	Bottom      string
	Output      string
	MaxFontSize int
	DebugJSON   string
}

// makeMeme runs the whole pipeline for req and returns the saved path.
func (a *app) makeMeme(ctx context.Context, req memeRequest, index *templates.Index) (string, error) {
	top, err := validation.Text(req.Top)
	if err != nil {
		return "", err
	}
	bottom, err := validation.Text(req.Bottom)
	if err != nil {
		return "", err
	}
	caption, err := meme.NewCaption(top, bottom)
	if err != nil {
		return "", err
	}

	tpl, err := a.findTemplate(req.Template, index)
	if err != nil {
		return "", err
	}
	img, err := imageio.Load(tpl.Path)
	if err != nil {
		return "", err
	}

	locator, src, err := a.fontSource()
	if err != nil {
		return "", err
	}
	layout := a.cfg.Layout(locator)
	if req.MaxFontSize > 0 {
		layout.MaxFontSize = req.MaxFontSize
	}

	a.logger.Debug("creating meme",
		slog.String("template", tpl.Path),
		slog.String("font", locator),
		slog.String("backend", a.cfg.Text.Backend))
	res, err := meme.Create(img, caption, meme.Options{Layout: layout, Fonts: src, Logger: a.logger})
	if err != nil {
		return "", fmt.Errorf("caption %s: %w", tpl.Name, err)
	}

	out := req.Output
	if out == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determine working directory: %w", err)
		}
		out = imageio.DefaultOutputPath(cwd, tpl.Stem, a.cfg.Images.Output.Format, a.now())
	}
	out, err = filepath.Abs(out)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	if err := imageio.Save(res.Image, out); err != nil {
		return "", err
	}

	a.recordCreation(ctx, catalog.Creation{
		TemplatePath: tpl.Path,
		Top:          caption.Top,
		Bottom:       caption.Bottom,
		FontSize:     res.FontSize,
		OutputPath:   out,
	})
	if req.DebugJSON != "" {
		if err := meme.WriteDebugJSON(res, req.DebugJSON); err != nil {
			return out, fmt.Errorf("write fit report: %w", err)
		}
	}
	return out, nil
}

// findTemplate treats name as a path when such a file exists and as a
// template name otherwise.
func (a *app) findTemplate(name string, index *templates.Index) (templates.Template, error) {
	if info, err := os.Stat(name); err == nil && !info.IsDir() {
		path, err := validation.FilePath(name, true)
		if err != nil {
			return templates.Template{}, err
		}
		return templates.New(path), nil
	}
	name, err := validation.TemplateName(name)
	if err != nil {
		return templates.Template{}, err
	}
	if index == nil {
		if index, err = a.discover(); err != nil {
			return templates.Template{}, err
		}
	}
	return index.Lookup(name)
}

func (a *app) discover() (*templates.Index, error) {
	t := a.cfg.Images.Templates
	return templates.Discover(t.SearchPaths, t.Extensions, a.logger)
}

// fontSource resolves the configured font once per invocation and per backend.
func (a *app) fontSource() (string, meme.FontSource, error) {
	locator, err := fonts.Resolve(a.cfg.Text.Font)
	if err != nil {
		return "", nil, err
	}
	backend, err := a.backends.Lookup(a.cfg.Text.Backend)
	if err != nil {
		return "", nil, err
	}
	key := backend.Name() + "|" + locator
	if src, ok := a.sources[key]; ok {
		return locator, src, nil
	}
	data, err := fonts.Load(locator)
	if err != nil {
		return "", nil, err
	}
	src, err := backend.FontSource(data)
	if err != nil {
		return "", nil, err
	}
	a.sources[key] = src
	return locator, src, nil
}

// openCatalog returns nil when history is disabled or unavailable.
func (a *app) openCatalog() *catalog.Catalog {
	path := a.cfg.Interface.HistoryPath
	if path == "" {
		return nil
	}
	c, err := catalog.Open(path)
	if err != nil {
		a.logger.Warn("history unavailable", slog.String("path", path), slog.Any("error", err))
		return nil
	}
	return c
}

func (a *app) recordCreation(ctx context.Context, cr catalog.Creation) {
	c := a.openCatalog()
	if c == nil {
		return
	}
	defer c.Close()
	if _, err := c.RecordCreation(ctx, cr); err != nil {
		a.logger.Warn("failed to record meme", slog.Any("error", err))
	}
}
