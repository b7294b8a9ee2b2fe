package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/piotrgredowski/memer-cli/dsl"
	"github.com/piotrgredowski/memer-cli/validation"
)

func (a *app) cmdBatch(args []string) error {
	fs := newFlagSet("batch", a.stderr)
	dataJSON := fs.String("data", "", "JSON document available to scripts as ${data...}")
	outDir := fs.String("out-dir", "", "directory for relative and default output paths (default: working directory)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("batch: expected exactly one script file")
	}

	var data any
	if *dataJSON != "" {
		if err := json.Unmarshal([]byte(*dataJSON), &data); err != nil {
			return fmt.Errorf("batch: parse -data JSON: %w", err)
		}
	}

	scriptPath := fs.Arg(0)
	file, err := os.Open(scriptPath)
	if err != nil {
		return fmt.Errorf("batch: open %s: %w", scriptPath, err)
	}
	defer file.Close()

	script, err := dsl.Parse(scriptPath, file)
	if err != nil {
		return fmt.Errorf("batch: parse: %w", err)
	}
	jobs, err := dsl.Compile(script, data)
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}
	if len(jobs) == 0 {
		return fmt.Errorf("batch: %s describes no memes", scriptPath)
	}

	index, err := a.discover()
	if err != nil {
		return err
	}

	ctx := context.Background()
	failed := 0
	written := map[string]string{}
	for i, job := range jobs {
		out := job.Output
		if out == "" {
			out = defaultBatchName(job.Template, i, a.cfg.Images.Output.Format)
		} else {
			out = filepath.Join(filepath.Dir(out), validation.SanitizeFilename(filepath.Base(out)))
		}
		// Relative paths land in -out-dir, or the working directory without it.
		if *outDir != "" && !filepath.IsAbs(out) {
			out = filepath.Join(*outDir, out)
		}

		if abs, err := filepath.Abs(out); err == nil {
			if prev, ok := written[abs]; ok {
				failed++
				fmt.Fprintf(a.stderr, "%s: output %s was already written by the meme at %s\n", job.Pos, abs, prev)
				continue
			}
			written[abs] = job.Pos.String()
		}

		path, err := a.makeMeme(ctx, memeRequest{
			Template:    job.Template,
			Top:         job.Top,
			Bottom:      job.Bottom,
			Output:      out,
			MaxFontSize: job.MaxFontSize,
		}, index)
		if err != nil {
			failed++
			a.logger.Error("meme failed", slog.String("at", job.Pos.String()), slog.Any("error", err))
			fmt.Fprintf(a.stderr, "%s: %v\n", job.Pos, err)
			continue
		}
		fmt.Fprintln(a.stdout, path)
	}
	if failed > 0 {
		return fmt.Errorf("batch: %d of %d memes failed", failed, len(jobs))
	}
	return nil
}

// defaultBatchName keeps memes from one batch apart even when they are made
// within the same second.
func defaultBatchName(template string, i int, format string) string {
	return fmt.Sprintf("%03d_%s.%s", i+1, validation.SanitizeFilename(template), format)
}
