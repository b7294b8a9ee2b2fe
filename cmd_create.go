package main

import (
	"context"
	"fmt"
)

func (a *app) cmdCreate(args []string) error {
	fs := newFlagSet("create", a.stderr)
	name := fs.String("n", "", "template name, or path to an image used as the template")
	top := fs.String("t", "", "top text")
	bottom := fs.String("b", "", "bottom text")
	out := fs.String("o", "", "output path (default <template>_<timestamp>.<format> in the working directory)")
	maxSize := fs.Int("max-font-size", 0, "cap the font size for this meme (0 uses the configuration)")
	debugJSON := fs.String("debug-json", "", "write the font fitting report as JSON to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("create: -n is required")
	}
	if *maxSize < 0 {
		return fmt.Errorf("create: -max-font-size must be >= 0")
	}

	path, err := a.makeMeme(context.Background(), memeRequest{
		Template:    *name,
		Top:         *top,
		Bottom:      *bottom,
		Output:      *out,
		MaxFontSize: *maxSize,
		DebugJSON:   *debugJSON,
	}, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Meme created! Find it at:")
	fmt.Fprintln(a.stdout, path)
	return nil
}
