package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/piotrgredowski/memer-cli/config"
	"github.com/piotrgredowski/memer-cli/meme"
	"github.com/piotrgredowski/memer-cli/renderer"
	canvasrenderer "github.com/piotrgredowski/memer-cli/renderer/canvas"
	"github.com/piotrgredowski/memer-cli/renderer/freetype"
	"github.com/piotrgredowski/memer-cli/renderer/opentype"
)

const usage = `memer: a CLI for all of your meme needs.

Usage:
  memer [-v] [-config PATH] <command> [flags]

Commands:
  create      caption a template and save the meme
  batch       create every meme described in a batch script
  templates   list, search or pull templates
  config      show, locate or edit the configuration
  history     list recently created memes
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// app carries what every command needs. It is built once per invocation.
type app struct {
	cfgPath  string
	cfg      *config.Configuration
	logger   *slog.Logger
	level    *slog.LevelVar
	stdout   io.Writer
	stderr   io.Writer
	backends renderer.Set
	client   *http.Client
	now      func() time.Time

	sources map[string]meme.FontSource
}

// run executes one command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("memer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	verbose := fs.Bool("v", false, "enable debug logging")
	cfgPath := fs.String("config", config.Path(), "configuration file path")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	a := &app{
		cfgPath:  *cfgPath,
		level:    new(slog.LevelVar),
		stdout:   stdout,
		stderr:   stderr,
		backends: renderer.NewSet(canvasrenderer.NewRenderer(), opentype.Backend{}, freetype.Backend{}),
		now:      time.Now,
		sources:  map[string]meme.FontSource{},
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: a.level}))
	if *verbose {
		a.level.Set(slog.LevelDebug)
		a.logger.Debug("debug mode enabled")
	}

	if err := a.dispatch(fs.Arg(0), fs.Args()[1:], *verbose); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		a.logger.Debug("command failed", slog.Any("error", err))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) dispatch(cmd string, args []string, verbose bool) error {
	// "config path" and "config edit" work even when the configuration is broken.
	if cmd == "config" && len(args) > 0 && (args[0] == "path" || args[0] == "edit") {
		return a.cmdConfig(args)
	}

	cfg, err := config.Load(a.cfgPath, a.logger)
	if err != nil {
		return err
	}
	a.cfg = cfg
	if !verbose {
		level, _ := cfg.LogLevel()
		a.level.Set(level)
	}

	switch cmd {
	case "create":
		return a.cmdCreate(args)
	case "batch":
		return a.cmdBatch(args)
	case "templates", "template":
		return a.cmdTemplates(args)
	case "config":
		return a.cmdConfig(args)
	case "history":
		return a.cmdHistory(args)
	default:
		return fmt.Errorf("unknown command %q (see memer -h)", cmd)
	}
}

// subcommand splits "group sub args..." and reports a helpful error.
func subcommand(group string, args []string, known ...string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("%s: missing subcommand (one of %s)", group, strings.Join(known, ", "))
	}
	for _, k := range known {
		if args[0] == k {
			return k, args[1:], nil
		}
	}
	return "", nil, fmt.Errorf("%s: unknown subcommand %q (one of %s)", group, args[0], strings.Join(known, ", "))
}

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}
