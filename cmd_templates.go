package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/piotrgredowski/memer-cli/catalog"
	"github.com/piotrgredowski/memer-cli/remote"
	"github.com/piotrgredowski/memer-cli/templates"
	"github.com/piotrgredowski/memer-cli/validation"
)

func (a *app) cmdTemplates(args []string) error {
	sub, rest, err := subcommand("templates", args, "list", "search", "pull")
	if err != nil {
		return err
	}
	switch sub {
	case "list":
		return a.templatesList(rest)
	case "search":
		return a.templatesSearch(rest)
	default:
		return a.templatesPull(rest)
	}
}

func (a *app) templatesList(args []string) error {
	fs := newFlagSet("templates list", a.stderr)
	verbose := fs.Bool("v", false, "also show path, key and source URL")
	if err := fs.Parse(args); err != nil {
		return err
	}
	index, err := a.discover()
	if err != nil {
		return err
	}
	if !*verbose {
		return a.printTemplates(index.All(), nil)
	}
	return a.printTemplates(index.All(), a.pullSources())
}

func (a *app) templatesSearch(args []string) error {
	fs := newFlagSet("templates search", a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	phrase := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(phrase) == "" {
		return fmt.Errorf("templates search: missing phrase")
	}
	index, err := a.discover()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Search results for %q:\n", phrase)
	return a.printTemplates(index.Search(phrase), a.pullSources())
}

// printTemplates prints names only when sources is nil.
func (a *app) printTemplates(list []templates.Template, sources map[string]string) error {
	if len(list) == 0 {
		fmt.Fprintln(a.stdout, "No templates found.")
		return nil
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	if sources == nil {
		fmt.Fprintln(tw, "NAME")
		for _, t := range list {
			fmt.Fprintln(tw, t.Name)
		}
		return tw.Flush()
	}
	fmt.Fprintln(tw, "NAME\tPATH\tKEY\tSOURCE")
	for _, t := range list {
		source := sources[t.Path]
		if source == "" {
			source = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.Name, t.Path, t.Key, source)
	}
	return tw.Flush()
}

func (a *app) pullSources() map[string]string {
	c := a.openCatalog()
	if c == nil {
		return map[string]string{}
	}
	defer c.Close()
	sources, err := c.Sources(context.Background())
	if err != nil {
		a.logger.Warn("failed to read pull history", slog.Any("error", err))
		return map[string]string{}
	}
	return sources
}

func (a *app) templatesPull(args []string) error {
	fs := newFlagSet("templates pull", a.stderr)
	url := fs.String("u", "", "URL of a template to pull")
	name := fs.String("n", "", "name to save the -u template as")
	fromFile := fs.String("f", "", "YAML pull list (templates: [{name, url}])")
	defaults := fs.Bool("d", false, "pull the built-in list of popular templates")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var items []templates.PullItem
	if *url != "" {
		u, err := validation.URL(*url)
		if err != nil {
			return err
		}
		items = append(items, templates.PullItem{Name: *name, URL: u})
	}
	if *fromFile != "" {
		list, err := templates.LoadPullList(*fromFile)
		if err != nil {
			return err
		}
		items = append(items, list...)
	}
	if *defaults {
		a.logger.Debug("pulling default templates")
		list, err := templates.DefaultPullList()
		if err != nil {
			return err
		}
		items = append(items, list...)
	}
	items = templates.Dedupe(items)
	if len(items) == 0 {
		return fmt.Errorf("templates pull: nothing to pull (use -u, -f or -d)")
	}

	work := make([]remote.Item, len(items))
	for i, it := range items {
		work[i] = remote.Item{Name: it.Name, URL: it.URL}
	}
	client := a.client
	if client == nil {
		client = remote.NewClient(a.cfg.Timeout(), a.cfg.Images.Remote.VerifySSL)
	}

	fmt.Fprintf(a.stdout, "Pulling %d templates:\n", len(work))
	ctx := context.Background()
	outcomes := remote.PullAll(ctx, client, work, a.cfg.Images.Templates.PullDir, a.cfg.Images.Remote.Concurrency, a.logger)

	c := a.openCatalog()
	if c != nil {
		defer c.Close()
	}
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		fmt.Fprintf(a.stdout, "Template downloaded to: %s\n", o.Path)
		if c != nil {
			if err := c.RecordPull(ctx, catalog.Pull{Path: o.Path, Name: o.Item.Name, URL: o.Item.URL}); err != nil {
				a.logger.Warn("failed to record pull", slog.Any("error", err))
			}
		}
	}

	failed := remote.Failed(outcomes)
	fmt.Fprintf(a.stdout, "Successfully pulled %d templates\n", len(outcomes)-len(failed))
	if len(failed) == 0 {
		return nil
	}

	fmt.Fprintln(a.stdout, "Error while pulling templates (please check the provided URL(s)):")
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tURL\tERROR")
	for _, o := range failed {
		n := o.Item.Name
		if n == "" {
			n = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%v\n", n, o.Item.URL, o.Err)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return fmt.Errorf("templates pull: %d of %d downloads failed", len(failed), len(outcomes))
}
