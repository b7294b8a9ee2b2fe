package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"
)

func (a *app) cmdHistory(args []string) error {
	fs := newFlagSet("history", a.stderr)
	limit := fs.Int("n", 10, "number of memes to show")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit < 1 {
		return fmt.Errorf("history: -n must be >= 1")
	}
	c := a.openCatalog()
	if c == nil {
		return fmt.Errorf("history: history is disabled (interface.history_path is empty) or unavailable")
	}
	defer c.Close()

	recent, err := c.Recent(context.Background(), *limit)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		fmt.Fprintln(a.stdout, "No memes created yet.")
		return nil
	}
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tSIZE\tTOP\tBOTTOM\tOUTPUT")
	for _, cr := range recent {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\n",
			cr.CreatedAt.Format(time.DateTime), cr.FontSize, cr.Top, cr.Bottom, cr.OutputPath)
	}
	return tw.Flush()
}
