package main

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/piotrgredowski/memer-cli/config"
)

func (a *app) cmdConfig(args []string) error {
	sub, _, err := subcommand("config", args, "show", "path", "edit")
	if err != nil {
		return err
	}
	switch sub {
	case "path":
		fmt.Fprintln(a.stdout, a.cfgPath)
		return nil
	case "edit":
		return a.editConfig()
	default:
		data, err := a.cfg.Dump()
		if err != nil {
			return err
		}
		_, err = a.stdout.Write(data)
		return err
	}
}

func (a *app) editConfig() error {
	if _, err := os.Stat(a.cfgPath); errors.Is(err, os.ErrNotExist) {
		if err := config.Default().Save(a.cfgPath); err != nil {
			return err
		}
	}
	editor := editorCommand()
	cmd := exec.Command(editor[0], append(editor[1:], a.cfgPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("config: run editor %q: %w", strings.Join(editor, " "), err)
	}
	if _, err := config.Load(a.cfgPath, a.logger); err != nil {
		return fmt.Errorf("edited configuration is invalid: %w", err)
	}
	return nil
}

// editorCommand reads $VISUAL, then $EDITOR, and falls back to vi.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	return []string{"vi"}
}
