package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/vidshelf/internal/shared"
	"github.com/desertthunder/vidshelf/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	logFile, err := shared.OpenLogFile(cmd.String("log-file"))
	if err != nil {
		return err
	}
	defer logFile.Close()
	r.SetLogger(logFile)

	lib, err := r.library()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, lib, ui.Options{Open: r.open})
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
