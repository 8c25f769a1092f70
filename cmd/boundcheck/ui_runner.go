package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"boundcheck/internal/driver"
	"boundcheck/internal/registry"
	"boundcheck/internal/ui"
)

// runCheckWithUI runs driver.CheckModules while a Bubble Tea program renders
// live per-module progress: analysis runs in a goroutine feeding a buffered
// event channel, the TUI program drains it on the main goroutine, and both
// are joined before returning.
func runCheckWithUI(ctx context.Context, title string, reg *registry.Registry, units []driver.Unit, opts driver.Options) ([]driver.Result, error) {
	paths := make([]string, len(units))
	for i, u := range units {
		paths[i] = u.Path
	}

	events := make(chan driver.Event, 256)
	type outcome struct {
		results []driver.Result
		err     error
	}
	outcomeCh := make(chan outcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		results, err := driver.CheckModules(ctx, reg, units, optsCopy)
		outcomeCh <- outcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	out := <-outcomeCh
	if uiErr != nil {
		return out.results, uiErr
	}
	return out.results, out.err
}
