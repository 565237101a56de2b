package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"vtlint/internal/runner"
	"vtlint/internal/ui"
)

// uiMode is the value of --ui.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch m := uiMode(strings.ToLower(strings.TrimSpace(value))); m {
	case "":
		return uiModeOff, nil
	case uiModeAuto, uiModeOn, uiModeOff:
		return m, nil
	}
	return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// shouldUseTUI resolves auto. The view draws on stdout, so it stays off
// when stdout is not a terminal or carries the dump.
func shouldUseTUI(mode uiMode, dumpPath string) bool {
	if dumpPath == "-" {
		return false
	}
	switch mode {
	case uiModeOn:
		return true
	case uiModeAuto:
		return isTerminal(os.Stdout)
	}
	return false
}

type runOutcome struct {
	summary *runner.Summary
	err     error
}

// runWithUI drives r while a progress view renders its events. The view
// owns the terminal, so interrupts come in as keys and cancel the run.
func runWithUI(ctx context.Context, title string, files []string, r *runner.Runner) (*runner.Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan runner.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		res, err := r.WithProgress(runner.ChannelSink{Ch: events}).Run(ctx, files)
		outcomeCh <- runOutcome{summary: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events, cancel)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// stop the run and drain what is left so it can finish
		cancel()
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.summary, uiErr
	}
	return outcome.summary, outcome.err
}
