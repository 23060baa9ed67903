// Package main provides the entry point for the Hourglass TUI planner.
//
// Hourglass is a capacity-constrained task-hour scheduler: you enter tasks
// with hour estimates, set a planning window, and spread the hours across
// the days of the window without ever overbooking a day.
//
// Usage:
//
//	hourglass [-data DIR] [-debug]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hourglassdev/hourglass/internal/app"
	"github.com/hourglassdev/hourglass/internal/store"
)

func main() {
	dataDir := flag.String("data", "", "directory for schedule data (default ~/.hourglass)")
	debug := flag.Bool("debug", false, "write debug logs to the data directory")
	flag.Parse()

	dir := *dataDir
	if dir == "" {
		dir = store.DefaultDir()
	}

	fs, err := store.NewFileStore(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data directory: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	if *debug {
		logFile, err := os.OpenFile(filepath.Join(dir, "hourglass.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			defer logFile.Close()
			logger = slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
		}
	}

	ts := store.New(fs, logger)
	ts.Load()
	ts.SubscribeCompletions(func(ev store.CompletionEvent) {
		logger.Debug("completion changed", "task", ev.TaskID, "date", ev.Date, "completed", ev.Completed)
	})

	model := app.New(ts, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
