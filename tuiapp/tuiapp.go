// Package tuiapp provides the dashboard app which shows the closest flight,
// the current candidate table, the quota status and the recent sighting log,
// updating once per poll cycle.
// Layout idea:
// +-------------------------------------------------+
// | DISPLAY MESSAGE (closest flight or weather)     |
// | quota month x/y day x/y hour x/y                |
// | last update / active window / flights in range  |
// |  ______________________      _________________  |
// | | flights in range     |    | recent sightings| |
// | | entry 0              |    | entry 0         | |
// | | ...                  |    | ...             | |
// |  ----------------------      -----------------  |
// +-------------------------------------------------+
// .
package tuiapp

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DiLuccaDev/FlightTracker/internal"
	"github.com/DiLuccaDev/FlightTracker/internal/history"
)

const logFileName = "flighttrack.log"

func Run(appName string, cfg *internal.Config, creds *internal.Credentials, verbose bool) {
	// The terminal belongs to the TUI, so logs go to a file.
	logFile, logErr := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if logErr != nil {
		logFile = os.Stderr
	}

	logger := internal.NewLogger(logFile, verbose)

	tracker, trackerErr := internal.NewTracker(appName, cfg, creds, logger)
	if trackerErr != nil {
		logger.Error("unable to create tracker, exiting", slog.Any("error", trackerErr))
		os.Exit(1)
	}

	sightings, historyErr := history.Open(cfg.HistoryFile)
	if historyErr != nil {
		logger.Warn("sighting history disabled", slog.Any("error", historyErr))
		sightings = nil
	}

	tableStyle := table.DefaultStyles()
	tableStyle.Selected = lipgloss.NewStyle().Background(Color.Highlight)

	planesTbl := table.New(
		table.WithColumns(
			[]table.Column{
				{Title: "FNO", Width: 8},
				{Title: "DST", Width: 8},
				{Title: "ALT", Width: 9},
				{Title: "SPD", Width: 8},
				{Title: "Model", Width: 20},
				{Title: "From", Width: 6},
				{Title: "To", Width: 6},
			},
		),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(16),
		table.WithStyles(tableStyle),
	)

	sightingsTbl := table.New(
		table.WithColumns(
			[]table.Column{
				{Title: "Seen", Width: 12},
				{Title: "FNO", Width: 8},
				{Title: "Route", Width: 14},
			},
		),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
		table.WithHeight(16),
		table.WithStyles(tableStyle),
	)

	m := model{
		baseStyle:    lipgloss.NewStyle(),
		tableStyle:   tableStyle,
		planesTbl:    planesTbl,
		sightingsTbl: sightingsTbl,
		tracker:      tracker,
		sightings:    sightings,
	}

	p := tea.NewProgram(&m, tea.WithAltScreen())

	if _, runErr := p.Run(); runErr != nil {
		logger.Error("error running program", slog.Any("error", runErr))
		os.Exit(1)
	}

	if sightings != nil {
		if closeErr := sightings.Close(); closeErr != nil {
			logger.Warn("failed to close sighting history", slog.Any("error", closeErr))
		}
	}
}
