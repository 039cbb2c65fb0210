package tuiapp

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/DiLuccaDev/FlightTracker/internal"
	"github.com/DiLuccaDev/FlightTracker/internal/history"
)

// model implements the bubbletea.Model interface and holds everything the
// dashboard shows: the latest cycle result, the candidate table and the
// recent sighting log.
type model struct {
	width  int
	height int

	baseStyle  lipgloss.Style
	tableStyle table.Styles

	planesTbl    table.Model
	sightingsTbl table.Model

	tracker   *internal.Tracker
	sightings *history.Store

	lastResult internal.CycleResult
	hasResult  bool
}

// Init kicks off the first poll cycle immediately.
func (m *model) Init() tea.Cmd {
	return runCycleCmd(m.tracker, m.sightings)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn // required by interface
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			if m.planesTbl.Focused() {
				m.planesTbl.Blur()
			} else {
				m.planesTbl.Focus()
			}
		case "up", "k":
			if m.planesTbl.Focused() {
				m.planesTbl.MoveUp(1)
			}
		case "down", "j":
			if m.planesTbl.Focused() {
				m.planesTbl.MoveDown(1)
			}
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case cycleTickMsg:
		return m, runCycleCmd(m.tracker, m.sightings)

	case cycleResultMsg:
		m.lastResult = msg.result
		m.hasResult = true
		m.planesTbl.SetRows(planeRows(msg.result.Planes))
		m.sightingsTbl.SetRows(sightingRows(msg.sightings))

		return m, scheduleNextCycle(m.tracker.SleepUntilNext())
	}

	return m, nil
}

func planeRows(planes []internal.EnrichedPlane) []table.Row {
	rows := make([]table.Row, 0, len(planes))
	for _, plane := range planes {
		rows = append(rows, table.Row{
			plane.Callsign,
			fmt.Sprintf("%d km", plane.Distance),
			fmt.Sprintf("%d ft", plane.Altitude),
			fmt.Sprintf("%d kt", plane.Speed),
			plane.Model,
			plane.Origin,
			plane.Destination,
		})
	}

	return rows
}

func sightingRows(sightings []history.Sighting) []table.Row {
	rows := make([]table.Row, 0, len(sightings))
	for _, sighting := range sightings {
		route := sighting.Origin + " > " + sighting.Destination
		rows = append(rows, table.Row{
			sighting.SeenAt.Format("01-02 15:04"),
			sighting.Callsign,
			route,
		})
	}

	return rows
}

func (m *model) View() string {
	column := m.baseStyle.Width(m.width).Padding(1, 0, 0, 0).Render

	return m.baseStyle.
		Width(m.width).
		Height(m.height).
		Render(
			lipgloss.JoinVertical(lipgloss.Left,
				column(m.viewHeader()),
				column(m.viewTables()),
			),
		)
}

// viewHeader shows the display message, quota usage and the last update
// time.
func (m *model) viewHeader() string {
	if !m.hasResult {
		return "waiting for first poll cycle..."
	}

	result := m.lastResult
	usage := result.Usage
	limits := result.Limits

	banner := m.baseStyle.Bold(true).Foreground(Color.Highlight).Render(result.Message)

	budgetStyle := m.baseStyle.Foreground(Color.Green)
	if usage.MonthlyCount >= limits.Monthly ||
		usage.DailyCount >= limits.Daily ||
		usage.HourlyCount >= limits.Hourly {
		budgetStyle = m.baseStyle.Foreground(Color.Red)
	}

	budget := budgetStyle.Render(fmt.Sprintf(
		"quota  month %d/%d  day %d/%d  hour %d/%d",
		usage.MonthlyCount, limits.Monthly,
		usage.DailyCount, limits.Daily,
		usage.HourlyCount, limits.Hourly,
	))

	state := fmt.Sprintf("last update: %s | active window: %v | flights in range: %d",
		time.Since(result.At).Round(time.Second), result.Active, len(result.Planes))

	return lipgloss.JoinVertical(lipgloss.Left, banner, budget, state)
}

func (m *model) viewTables() string {
	planes := m.baseStyle.
		Border(lipgloss.NormalBorder()).
		BorderForeground(Color.Border).
		Render(m.planesTbl.View())

	sightings := m.baseStyle.
		Border(lipgloss.NormalBorder()).
		BorderForeground(Color.Border).
		Render(m.sightingsTbl.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, planes, sightings)
}
