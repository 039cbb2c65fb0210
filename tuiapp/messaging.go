package tuiapp

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/DiLuccaDev/FlightTracker/internal"
	"github.com/DiLuccaDev/FlightTracker/internal/history"
)

// cycleTickMsg fires when it is time for the next poll cycle.
type cycleTickMsg time.Time

func scheduleNextCycle(sleep time.Duration) tea.Cmd {
	return tea.Tick(sleep, func(t time.Time) tea.Msg {
		return cycleTickMsg(t)
	})
}

// cycleResultMsg carries a finished poll cycle plus the refreshed sighting
// log back into the update loop.
type cycleResultMsg struct {
	result    internal.CycleResult
	sightings []history.Sighting
}

const recentSightingsLimit = 20

// runCycleCmd executes a full poll cycle off the UI goroutine.
func runCycleCmd(tracker *internal.Tracker, sightings *history.Store) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		result := tracker.RunCycle(ctx)

		msg := cycleResultMsg{result: result}

		if sightings == nil {
			return msg
		}

		if closest, found := result.Closest(); found {
			_ = sightings.Record(ctx, history.Sighting{
				SeenAt:      result.At,
				Callsign:    closest.Callsign,
				DistanceKm:  closest.Distance,
				AltitudeFt:  closest.Altitude,
				SpeedKt:     closest.Speed,
				Model:       closest.Model,
				Origin:      closest.Origin,
				Destination: closest.Destination,
			})
		}

		if recent, recentErr := sightings.Recent(ctx, recentSightingsLimit); recentErr == nil {
			msg.sightings = recent
		}

		return msg
	}
}
