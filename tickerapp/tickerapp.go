// Package tickerapp runs the tracker as a plain console loop: one poll
// cycle, one block of output, then sleep until the next cycle. The display
// message line can be piped into whatever drives the actual signage.
package tickerapp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DiLuccaDev/FlightTracker/internal"
	"github.com/DiLuccaDev/FlightTracker/internal/history"
)

func Run(appName string, cfg *internal.Config, creds *internal.Credentials, verbose bool) {
	logger := internal.NewLogger(os.Stderr, verbose)

	fmt.Printf("%s launching at Lat: %.3f, Lon: %.3f, Range: %.0f km\n",
		appName, cfg.HomeLat, cfg.HomeLon, cfg.RangeKm)

	tracker, trackerErr := internal.NewTracker(appName, cfg, creds, logger)
	if trackerErr != nil {
		logger.Error("unable to create tracker, exiting", slog.Any("error", trackerErr))
		os.Exit(1)
	}

	// The sighting log is best-effort; a broken database must not stop the
	// tracker.
	sightings, historyErr := history.Open(cfg.HistoryFile)
	if historyErr != nil {
		logger.Warn("sighting history disabled", slog.Any("error", historyErr))
		sightings = nil
	} else {
		defer func() {
			if closeErr := sightings.Close(); closeErr != nil {
				logger.Warn("failed to close sighting history", slog.Any("error", closeErr))
			}
		}()
	}

	// Use a signal channel to gracefully stop the loop.
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	ctx := context.Background()

	for {
		result := tracker.RunCycle(ctx)
		printCycle(result)
		recordClosest(ctx, sightings, logger, result)

		sleep := tracker.SleepUntilNext()
		logger.Info("sleeping until next check", slog.Duration("sleep", sleep))

		select {
		case <-time.After(sleep):
		case <-sigc:
			logger.Info("shutdown signal received, stopping")
			return
		}
	}
}

// printCycle writes the cycle summary block to stdout, separate from the
// logs on stderr.
func printCycle(result internal.CycleResult) {
	usage := result.Usage
	limits := result.Limits

	fmt.Println()
	fmt.Println("================================================================================")
	fmt.Printf("--- CYCLE: %s | ACTIVE: %v | FLIGHTS IN RANGE: %d ---\n",
		result.At.Format("2006-01-02 15:04:05"), result.Active, len(result.Planes))
	fmt.Printf("MONTHLY: %d/%d | DAILY: %d/%d | HOURLY: %d/%d\n",
		usage.MonthlyCount, limits.Monthly,
		usage.DailyCount, limits.Daily,
		usage.HourlyCount, limits.Hourly)

	if usage.MonthlyCount >= limits.Monthly {
		fmt.Println("--- CRITICAL WARNING: MONTHLY BUDGET HIT. NO MORE ROUTE LOOKUPS. ---")
	} else if usage.DailyCount >= limits.Daily || usage.HourlyCount >= limits.Hourly {
		fmt.Println("--- WARNING: HARD DAILY/HOURLY BUDGET HIT. NO MORE ROUTE LOOKUPS. ---")
	}

	fmt.Println("DISPLAY TEXT: " + result.Message)
	fmt.Println("================================================================================")
}

func recordClosest(
	ctx context.Context,
	sightings *history.Store,
	logger *slog.Logger,
	result internal.CycleResult,
) {
	closest, found := result.Closest()
	if !found || sightings == nil {
		return
	}

	recordErr := sightings.Record(ctx, history.Sighting{
		SeenAt:      result.At,
		Callsign:    closest.Callsign,
		DistanceKm:  closest.Distance,
		AltitudeFt:  closest.Altitude,
		SpeedKt:     closest.Speed,
		Model:       closest.Model,
		Origin:      closest.Origin,
		Destination: closest.Destination,
	})
	if recordErr != nil {
		logger.Warn("failed to record sighting", slog.Any("error", recordErr))
	}
}
