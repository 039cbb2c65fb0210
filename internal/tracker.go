// Package internal provides the budget-gated flight tracking core: the
// position feed, candidate selection, the quota ledger, the route cache and
// the per-cycle enrichment orchestration.
package internal

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"time"
)

// Tracker wires the feed, the orchestrator and the fallback weather client
// into complete poll cycles. Both the ticker and the TUI app drive their
// updates through RunCycle.
type Tracker struct {
	cfg     *Config
	feed    *OpenSkyClient
	weather *WeatherClient
	ledger  *Ledger
	orch    *Orchestrator
	now     func() time.Time
	logger  *slog.Logger
}

// CycleResult is everything one poll cycle produced, ready for display.
type CycleResult struct {
	At      time.Time
	Active  bool
	Planes  []EnrichedPlane // ascending by distance, may be empty
	Weather *WeatherReport  // set only for flightless cycles with good weather data
	Message string          // the line for the ticker / LED display
	Usage   UsageRecord
	Limits  Limits
}

// Closest returns the distance-rank-0 flight of the cycle, if any.
func (res *CycleResult) Closest() (EnrichedPlane, bool) {
	if len(res.Planes) == 0 {
		return EnrichedPlane{}, false
	}

	return res.Planes[0], true
}

// NewTracker builds the full pipeline from configuration and credentials.
// Only a corrupt airport mapping is fatal here; a missing one merely limits
// airport code translation.
func NewTracker(appName string, cfg *Config, creds *Credentials, logger *slog.Logger) (*Tracker, error) {
	alerts := NewAlerter(appName, logger)

	airports, airportErr := LoadAirportIndex(cfg.AirportFile)
	if airportErr != nil {
		if !errors.Is(airportErr, fs.ErrNotExist) {
			return nil, airportErr
		}

		logger.Warn("tracker: airport mapping not found, code translation will be limited",
			slog.String("path", cfg.AirportFile))
		airports = AirportIndex{}
	}

	ledger := NewLedger(NewUsageStore(cfg.UsageFile), cfg.Limits, time.Now, logger)
	orch := NewOrchestrator(
		ledger,
		NewRouteCache(),
		NewAeroAPIClient(creds.AeroAPIKey, airports, logger, alerts),
		NewMetadataClient(logger),
		cfg.RouteCacheTTL,
		time.Now,
		logger,
		alerts,
	)

	return &Tracker{
		cfg:     cfg,
		feed:    NewOpenSkyClient(creds.OpenSkyClientID, creds.OpenSkyClientSecret, logger, alerts),
		weather: NewWeatherClient(creds.WeatherAPIKey, logger),
		ledger:  ledger,
		orch:    orch,
		now:     time.Now,
		logger:  logger,
	}, nil
}

// RunCycle executes one complete poll cycle: reload the ledger, fetch and
// filter positions, enrich, and build the display message. Every failure
// along the way degrades; a cycle always produces a result.
func (t *Tracker) RunCycle(ctx context.Context) CycleResult {
	now := t.now()
	t.ledger.Reload()

	states, feedErr := t.feed.FetchStates(ctx, t.cfg.Home())
	if feedErr != nil {
		t.logger.Error("tracker: position feed unavailable, skipping data fetch this cycle",
			slog.Any("error", feedErr))
	}

	candidates := SelectCandidates(states, t.cfg.Home(), t.cfg.RangeKm)
	active := IsActiveHour(now.Hour(), t.cfg.StartHour, t.cfg.EndHour)

	t.logger.Debug("tracker: cycle state",
		slog.Int("candidates", len(candidates)),
		slog.Bool("active", active))

	planes := t.orch.EnrichCycle(ctx, candidates, active)

	result := CycleResult{
		At:     now,
		Active: active,
		Planes: planes,
		Usage:  t.ledger.Record(),
		Limits: t.ledger.Limits(),
	}

	if closest, found := result.Closest(); found {
		result.Message = BuildFlightMessage(closest, now, t.cfg.TimeFormat)
		return result
	}

	// No flights in range: fall back to time and weather.
	report, weatherErr := t.weather.Current(ctx, t.cfg.Home())
	if weatherErr != nil {
		t.logger.Error("tracker: weather fallback failed", slog.Any("error", weatherErr))
	} else {
		result.Weather = &report
	}

	result.Message = BuildWeatherMessage(report, weatherErr, now, t.cfg.TimeFormat)

	return result
}

// SleepUntilNext returns the pause before the next cycle, clipped to the
// next operating-window start.
func (t *Tracker) SleepUntilNext() time.Duration {
	return SleepDuration(t.now(), t.cfg.RefreshInterval, t.cfg.StartHour, t.cfg.EndHour)
}
