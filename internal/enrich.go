package internal

import (
	"context"
	"log/slog"
	"time"
)

const (
	// ValueUnknown is the sentinel for model, origin and destination fields
	// that could not be resolved.
	ValueUnknown = "N/A"

	// metersToFeet converts barometric altitude for display.
	metersToFeet = 3.28084
	// metersPerSecondToKnots converts ground speed for display.
	metersPerSecondToKnots = 1.94384
)

// EnrichedPlane is the per-candidate output record of a poll cycle. Model,
// origin and destination independently default to the unknown sentinel.
type EnrichedPlane struct {
	Callsign    string
	Distance    int // [km]
	Altitude    int // [feet]
	Speed       int // [knots]
	Model       string
	Origin      string
	Destination string
}

// RouteResolver is the metered route lookup. The found flag distinguishes a
// successful resolution from a successful call without flight data.
type RouteResolver interface {
	Resolve(ctx context.Context, icao24, ident string) (route Route, found bool, err error)
}

// ModelResolver is the unmetered aircraft model lookup. It never fails,
// only degrades to the unknown sentinel.
type ModelResolver interface {
	Resolve(ctx context.Context, icao24 string) string
}

// lookupBudget is the per-cycle allowance for metered calls. It is spent as
// soon as an eligible attempt is initiated, not only on success, so a
// denied or failed attempt cannot turn into a retry storm within the cycle.
type lookupBudget struct {
	spent bool
}

// Orchestrator runs the per-cycle enrichment decision: which single
// candidate, if any, gets the one metered route lookup.
type Orchestrator struct {
	ledger *Ledger
	cache  *RouteCache
	routes RouteResolver
	models ModelResolver
	ttl    time.Duration
	now    func() time.Time
	logger *slog.Logger
	alerts *Alerter
}

func NewOrchestrator(
	ledger *Ledger,
	cache *RouteCache,
	routes RouteResolver,
	models ModelResolver,
	ttl time.Duration,
	now func() time.Time,
	logger *slog.Logger,
	alerts *Alerter,
) *Orchestrator {
	if now == nil {
		now = time.Now
	}

	return &Orchestrator{
		ledger: ledger,
		cache:  cache,
		routes: routes,
		models: models,
		ttl:    ttl,
		now:    now,
		logger: logger,
		alerts: alerts,
	}
}

// EnrichCycle builds the output records for one poll cycle. Candidates must
// already be sorted ascending by distance. At most one metered route lookup
// is attempted, and only for the closest candidate while the operating
// window is active.
func (orch *Orchestrator) EnrichCycle(ctx context.Context, candidates []Candidate, active bool) []EnrichedPlane {
	planes := make([]EnrichedPlane, 0, len(candidates))
	budget := lookupBudget{}

	for rank, candidate := range candidates {
		plane := EnrichedPlane{
			Callsign:    candidate.Callsign,
			Distance:    int(candidate.Distance),
			Altitude:    int(candidate.BaroAltitude * metersToFeet),
			Speed:       int(candidate.Velocity * metersPerSecondToKnots),
			Model:       ValueUnknown,
			Origin:      ValueUnknown,
			Destination: ValueUnknown,
		}

		if !IsCommercialCallsign(candidate.Callsign) {
			planes = append(planes, plane)
			continue
		}

		plane.Model = orch.models.Resolve(ctx, candidate.Icao24)

		if route, hit := orch.cache.Lookup(candidate.Icao24, orch.now(), orch.ttl); hit {
			plane.Origin = route.Origin
			plane.Destination = route.Destination
			orch.logger.Info("enrich: route served from cache",
				slog.String("ident", candidate.Callsign),
				slog.String("origin", plane.Origin),
				slog.String("destination", plane.Destination))
		} else if rank == 0 && !budget.spent && active {
			// The one metered attempt this cycle. Spend the budget up
			// front: a denial or failure must not free it up again.
			budget = lookupBudget{spent: true}
			plane.Origin, plane.Destination = orch.resolveRoute(ctx, candidate)
		} else {
			orch.logger.Debug("enrich: skipping route lookup",
				slog.String("ident", candidate.Callsign),
				slog.Int("rank", rank))
		}

		planes = append(planes, plane)
	}

	return planes
}

// resolveRoute performs the gated metered lookup for the closest candidate.
// Budget denial and resolver failure both degrade to unknown values.
func (orch *Orchestrator) resolveRoute(ctx context.Context, candidate Candidate) (string, string) {
	decision := orch.ledger.CheckAndConsume()
	if !decision.Allowed {
		orch.logger.Warn("enrich: route lookup throttled",
			slog.String("ident", candidate.Callsign),
			slog.String("window", string(decision.Window)),
			slog.Int("limit", decision.Limit))

		// The monthly limit is the hard stop for the rest of the month,
		// which warrants more than a log line.
		if decision.Window == WindowMonthly {
			orch.alerts.Critical("Monthly Route Lookup Budget Hit",
				"The monthly route lookup quota is exhausted. No further lookups until the month rolls over.")
		}

		return ValueUnknown, ValueUnknown
	}

	orch.logger.Info("enrich: initiating single route lookup for closest plane",
		slog.String("ident", candidate.Callsign))

	route, found, resolveErr := orch.routes.Resolve(ctx, candidate.Icao24, candidate.Callsign)
	if resolveErr != nil {
		orch.logger.Error("enrich: route lookup failed", slog.Any("error", resolveErr))
		return ValueUnknown, ValueUnknown
	}

	if !found {
		return ValueUnknown, ValueUnknown
	}

	orch.cache.Store(candidate.Icao24, route, orch.now())
	orch.logger.Info("enrich: route resolved and cached",
		slog.String("ident", candidate.Callsign),
		slog.String("origin", route.Origin),
		slog.String("destination", route.Destination))

	return route.Origin, route.Destination
}
