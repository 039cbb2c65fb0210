package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

const (
	aeroAPIFlightsURL = "https://aeroapi.flightaware.com/aeroapi/flights/"

	// aeroAPITimeout bounds every metered route request.
	aeroAPITimeout = 10 * time.Second
)

// aeroFlightsResult mirrors the relevant part of the AeroAPI flights
// response. Flights are ordered most recent first.
type aeroFlightsResult struct {
	Flights []struct {
		Origin *struct {
			Code string `json:"code"`
		} `json:"origin"`
		Destination *struct {
			Code string `json:"code"`
		} `json:"destination"`
	} `json:"flights"`
}

// AeroAPIClient resolves flight routes through the metered AeroAPI. The
// client itself is stateless with respect to the budget; admission control
// is entirely the orchestrator's job.
type AeroAPIClient struct {
	apiKey     string
	airports   AirportIndex
	httpClient *http.Client
	logger     *slog.Logger
	alerts     *Alerter
}

func NewAeroAPIClient(apiKey string, airports AirportIndex, logger *slog.Logger, alerts *Alerter) *AeroAPIClient {
	return &AeroAPIClient{
		apiKey:     apiKey,
		airports:   airports,
		httpClient: &http.Client{Timeout: aeroAPITimeout},
		logger:     logger,
		alerts:     alerts,
	}
}

// Resolve queries the route for the given flight ident. It returns the
// route with airport codes translated to IATA and whether any flight data
// was found. An invalid API key additionally raises a critical alert.
func (aero *AeroAPIClient) Resolve(ctx context.Context, icao24, ident string) (Route, bool, error) {
	body, requestErr := getJSON(ctx, aero.httpClient, aeroAPIFlightsURL+ident, map[string]string{
		"x-apikey": aero.apiKey,
		"Accept":   "application/json",
	})
	if requestErr != nil {
		if errors.Is(requestErr, ErrUnauthorized) {
			aero.alerts.Critical("AeroAPI Key Invalid",
				"AeroAPI rejected the configured API key. Check the AERO_API_KEY credential.")
		}

		return Route{}, false, fmt.Errorf("aeroapi: request for %s (%s) failed: %w", ident, icao24, requestErr)
	}

	var result aeroFlightsResult
	if parseErr := json.Unmarshal(body, &result); parseErr != nil {
		return Route{}, false, fmt.Errorf("aeroapi: failed to unmarshal flights for %s: %w", ident, parseErr)
	}

	if len(result.Flights) == 0 {
		aero.logger.Info("aeroapi: no flight data found", slog.String("ident", ident))
		return Route{}, false, nil
	}

	mostRecent := result.Flights[0]
	route := Route{Origin: ValueUnknown, Destination: ValueUnknown}

	if mostRecent.Origin != nil && mostRecent.Origin.Code != "" {
		route.Origin = aero.airports.ToIATA(mostRecent.Origin.Code)
	}

	if mostRecent.Destination != nil && mostRecent.Destination.Code != "" {
		route.Destination = aero.airports.ToIATA(mostRecent.Destination.Code)
	}

	return route, true, nil
}
