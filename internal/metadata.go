package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

const (
	openSkyMetadataURL = "https://opensky-network.org/api/metadata/aircraft?icao24="

	// metadataTimeout bounds the unmetered model lookup. This call is pure
	// garnish, so it gets a short leash.
	metadataTimeout = 5 * time.Second
)

// metadataResult mirrors the OpenSky aircraft metadata response.
type metadataResult struct {
	Model string `json:"model"`
}

// MetadataClient fetches the aircraft model for an ICAO24 identity from the
// unmetered OpenSky metadata endpoint. Failures are silent: the model
// simply stays unknown.
type MetadataClient struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewMetadataClient(logger *slog.Logger) *MetadataClient {
	return &MetadataClient{
		httpClient: &http.Client{Timeout: metadataTimeout},
		logger:     logger,
	}
}

// Resolve returns the aircraft model or the unknown sentinel.
func (mdc *MetadataClient) Resolve(ctx context.Context, icao24 string) string {
	body, requestErr := getJSON(ctx, mdc.httpClient, openSkyMetadataURL+icao24, nil)
	if requestErr != nil {
		mdc.logger.Debug("metadata: lookup failed", slog.String("icao24", icao24))
		return ValueUnknown
	}

	var result metadataResult
	if parseErr := json.Unmarshal(body, &result); parseErr != nil || result.Model == "" {
		return ValueUnknown
	}

	return result.Model
}
