package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	openSkyTokenURL  = "https://auth.opensky-network.org/auth/realms/opensky-network/protocol/openid-connect/token"
	openSkyStatesURL = "https://opensky-network.org/api/states/all"

	// openSkyBoxDelta spans the bounding box for the states query, in
	// decimal degrees around the home coordinate.
	openSkyBoxDelta = 0.5

	// openSkyTimeout bounds every position feed request.
	openSkyTimeout = 10 * time.Second

	// tokenExpiryMargin renews the OAuth token slightly before the server
	// side expiry to avoid racing the deadline mid-request.
	tokenExpiryMargin = 60 * time.Second
)

var ErrNoOpenSkyToken = errors.New("no valid OpenSky token")

// tokenResult mirrors the OpenSky OAuth2 token response.
type tokenResult struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"` // lifetime in seconds
}

// OpenSkyClient fetches aircraft state vectors around the home coordinate.
// It manages its own OAuth2 client-credentials token and refreshes it lazily
// once the cached token approaches expiry.
type OpenSkyClient struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client
	logger       *slog.Logger
	alerts       *Alerter

	token       string
	tokenExpiry time.Time
	now         func() time.Time
}

func NewOpenSkyClient(clientID, clientSecret string, logger *slog.Logger, alerts *Alerter) *OpenSkyClient {
	return &OpenSkyClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: openSkyTimeout},
		logger:       logger,
		alerts:       alerts,
		now:          time.Now,
	}
}

// FetchStates returns the raw state vectors inside the bounding box around
// home. A failed or empty fetch yields zero states; only the inability to
// authenticate is reported as an error so the caller can log it once.
func (osc *OpenSkyClient) FetchStates(ctx context.Context, home Coordinates) ([]StateVector, error) {
	token, tokenErr := osc.accessToken(ctx)
	if tokenErr != nil {
		return nil, fmt.Errorf("fetchStates: %w", tokenErr)
	}

	query := url.Values{}
	query.Set("lamin", fmt.Sprintf("%.6f", home.Latitude-openSkyBoxDelta))
	query.Set("lamax", fmt.Sprintf("%.6f", home.Latitude+openSkyBoxDelta))
	query.Set("lomin", fmt.Sprintf("%.6f", home.Longitude-openSkyBoxDelta))
	query.Set("lomax", fmt.Sprintf("%.6f", home.Longitude+openSkyBoxDelta))
	targetURL := openSkyStatesURL + "?" + query.Encode()

	headers := map[string]string{"Authorization": "Bearer " + token}

	body, requestErr := getJSON(ctx, osc.httpClient, targetURL, headers)
	if requestErr != nil {
		osc.logger.Error("opensky: states request failed", slog.Any("error", requestErr))
		return nil, nil
	}

	var result stateResult
	if parseErr := json.Unmarshal(body, &result); parseErr != nil {
		osc.logger.Error("opensky: failed to unmarshal states", slog.Any("error", parseErr))
		return nil, nil
	}

	if len(result.States) == 0 {
		osc.logger.Warn("opensky: call succeeded but returned zero states")
		return nil, nil
	}

	osc.logger.Info("opensky: fetched aircraft states in bounding box",
		slog.Int("count", len(result.States)))

	return result.States, nil
}

// accessToken returns a valid bearer token, refreshing it via the OAuth2
// client-credentials flow when the cached one is missing or near expiry.
func (osc *OpenSkyClient) accessToken(ctx context.Context) (string, error) {
	if osc.token != "" && osc.tokenExpiry.After(osc.now().Add(tokenExpiryMargin)) {
		return osc.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", osc.clientID)
	form.Set("client_secret", osc.clientSecret)

	body, postErr := postForm(ctx, osc.httpClient, openSkyTokenURL, form)
	if postErr != nil {
		osc.token = ""
		osc.tokenExpiry = time.Time{}
		osc.alerts.Critical("OpenSky Authentication Failure",
			"Failed to obtain new OAuth token for OpenSky. Check the client credentials. Error: "+postErr.Error())

		return "", fmt.Errorf("accessToken: %w: %w", ErrNoOpenSkyToken, postErr)
	}

	var result tokenResult
	if parseErr := json.Unmarshal(body, &result); parseErr != nil || result.AccessToken == "" {
		osc.token = ""
		osc.tokenExpiry = time.Time{}

		return "", fmt.Errorf("accessToken: %w: failed to parse token response", ErrNoOpenSkyToken)
	}

	osc.token = result.AccessToken
	osc.tokenExpiry = osc.now().Add(time.Duration(result.ExpiresIn) * time.Second)
	osc.logger.Info("opensky: refreshed OAuth token")

	return osc.token, nil
}
