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
	openWeatherMapURL = "https://api.openweathermap.org/data/2.5/weather"

	// weatherTimeout bounds the fallback weather request.
	weatherTimeout = 5 * time.Second
)

var ErrWeatherPayload = errors.New("unexpected weather payload")

// WeatherReport is the fallback display content for cycles without any
// flight in range.
type WeatherReport struct {
	Description string
	TempF       int
}

// weatherResult mirrors the relevant part of the OpenWeatherMap response.
type weatherResult struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

// WeatherClient fetches current conditions at the home coordinate from
// OpenWeatherMap, in imperial units to match the display.
type WeatherClient struct {
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewWeatherClient(apiKey string, logger *slog.Logger) *WeatherClient {
	return &WeatherClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: weatherTimeout},
		logger:     logger,
	}
}

// Current returns the weather at home, or an error that degrades to an
// error-labelled display message upstream.
func (wc *WeatherClient) Current(ctx context.Context, home Coordinates) (WeatherReport, error) {
	query := url.Values{}
	query.Set("lat", fmt.Sprintf("%.6f", home.Latitude))
	query.Set("lon", fmt.Sprintf("%.6f", home.Longitude))
	query.Set("appid", wc.apiKey)
	query.Set("units", "imperial")

	body, requestErr := getJSON(ctx, wc.httpClient, openWeatherMapURL+"?"+query.Encode(), nil)
	if requestErr != nil {
		return WeatherReport{}, fmt.Errorf("weather: request failed: %w", requestErr)
	}

	var result weatherResult
	if parseErr := json.Unmarshal(body, &result); parseErr != nil {
		return WeatherReport{}, fmt.Errorf("weather: %w: %w", ErrWeatherPayload, parseErr)
	}

	if len(result.Weather) == 0 {
		return WeatherReport{}, fmt.Errorf("weather: %w: empty conditions list", ErrWeatherPayload)
	}

	report := WeatherReport{
		Description: result.Weather[0].Main,
		TempF:       int(result.Main.Temp),
	}

	wc.logger.Info("weather: fetched current conditions",
		slog.String("conditions", report.Description),
		slog.Int("tempF", report.TempF))

	return report, nil
}
