package internal

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Defaults mirror the fallbacks of earlier tracker versions.
const (
	defaultHourlyLimit    = 10
	defaultDailyLimit     = 150
	defaultMonthlyLimit   = 4500
	defaultCacheTTLHours  = 24
	defaultStartHour      = 8
	defaultEndHour        = 20
	defaultRefreshSeconds = 30
	defaultRangeKm        = 50
)

var (
	ErrMissingCredential = errors.New("missing required credential")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// Config holds all user settings. Loading failures at startup are fatal;
// after startup the configuration is immutable.
type Config struct {
	HomeLat float64
	HomeLon float64
	RangeKm float64

	Limits        Limits
	RouteCacheTTL time.Duration

	StartHour int // operating window start, 0-23
	EndHour   int // operating window end, 0-23

	RefreshInterval time.Duration
	TimeFormat      string // "12H" or "24H"

	UsageFile   string
	AirportFile string
	HistoryFile string
}

// Home returns the configured home coordinate.
func (cfg *Config) Home() Coordinates {
	return NewCoordinates(cfg.HomeLat, cfg.HomeLon)
}

// LoadConfig reads the settings file via viper. Location values are
// required, everything else falls back to defaults.
func LoadConfig(filePath string) (*Config, error) {
	vpr := viper.New()
	vpr.SetConfigFile(filePath)

	vpr.SetDefault("budget.max_hourly_calls", defaultHourlyLimit)
	vpr.SetDefault("budget.max_daily_calls", defaultDailyLimit)
	vpr.SetDefault("budget.max_monthly_calls", defaultMonthlyLimit)
	vpr.SetDefault("location.range_km", defaultRangeKm)
	vpr.SetDefault("location.route_cache_lifetime_hours", defaultCacheTTLHours)
	vpr.SetDefault("window.start_hour", defaultStartHour)
	vpr.SetDefault("window.end_hour", defaultEndHour)
	vpr.SetDefault("display.refresh_seconds", defaultRefreshSeconds)
	vpr.SetDefault("display.time_format", "24H")
	vpr.SetDefault("files.usage", "aero_usage.json")
	vpr.SetDefault("files.airports", "airport_data.json")
	vpr.SetDefault("files.history", "sightings.db")

	if readErr := vpr.ReadInConfig(); readErr != nil {
		return nil, fmt.Errorf("loadConfig: %w: %w", ErrInvalidConfig, readErr)
	}

	if !vpr.IsSet("location.home_lat") || !vpr.IsSet("location.home_lon") {
		return nil, fmt.Errorf("loadConfig: %w: location.home_lat and location.home_lon are required", ErrInvalidConfig)
	}

	cfg := Config{
		HomeLat: vpr.GetFloat64("location.home_lat"),
		HomeLon: vpr.GetFloat64("location.home_lon"),
		RangeKm: vpr.GetFloat64("location.range_km"),
		Limits: Limits{
			Hourly:  vpr.GetInt("budget.max_hourly_calls"),
			Daily:   vpr.GetInt("budget.max_daily_calls"),
			Monthly: vpr.GetInt("budget.max_monthly_calls"),
		},
		RouteCacheTTL:   time.Duration(vpr.GetInt("location.route_cache_lifetime_hours")) * time.Hour,
		StartHour:       vpr.GetInt("window.start_hour"),
		EndHour:         vpr.GetInt("window.end_hour"),
		RefreshInterval: time.Duration(vpr.GetInt("display.refresh_seconds")) * time.Second,
		TimeFormat:      vpr.GetString("display.time_format"),
		UsageFile:       vpr.GetString("files.usage"),
		AirportFile:     vpr.GetString("files.airports"),
		HistoryFile:     vpr.GetString("files.history"),
	}

	if cfg.StartHour < 0 || cfg.StartHour > 23 || cfg.EndHour < 0 || cfg.EndHour > 23 {
		return nil, fmt.Errorf("loadConfig: %w: window hours must be 0-23", ErrInvalidConfig)
	}

	return &cfg, nil
}

// Credentials holds the API secrets for all external collaborators.
type Credentials struct {
	OpenSkyClientID     string
	OpenSkyClientSecret string
	AeroAPIKey          string
	WeatherAPIKey       string
}

// LoadCredentials reads secrets from the environment, with a best-effort
// .env load first. All four credentials are required; a missing one is a
// startup-fatal condition.
func LoadCredentials() (*Credentials, error) {
	// A missing .env file is fine as long as the variables are exported.
	_ = godotenv.Load()

	creds := Credentials{
		OpenSkyClientID:     os.Getenv("OPENSKY_CLIENT_ID"),
		OpenSkyClientSecret: os.Getenv("OPENSKY_CLIENT_SECRET"),
		AeroAPIKey:          os.Getenv("AERO_API_KEY"),
		WeatherAPIKey:       os.Getenv("OWM_API_KEY"),
	}

	for name, value := range map[string]string{
		"OPENSKY_CLIENT_ID":     creds.OpenSkyClientID,
		"OPENSKY_CLIENT_SECRET": creds.OpenSkyClientSecret,
		"AERO_API_KEY":          creds.AeroAPIKey,
		"OWM_API_KEY":           creds.WeatherAPIKey,
	} {
		if value == "" {
			return nil, fmt.Errorf("loadCredentials: %w: %s", ErrMissingCredential, name)
		}
	}

	return &creds, nil
}
