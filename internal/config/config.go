package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/location"
	"github.com/Sanjai-Shaarugesh/Advanced-Weather-Companion/internal/weather"
)

// AppConfig is the persisted configuration surface read as plain values.
type AppConfig struct {
	// Location resolution.
	LocationMode   location.Mode
	ManualLocation string
	GoogleAPIKey   string

	// Provider selection.
	ProviderID        string
	ProviderAPIKey    string
	CustomProviderURL string

	// Display units and format.
	UseFahrenheit bool
	WindSpeedUnit weather.WindSpeedUnit
	TimeFormat    string // "24h" or "12h"

	// RefreshInterval controls how often the pipeline re-runs.
	RefreshInterval time.Duration

	// HTTPTimeout bounds every outbound network call.
	HTTPTimeout time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max number of snapshots per location (0 = unlimited)
	StoreMaxAge     time.Duration // max age of snapshots (0 = unlimited)

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}

	mode := location.Mode(getenvDefault("LOCATION_MODE", string(location.ModeAuto)))
	if mode != location.ModeAuto && mode != location.ModeManual {
		return nil, fmt.Errorf("invalid LOCATION_MODE %q: want auto or manual", mode)
	}
	cfg.LocationMode = mode
	cfg.ManualLocation = os.Getenv("LOCATION")
	cfg.GoogleAPIKey = os.Getenv("GOOGLE_GEOCODER_API_KEY")

	if mode == location.ModeManual && cfg.ManualLocation == "" {
		return nil, fmt.Errorf("LOCATION_MODE is manual but LOCATION is empty")
	}

	cfg.ProviderID = getenvDefault("WEATHER_PROVIDER", "openmeteo")
	cfg.ProviderAPIKey = os.Getenv("WEATHER_API_KEY")
	cfg.CustomProviderURL = os.Getenv("CUSTOM_PROVIDER_URL")

	cfg.UseFahrenheit = getenvBool("USE_FAHRENHEIT", false)
	cfg.WindSpeedUnit = weather.WindSpeedUnit(getenvDefault("WIND_SPEED_UNIT", string(weather.UnitKmh)))
	cfg.TimeFormat = getenvDefault("TIME_FORMAT", "24h")

	intervalStr := getenvDefault("REFRESH_INTERVAL", "15m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_INTERVAL: %w", err)
	}
	cfg.RefreshInterval = interval

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "15s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 96) // roughly 24h at 15-minute intervals

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}
