package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-lookup/internal/weather"
)

type AppConfig struct {
	// OpenWeatherAPIKey may be empty; fetches then fail with a missing credential.
	OpenWeatherAPIKey string
	BaseURL           string

	// HTTPTimeout of 0 keeps the http.Client default (no timeout).
	HTTPTimeout time.Duration

	// RefreshInterval re-fetches the last query periodically (0 = disabled).
	RefreshInterval time.Duration

	// Consecutive upstream failures before the breaker opens (0 = disabled).
	BreakerFailures uint32
	BreakerCooldown time.Duration

	Location LocationConfig

	Port string
}

// LocationConfig selects the source used for "my location" lookups: fixed
// coordinates, or a city geocoded through Google. Both may be empty.
type LocationConfig struct {
	Coordinates *weather.Coordinates

	City           string
	Country        string
	GeocoderAPIKey string
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	return FromEnv()
}

// FromEnv reads configuration from the environment with sensible defaults.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY"))
	cfg.BaseURL = getenvDefault("OPENWEATHER_BASE_URL", weather.DefaultBaseURL)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}
	if cfg.BreakerCooldown, err = getenvDuration("BREAKER_COOLDOWN", "30s"); err != nil {
		return nil, err
	}

	failures, err := strconv.ParseUint(getenvDefault("BREAKER_FAILURES", "0"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid BREAKER_FAILURES: %w", err)
	}
	cfg.BreakerFailures = uint32(failures)

	loc, err := loadLocation()
	if err != nil {
		return nil, err
	}
	cfg.Location = loc

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func loadLocation() (LocationConfig, error) {
	loc := LocationConfig{
		City:           strings.TrimSpace(os.Getenv("LOCATION_CITY")),
		Country:        strings.TrimSpace(os.Getenv("LOCATION_COUNTRY")),
		GeocoderAPIKey: os.Getenv("GEOCODER_API_KEY"),
	}

	lat, lon := os.Getenv("LOCATION_LAT"), os.Getenv("LOCATION_LON")
	if lat == "" && lon == "" {
		return loc, nil
	}
	if lat == "" || lon == "" {
		return loc, fmt.Errorf("LOCATION_LAT and LOCATION_LON must be set together")
	}

	latF, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return loc, fmt.Errorf("invalid LOCATION_LAT: %w", err)
	}
	lonF, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return loc, fmt.Errorf("invalid LOCATION_LON: %w", err)
	}
	loc.Coordinates = &weather.Coordinates{Latitude: latF, Longitude: lonF}

	return loc, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
