package config

import (
	"testing"
	"time"

	"github.com/i474232898/weather-lookup/internal/weather"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{
		"OPENWEATHER_API_KEY", "OPENWEATHER_BASE_URL", "HTTP_TIMEOUT", "REFRESH_INTERVAL",
		"BREAKER_FAILURES", "BREAKER_COOLDOWN", "PORT", "LOCATION_LAT", "LOCATION_LON",
		"LOCATION_CITY", "LOCATION_COUNTRY", "GEOCODER_API_KEY",
	} {
		t.Setenv(k, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenWeatherAPIKey != "" {
		t.Errorf("expected empty api key, got %q", cfg.OpenWeatherAPIKey)
	}
	if cfg.BaseURL != weather.DefaultBaseURL {
		t.Errorf("expected default base url, got %s", cfg.BaseURL)
	}
	if cfg.HTTPTimeout != 0 || cfg.RefreshInterval != 0 {
		t.Errorf("expected zero timeout and refresh, got %s / %s", cfg.HTTPTimeout, cfg.RefreshInterval)
	}
	if cfg.BreakerFailures != 0 || cfg.BreakerCooldown != 30*time.Second {
		t.Errorf("unexpected breaker settings %d / %s", cfg.BreakerFailures, cfg.BreakerCooldown)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.Location.Coordinates != nil {
		t.Errorf("expected no static location, got %+v", cfg.Location.Coordinates)
	}
}

func TestFromEnvValues(t *testing.T) {
	t.Setenv("OPENWEATHER_API_KEY", " secret ")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("REFRESH_INTERVAL", "10m")
	t.Setenv("BREAKER_FAILURES", "3")
	t.Setenv("LOCATION_LAT", "43.2567")
	t.Setenv("LOCATION_LON", "76.9286")
	t.Setenv("LOCATION_CITY", "Almaty")
	t.Setenv("PORT", "9090")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.OpenWeatherAPIKey != "secret" {
		t.Errorf("expected trimmed key, got %q", cfg.OpenWeatherAPIKey)
	}
	if cfg.HTTPTimeout != 5*time.Second || cfg.RefreshInterval != 10*time.Minute {
		t.Errorf("unexpected durations %s / %s", cfg.HTTPTimeout, cfg.RefreshInterval)
	}
	if cfg.BreakerFailures != 3 {
		t.Errorf("expected 3 breaker failures, got %d", cfg.BreakerFailures)
	}
	c := cfg.Location.Coordinates
	if c == nil || c.Latitude != 43.2567 || c.Longitude != 76.9286 {
		t.Errorf("unexpected coordinates %+v", c)
	}
	if cfg.Location.City != "Almaty" || cfg.Port != "9090" {
		t.Errorf("unexpected config %+v", cfg)
	}
}

func TestFromEnvInvalid(t *testing.T) {
	cases := map[string][2]string{
		"bad timeout":      {"HTTP_TIMEOUT", "soon"},
		"negative refresh": {"REFRESH_INTERVAL", "-1m"},
		"bad failures":     {"BREAKER_FAILURES", "many"},
		"lat without lon":  {"LOCATION_LAT", "10"},
	}

	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv("LOCATION_LAT", "")
			t.Setenv("LOCATION_LON", "")
			t.Setenv(kv[0], kv[1])

			if _, err := FromEnv(); err == nil {
				t.Errorf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
