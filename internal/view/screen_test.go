package view

import (
	"testing"

	"github.com/i474232898/weather-lookup/internal/weather"
)

func TestRenderRecord(t *testing.T) {
	wind, pressure, feels := 4.06, 1012.4, 17.24
	rec := weather.Record{
		LocationName:             "Paris",
		TemperatureCelsius:       18.2,
		FeelsLikeCelsius:         &feels,
		HumidityPercent:          55,
		PressureHectoPascals:     &pressure,
		WindSpeedMetersPerSecond: &wind,
		Conditions:               []weather.ConditionDescription{{Description: "light rain"}},
	}

	s := Render(weather.Snapshot{Record: &rec, LastError: "previous failure"})

	want := Screen{
		Loaded:      true,
		City:        "Paris",
		Temperature: "18.2 °C",
		FeelsLike:   "17.2 °C",
		Humidity:    "55.0 %",
		Wind:        "4.1 m/s",
		Pressure:    "1012 hPa",
		Description: "light rain",
		Condition:   "rain",
		Background:  BackgroundRainy,
		Alert:       "previous failure",
		Record:      &rec,
	}
	if s != want {
		t.Errorf("unexpected screen:\nwant %+v\ngot  %+v", want, s)
	}
}

func TestRenderOptionalFieldsAbsent(t *testing.T) {
	rec := weather.Record{LocationName: "Oslo", TemperatureCelsius: -3, HumidityPercent: 80}

	s := Render(weather.Snapshot{Record: &rec})
	if s.FeelsLike != "" || s.Wind != "" || s.Pressure != "" {
		t.Errorf("expected optional readings to be hidden, got %+v", s)
	}
	if s.Description != "" || s.Background != BackgroundDefault {
		t.Errorf("expected no description and default background, got %q / %s", s.Description, s.Background)
	}
	if s.Temperature != "-3.0 °C" {
		t.Errorf("unexpected temperature %q", s.Temperature)
	}
}

func TestRenderEmpty(t *testing.T) {
	s := Render(weather.Snapshot{LastError: "invalid request: city name is required"})
	if s.Loaded || s.City != "" || s.Record != nil {
		t.Errorf("expected nothing loaded, got %+v", s)
	}
	if s.Alert == "" || s.Background != BackgroundDefault {
		t.Errorf("expected alert with default background, got %+v", s)
	}
}

func TestBackgroundFor(t *testing.T) {
	cases := map[weather.Condition]Background{
		weather.ConditionClear:  BackgroundSunny,
		weather.ConditionClouds: BackgroundCloudy,
		weather.ConditionRain:   BackgroundRainy,
		weather.ConditionOther:  BackgroundDefault,
	}
	for c, want := range cases {
		if got := BackgroundFor(c); got != want {
			t.Errorf("BackgroundFor(%s) = %s, want %s", c, got, want)
		}
	}
}
