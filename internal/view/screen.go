// Package view renders the published weather state into the single screen.
package view

import (
	"fmt"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Background names the illustration drawn behind the readings.
type Background string

const (
	BackgroundSunny   Background = "sunny"
	BackgroundCloudy  Background = "cloudy"
	BackgroundRainy   Background = "rainy"
	BackgroundDefault Background = "default"
)

// BackgroundFor maps every Condition to a Background.
func BackgroundFor(c weather.Condition) Background {
	switch c {
	case weather.ConditionClear:
		return BackgroundSunny
	case weather.ConditionClouds:
		return BackgroundCloudy
	case weather.ConditionRain:
		return BackgroundRainy
	default:
		return BackgroundDefault
	}
}

// Screen is what the UI draws. Empty strings are not shown.
type Screen struct {
	Loaded      bool       `json:"loaded"`
	City        string     `json:"city,omitempty"`
	Temperature string     `json:"temperature,omitempty"`
	FeelsLike   string     `json:"feelsLike,omitempty"`
	Humidity    string     `json:"humidity,omitempty"`
	Wind        string     `json:"wind,omitempty"`
	Pressure    string     `json:"pressure,omitempty"`
	Description string     `json:"description"`
	Condition   string     `json:"condition"`
	Background  Background `json:"background"`
	Alert       string     `json:"alert,omitempty"`

	Record *weather.Record `json:"record,omitempty"`
}

// Render builds the screen for a snapshot. Without a record only the alert
// (if any) and the default background are shown.
func Render(snap weather.Snapshot) Screen {
	s := Screen{
		Condition:  weather.ConditionOther.String(),
		Background: BackgroundDefault,
		Alert:      snap.LastError,
	}

	rec := snap.Record
	if rec == nil {
		return s
	}

	cond := rec.Condition()
	s.Loaded = true
	s.Record = rec
	s.City = rec.LocationName
	s.Temperature = celsius(rec.TemperatureCelsius)
	s.Humidity = fmt.Sprintf("%.1f %%", rec.HumidityPercent)
	s.Description = rec.Description()
	s.Condition = cond.String()
	s.Background = BackgroundFor(cond)

	if rec.FeelsLikeCelsius != nil {
		s.FeelsLike = celsius(*rec.FeelsLikeCelsius)
	}
	if rec.WindSpeedMetersPerSecond != nil {
		s.Wind = fmt.Sprintf("%.1f m/s", *rec.WindSpeedMetersPerSecond)
	}
	if rec.PressureHectoPascals != nil {
		s.Pressure = fmt.Sprintf("%.0f hPa", *rec.PressureHectoPascals)
	}
	return s
}

func celsius(v float64) string {
	return fmt.Sprintf("%.1f °C", v)
}
