package weather

import (
	"time"

	"github.com/i474232898/weather-lookup/internal/common"
)

// Condition is the closed set of conditions the screen knows how to draw.
type Condition int

const (
	ConditionOther Condition = iota
	ConditionClear
	ConditionClouds
	ConditionRain
)

func (c Condition) String() string {
	switch c {
	case ConditionClear:
		return "clear"
	case ConditionClouds:
		return "clouds"
	case ConditionRain:
		return "rain"
	default:
		return "other"
	}
}

// Classify maps a provider description such as "light rain" onto a Condition.
func Classify(description string) Condition {
	switch {
	case common.HasAny(description, "rain", "drizzle", "shower", "thunder"):
		return ConditionRain
	case common.HasAny(description, "cloud", "overcast"):
		return ConditionClouds
	case common.HasAny(description, "clear", "sun"):
		return ConditionClear
	default:
		return ConditionOther
	}
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ConditionDescription is one entry of the provider's "weather" array.
type ConditionDescription struct {
	Description string `json:"description"`
}

// Record is the decoded result of one successful fetch. Optional values are nil
// when the provider did not send them.
type Record struct {
	LocationName             string                 `json:"locationName"`
	TemperatureCelsius       float64                `json:"temperatureCelsius"`
	FeelsLikeCelsius         *float64               `json:"feelsLikeCelsius,omitempty"`
	HumidityPercent          float64                `json:"humidityPercent"`
	PressureHectoPascals     *float64               `json:"pressureHectoPascals,omitempty"`
	WindSpeedMetersPerSecond *float64               `json:"windSpeedMetersPerSecond,omitempty"`
	Conditions               []ConditionDescription `json:"conditionDescriptions"`
	Coordinates              *Coordinates           `json:"coordinates,omitempty"`
}

// Description returns the first condition description, or "" if there is none.
func (r Record) Description() string {
	if len(r.Conditions) == 0 {
		return ""
	}
	return r.Conditions[0].Description
}

// Condition classifies the first condition description.
func (r Record) Condition() Condition {
	return Classify(r.Description())
}

// clone returns a deep copy so callers never share pointers with the published slot.
func (r Record) clone() Record {
	out := r
	out.FeelsLikeCelsius = cloneFloat(r.FeelsLikeCelsius)
	out.PressureHectoPascals = cloneFloat(r.PressureHectoPascals)
	out.WindSpeedMetersPerSecond = cloneFloat(r.WindSpeedMetersPerSecond)
	if r.Conditions != nil {
		out.Conditions = make([]ConditionDescription, len(r.Conditions))
		copy(out.Conditions, r.Conditions)
	}
	if r.Coordinates != nil {
		c := *r.Coordinates
		out.Coordinates = &c
	}
	return out
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

// Query identifies what a fetch asked for: a city name or a coordinate pair.
type Query struct {
	City        string       `json:"city,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Snapshot is a consistent read of the published state.
type Snapshot struct {
	Record    *Record   `json:"record,omitempty"`
	LastError string    `json:"lastError,omitempty"`
	Seq       uint64    `json:"seq"`
	UpdatedAt time.Time `json:"updatedAt"`
}
