package weather

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// DecodeError reports why a payload could not become a Record. Field is the
// wire path of the offending value, e.g. "main.temp".
type DecodeError struct {
	Reason string
	Field  string
	Err    error
}

const (
	reasonMissing   = "missing field"
	reasonMismatch  = "type mismatch"
	reasonMalformed = "malformed payload"
)

func (e *DecodeError) Error() string {
	if e.Reason == reasonMalformed && e.Err != nil {
		return e.Reason + ": " + e.Err.Error()
	}
	return e.Reason + ": " + e.Field
}

func (e *DecodeError) Unwrap() error { return e.Err }

// wirePayload is the subset of the current-weather response Encode writes.
type wirePayload struct {
	Name    *string          `json:"name"`
	Coord   *wireCoord       `json:"coord,omitempty"`
	Main    *wireMain        `json:"main"`
	Wind    *wireWind        `json:"wind,omitempty"`
	Weather *[]wireCondition `json:"weather"`
}

type wireCoord struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type wireMain struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like,omitempty"`
	Humidity  *float64 `json:"humidity"`
	Pressure  *float64 `json:"pressure,omitempty"`
}

type wireWind struct {
	Speed *float64 `json:"speed,omitempty"`
}

type wireCondition struct {
	ID          *int    `json:"id,omitempty"`
	Main        *string `json:"main,omitempty"`
	Description *string `json:"description"`
}

// Decode parses a current-weather payload. It either returns a complete Record
// or a *DecodeError; it never fills in defaults for required values. Keys are
// matched exactly, so "NAME" or "Feels_Like" are not the provider's fields.
func Decode(raw []byte) (Record, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return Record{}, decodeFailure(err, "payload")
	}
	p := fields{obj: top}

	name, err := p.str("name", true)
	if err != nil {
		return Record{}, err
	}
	readings, err := p.object("main", true)
	if err != nil {
		return Record{}, err
	}
	temp, err := readings.float("temp", true)
	if err != nil {
		return Record{}, err
	}
	humidity, err := readings.float("humidity", true)
	if err != nil {
		return Record{}, err
	}
	conds, err := p.array("weather", true)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		LocationName:       *name,
		TemperatureCelsius: *temp,
		HumidityPercent:    *humidity,
		Conditions:         make([]ConditionDescription, 0, len(conds)),
	}
	if rec.FeelsLikeCelsius, err = readings.float("feels_like", false); err != nil {
		return Record{}, err
	}
	if rec.PressureHectoPascals, err = readings.float("pressure", false); err != nil {
		return Record{}, err
	}

	for i, elem := range conds {
		c, err := parseObject(elem, "weather["+strconv.Itoa(i)+"]")
		if err != nil {
			return Record{}, err
		}
		desc, err := c.str("description", true)
		if err != nil {
			return Record{}, err
		}
		rec.Conditions = append(rec.Conditions, ConditionDescription{Description: *desc})
	}

	wind, err := p.object("wind", false)
	if err != nil {
		return Record{}, err
	}
	if rec.WindSpeedMetersPerSecond, err = wind.float("speed", false); err != nil {
		return Record{}, err
	}

	coord, err := p.object("coord", false)
	if err != nil {
		return Record{}, err
	}
	if coord.obj != nil {
		lat, err := coord.float("lat", true)
		if err != nil {
			return Record{}, err
		}
		lon, err := coord.float("lon", true)
		if err != nil {
			return Record{}, err
		}
		rec.Coordinates = &Coordinates{Latitude: *lat, Longitude: *lon}
	}

	return rec, nil
}

// fields is one decoded JSON object, addressed by its wire path. A nil obj
// stands for an absent or null object: every lookup in it comes back absent.
type fields struct {
	path string
	obj  map[string]json.RawMessage
}

func parseObject(raw json.RawMessage, path string) (fields, error) {
	f := fields{path: path}
	if isNull(raw) {
		return f, nil
	}
	if err := json.Unmarshal(raw, &f.obj); err != nil {
		return fields{}, decodeFailure(err, path)
	}
	return f, nil
}

func (f fields) key(name string) string {
	if f.path == "" {
		return name
	}
	return f.path + "." + name
}

// lookup returns the raw value stored under exactly name, or nil when it is
// absent or null. A required absent value is a missing-field error.
func (f fields) lookup(name string, required bool) (json.RawMessage, error) {
	raw, ok := f.obj[name]
	if !ok || isNull(raw) {
		if required {
			return nil, missing(f.key(name))
		}
		return nil, nil
	}
	return raw, nil
}

func (f fields) str(name string, required bool) (*string, error) {
	raw, err := f.lookup(name, required)
	if raw == nil {
		return nil, err
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, decodeFailure(err, f.key(name))
	}
	return &v, nil
}

func (f fields) float(name string, required bool) (*float64, error) {
	raw, err := f.lookup(name, required)
	if raw == nil {
		return nil, err
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, decodeFailure(err, f.key(name))
	}
	return &v, nil
}

func (f fields) object(name string, required bool) (fields, error) {
	raw, err := f.lookup(name, required)
	if raw == nil {
		return fields{path: f.key(name)}, err
	}
	return parseObject(raw, f.key(name))
}

func (f fields) array(name string, required bool) ([]json.RawMessage, error) {
	raw, err := f.lookup(name, required)
	if raw == nil {
		return nil, err
	}
	var v []json.RawMessage
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, decodeFailure(err, f.key(name))
	}
	return v, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Encode writes a Record back out in the provider's wire shape.
func Encode(r Record) ([]byte, error) {
	p := wirePayload{
		Name: &r.LocationName,
		Main: &wireMain{
			Temp:      &r.TemperatureCelsius,
			FeelsLike: r.FeelsLikeCelsius,
			Humidity:  &r.HumidityPercent,
			Pressure:  r.PressureHectoPascals,
		},
	}

	conds := make([]wireCondition, len(r.Conditions))
	for i := range r.Conditions {
		conds[i] = wireCondition{Description: &r.Conditions[i].Description}
	}
	p.Weather = &conds

	if r.WindSpeedMetersPerSecond != nil {
		p.Wind = &wireWind{Speed: r.WindSpeedMetersPerSecond}
	}
	if r.Coordinates != nil {
		p.Coord = &wireCoord{Lat: &r.Coordinates.Latitude, Lon: &r.Coordinates.Longitude}
	}

	return json.Marshal(p)
}

func missing(field string) *DecodeError {
	return &DecodeError{Reason: reasonMissing, Field: field}
}

// decodeFailure classifies a json error for the value at path.
func decodeFailure(err error, path string) *DecodeError {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return &DecodeError{Reason: reasonMismatch, Field: path, Err: err}
	}
	return &DecodeError{Reason: reasonMalformed, Err: err}
}
