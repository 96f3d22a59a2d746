package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// Static always reports the same coordinates.
type Static struct {
	Coordinates weather.Coordinates
}

func (s Static) Updates(ctx context.Context) <-chan Update {
	return emit(ctx, Update{Coordinates: s.Coordinates})
}

// GeocodeFunc resolves an address to coordinates.
type GeocodeFunc func(geocoder.Address) (geocoder.Location, error)

var geocoderKeyMu sync.Mutex

// Geocoded resolves a configured city and country through the Google
// geocoding API and reports the result as a single update.
type Geocoded struct {
	City    string
	Country string
	APIKey  string

	// Geocode defaults to geocoder.Geocoding.
	Geocode GeocodeFunc
}

func (g Geocoded) Updates(ctx context.Context) <-chan Update {
	city := strings.TrimSpace(g.City)
	if city == "" {
		return emit(ctx, Update{Err: errors.New("geocoded source: city is required")})
	}

	out := make(chan Update, 1)
	go func() {
		defer close(out)

		loc, err := g.resolve(geocoder.Address{City: city, Country: strings.TrimSpace(g.Country)})
		u := Update{Coordinates: weather.Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}}
		if err != nil {
			u = Update{Err: fmt.Errorf("geocode %s: %w", city, err)}
		}

		select {
		case out <- u:
		case <-ctx.Done():
		}
	}()
	return out
}

func (g Geocoded) resolve(addr geocoder.Address) (geocoder.Location, error) {
	if g.Geocode != nil {
		return g.Geocode(addr)
	}
	if g.APIKey == "" {
		return geocoder.Location{}, errors.New("geocoder api key is not configured")
	}

	// geocoder keeps its key in a package variable.
	geocoderKeyMu.Lock()
	defer geocoderKeyMu.Unlock()
	geocoder.ApiKey = g.APIKey
	return geocoder.Geocoding(addr)
}

func emit(ctx context.Context, u Update) <-chan Update {
	out := make(chan Update, 1)
	select {
	case out <- u:
	case <-ctx.Done():
	}
	close(out)
	return out
}
