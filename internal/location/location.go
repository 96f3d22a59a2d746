// Package location supplies coordinate updates for "use my location" lookups.
package location

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// ErrNoFix is returned when a source ends without delivering coordinates.
var ErrNoFix = errors.New("no location fix available")

// Update is one event from a Source. Err is set when the source failed.
type Update struct {
	Coordinates weather.Coordinates
	Err         error
}

// Source delivers zero or more updates. The channel is closed when the source
// is exhausted or ctx is cancelled.
type Source interface {
	Updates(ctx context.Context) <-chan Update
}

// Fetcher is the part of weather.Client that Locate needs.
type Fetcher interface {
	FetchByCoordinates(ctx context.Context, lat, lon float64) <-chan weather.Result
}

// Locate takes the first update from src, stops the stream and fetches the
// weather for it. Source errors are returned as-is and never reach the
// fetcher's state.
func Locate(ctx context.Context, src Source, f Fetcher) (weather.Result, error) {
	if src == nil {
		return weather.Result{}, fmt.Errorf("location: %w: no source configured", ErrNoFix)
	}

	streamCtx, stop := context.WithCancel(ctx)
	updates := src.Updates(streamCtx)

	var (
		first Update
		ok    bool
	)
	select {
	case first, ok = <-updates:
	case <-ctx.Done():
		stop()
		return weather.Result{}, ctx.Err()
	}
	stop()

	if !ok {
		return weather.Result{}, ErrNoFix
	}
	if first.Err != nil {
		log.Printf("ERROR: location source failed: %v", first.Err)
		return weather.Result{}, fmt.Errorf("location: %w", first.Err)
	}

	c := first.Coordinates
	log.Printf("DEBUG: location fix %g,%g", c.Latitude, c.Longitude)

	select {
	case res := <-f.FetchByCoordinates(ctx, c.Latitude, c.Longitude):
		return res, res.Err
	case <-ctx.Done():
		return weather.Result{}, ctx.Err()
	}
}
