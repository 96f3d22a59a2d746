package weather

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"go.uber.org/atomic"
)

// DefaultBaseURL is OpenWeatherMap's current-weather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

var validate = validator.New()

type cityQuery struct {
	City string `validate:"required"`
}

type coordinateQuery struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
}

// Result is the outcome of one fetch.
type Result struct {
	Seq       uint64
	RequestID string
	Query     Query
	Record    Record
	Err       error
}

// Client fetches current weather and publishes every outcome into its
// FetchState through a Dispatcher.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker

	dispatcher Dispatcher
	state      *FetchState
	seq        *atomic.Uint64

	mu   sync.Mutex
	last *Query
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBreaker makes fetches fail fast after failures consecutive transport or
// 5xx failures, until cooldown has passed. Zero failures disables it.
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(c *Client) {
		if failures == 0 {
			c.circuit = nil
			return
		}
		c.circuit = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "openweather",
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("INFO: circuit %s changed from %s to %s", name, from, to)
			},
		})
	}
}

// NewClient creates a Client. An empty apiKey is allowed; every fetch then
// fails with ErrMissingCredential. The dispatcher must be running: a Loop that
// was never started makes every fetch complete with ErrClosed.
func NewClient(apiKey string, dispatcher Dispatcher, opts ...Option) *Client {
	c := &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		httpClient: http.DefaultClient,
		dispatcher: dispatcher,
		state:      newFetchState(),
		seq:        atomic.NewUint64(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the slot this client publishes into.
func (c *Client) State() *FetchState {
	return c.state
}

// FetchByCity fetches current weather for a city name. The returned channel
// yields exactly one Result after the state has been updated.
func (c *Client) FetchByCity(ctx context.Context, city string) <-chan Result {
	city = strings.TrimSpace(city)
	q := Query{City: city}

	var err error
	if validate.Struct(cityQuery{City: city}) != nil {
		err = invalidRequest(errEmptyCity)
	}
	return c.start(ctx, q, err)
}

// FetchByCoordinates fetches current weather for a latitude/longitude pair.
func (c *Client) FetchByCoordinates(ctx context.Context, lat, lon float64) <-chan Result {
	q := Query{Coordinates: &Coordinates{Latitude: lat, Longitude: lon}}

	var err error
	if validate.Struct(coordinateQuery{Latitude: lat, Longitude: lon}) != nil {
		err = invalidRequest(errInvalidCoordinates)
	}
	return c.start(ctx, q, err)
}

// Refresh repeats the last valid query and waits for it. It is a no-op when
// nothing has been fetched yet.
func (c *Client) Refresh(ctx context.Context) error {
	c.mu.Lock()
	last := c.last
	c.mu.Unlock()

	if last == nil {
		return nil
	}

	var ch <-chan Result
	if last.Coordinates != nil {
		ch = c.FetchByCoordinates(ctx, last.Coordinates.Latitude, last.Coordinates.Longitude)
	} else {
		ch = c.FetchByCity(ctx, last.City)
	}

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) start(ctx context.Context, q Query, err error) <-chan Result {
	res := Result{
		Seq:       c.seq.Inc(),
		RequestID: uuid.NewString(),
		Query:     q,
	}

	if c.apiKey == "" {
		err = invalidRequest(ErrMissingCredential)
	}
	if err == nil {
		c.mu.Lock()
		c.last = &q
		c.mu.Unlock()
	}

	out := make(chan Result, 1)
	go func() {
		if err != nil {
			res.Err = err
		} else {
			log.Printf("DEBUG: fetch #%d (%s) for %s", res.Seq, res.RequestID, q)
			res.Record, res.Err = c.fetch(ctx, q)
		}
		c.complete(res, out)
	}()
	return out
}

// complete hands the result to the dispatcher, which publishes it and only
// then delivers it to the caller.
func (c *Client) complete(res Result, out chan<- Result) {
	if res.Err != nil {
		log.Printf("ERROR: fetch #%d (%s) for %s failed: %v", res.Seq, res.RequestID, res.Query, res.Err)
	}

	ok := c.dispatcher.Dispatch(func() {
		c.state.publish(res)
		out <- res
		close(out)
	})
	if !ok {
		if res.Err == nil {
			res.Err = ErrClosed
		}
		out <- res
		close(out)
	}
}

func (c *Client) fetch(ctx context.Context, q Query) (Record, error) {
	req, err := c.newRequest(ctx, q)
	if err != nil {
		return Record{}, invalidRequest(err)
	}

	ex, err := c.do(req)
	if err != nil {
		return Record{}, err
	}

	if ex.status < 200 || ex.status > 299 {
		return Record{}, statusFailure(ex)
	}

	rec, err := Decode(ex.body)
	if err != nil {
		return Record{}, decodeFailed(err)
	}
	return rec, nil
}

func (c *Client) newRequest(ctx context.Context, q Query) (*http.Request, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	values := u.Query()
	if q.Coordinates != nil {
		values.Set("lat", strconv.FormatFloat(q.Coordinates.Latitude, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(q.Coordinates.Longitude, 'f', -1, 64))
	} else {
		values.Set("q", q.City)
	}
	values.Set("appid", c.apiKey)
	values.Set("units", "metric")
	u.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

func (q Query) String() string {
	if q.Coordinates != nil {
		return fmt.Sprintf("%g,%g", q.Coordinates.Latitude, q.Coordinates.Longitude)
	}
	return strconv.Quote(q.City)
}
