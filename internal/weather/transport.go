package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"
)

const maxBodyBytes = 1 << 20

var errServerError = errors.New("server error")

// exchange is a fully read response.
type exchange struct {
	status int
	body   []byte
}

// apiError is the provider's error body, e.g. {"cod":"404","message":"city not found"}.
type apiError struct {
	Cod     any    `json:"cod"`
	Message string `json:"message"`
}

// do issues exactly one request, through the circuit breaker when one is set.
// 5xx responses count against the breaker but are still returned. Failures
// caused by the caller's own context ending do not count.
func (c *Client) do(req *http.Request) (exchange, error) {
	if c.circuit == nil {
		return c.roundTrip(req)
	}

	var (
		ex        exchange
		callerErr error
	)
	_, err := c.circuit.Execute(func() (interface{}, error) {
		var rtErr error
		ex, rtErr = c.roundTrip(req)
		if rtErr != nil {
			if cancelledByCaller(req, rtErr) {
				callerErr = rtErr
				return nil, nil
			}
			return nil, rtErr
		}
		if ex.status >= 500 {
			return nil, errServerError
		}
		return nil, nil
	})

	switch {
	case callerErr != nil:
		return exchange{}, callerErr
	case err == nil, errors.Is(err, errServerError):
		return ex, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return exchange{}, transportFailure(fmt.Errorf("%w: %v", errCircuitOpen, err))
	default:
		return exchange{}, err
	}
}

func cancelledByCaller(req *http.Request, err error) bool {
	if req.Context().Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) roundTrip(req *http.Request) (exchange, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return exchange{}, transportFailure(redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return exchange{}, transportFailure(redact(err))
	}
	return exchange{status: resp.StatusCode, body: body}, nil
}

// redact drops the request URL from transport errors; it carries the API key.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func statusFailure(ex exchange) *FetchError {
	fe := &FetchError{Kind: KindHTTPStatus, StatusCode: ex.status}

	var body apiError
	if err := json.Unmarshal(ex.body, &body); err == nil {
		fe.Message = body.Message
	}
	fe.Err = fmt.Errorf("%w: %d", ErrHTTPStatus, ex.status)
	return fe
}
