package weather

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies why a fetch failed.
type Kind int

const (
	KindInvalidRequest Kind = iota + 1
	KindTransport
	KindDecode
	KindHTTPStatus
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid request"
	case KindTransport:
		return "transport"
	case KindDecode:
		return "decode"
	case KindHTTPStatus:
		return "http status"
	default:
		return "unknown"
	}
}

var (
	// Sentinels for errors.Is; each matches any *FetchError of that kind.
	ErrInvalidRequest = errors.New("invalid request")
	ErrTransport      = errors.New("transport failure")
	ErrDecode         = errors.New("decode failure")
	ErrHTTPStatus     = errors.New("unexpected http status")

	// ErrMissingCredential is returned when no API key is configured. It is
	// also an ErrInvalidRequest.
	ErrMissingCredential = fmt.Errorf("%w: api key is not configured", ErrInvalidRequest)

	errEmptyCity          = errors.New("city name is required")
	errInvalidCoordinates = errors.New("latitude must be within [-90, 90] and longitude within [-180, 180]")
	errCircuitOpen        = errors.New("circuit breaker open")
)

// FetchError is the error delivered for every failed fetch.
type FetchError struct {
	Kind Kind
	// StatusCode is set for KindHTTPStatus.
	StatusCode int
	// Message is the provider's own error message, when it sent one.
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		msg := e.Message
		if msg == "" {
			msg = http.StatusText(e.StatusCode)
		}
		return fmt.Sprintf("weather API error (HTTP %d): %s", e.StatusCode, msg)
	case KindInvalidRequest:
		if errors.Is(e.Err, ErrInvalidRequest) {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is lets errors.Is match a FetchError against the kind sentinels.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrInvalidRequest:
		return e.Kind == KindInvalidRequest
	case ErrTransport:
		return e.Kind == KindTransport
	case ErrDecode:
		return e.Kind == KindDecode
	case ErrHTTPStatus:
		return e.Kind == KindHTTPStatus
	}
	return false
}

func invalidRequest(err error) *FetchError {
	return &FetchError{Kind: KindInvalidRequest, Err: err}
}

func transportFailure(err error) *FetchError {
	return &FetchError{Kind: KindTransport, Err: err}
}

func decodeFailed(err error) *FetchError {
	return &FetchError{Kind: KindDecode, Err: err}
}

// KindOf returns the Kind of a fetch error, or 0 if err is not a *FetchError.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
