package weatherapi

import (
	"errors"
	"fmt"
)

// Message is the single user-facing text of every FetchError.
const Message = "Failed to fetch weather data"

// Kind discriminates fetch failures for callers that care. Callers that do
// not can rely on Error() alone.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindRateLimited
	KindNetworkUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindRateLimited:
		return "rate_limited"
	case KindNetworkUnavailable:
		return "network_unavailable"
	default:
		return "unknown"
	}
}

// WeatherAPI error codes that map to a specific Kind.
const (
	codeNoLocationFound = 1006
	codeQuotaExceeded   = 2007
	codeKeyDisabled     = 2008
)

var (
	ErrEmptyQuery    = errors.New("empty query")
	ErrShortForecast = errors.New("forecast has fewer days than requested")
)

type FetchError struct {
	Kind   Kind
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	return Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Detail describes the underlying cause; meant for logs, not for users.
func (e *FetchError) Detail() string {
	if e.Err == nil {
		return fmt.Sprintf("%s (status %d)", e.Kind, e.Status)
	}
	return fmt.Sprintf("%s (status %d): %v", e.Kind, e.Status, e.Err)
}

// KindOf reports the Kind of a FetchError in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

func newFetchError(kind Kind, status int, err error) *FetchError {
	return &FetchError{Kind: kind, Status: status, Err: err}
}
