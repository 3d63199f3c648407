// Package geo provides the one-shot position lookup used when a widget mounts.
package geo

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
)

// Position is a point in decimal degrees.
type Position struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lon" validate:"longitude"`
}

// Locator resolves the caller's approximate position.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// ErrPermissionDenied is the cause used when position access is refused.
var ErrPermissionDenied = errors.New("position access denied")

// LocationError reports that no position is available. The cause is kept for
// logs only; callers show a fixed message.
type LocationError struct {
	Err error
}

func (e *LocationError) Error() string {
	if e.Err == nil {
		return "location unavailable"
	}
	return "location unavailable: " + e.Err.Error()
}

func (e *LocationError) Unwrap() error {
	return e.Err
}

var validate = validator.New()

// Validate checks the position is within the valid degree ranges.
func (p Position) Validate() error {
	return validate.Struct(p)
}

// Static always reports the same position.
type Static Position

func (s Static) Locate(ctx context.Context) (Position, error) {
	p := Position(s)
	if err := p.Validate(); err != nil {
		return Position{}, &LocationError{Err: err}
	}
	return p, nil
}

// Denied models a caller that refused to share a position.
type Denied struct{}

func (Denied) Locate(ctx context.Context) (Position, error) {
	return Position{}, &LocationError{Err: ErrPermissionDenied}
}

// LocatorFunc adapts a function to Locator.
type LocatorFunc func(ctx context.Context) (Position, error)

func (f LocatorFunc) Locate(ctx context.Context) (Position, error) {
	return f(ctx)
}
