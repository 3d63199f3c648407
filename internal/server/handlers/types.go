package handlers

import (
	"github.com/vzahanych/weather-widget/internal/widget"
)

// WeatherRequest is the query of a direct forecast lookup.
type WeatherRequest struct {
	Q string `form:"q" validate:"required,max=200"`
}

type SuggestionsRequest struct {
	Q string `form:"q" validate:"max=200"`
}

type SuggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

// QueryRequest replaces the query text of a session.
type QueryRequest struct {
	Text string `json:"text" validate:"max=200"`
}

// LocateRequest carries the position reported by the browser. With no
// fields set the server-side locator is used.
type LocateRequest struct {
	Lat    *float64 `json:"lat" validate:"omitempty,latitude"`
	Lon    *float64 `json:"lon" validate:"omitempty,longitude"`
	Denied bool     `json:"denied"`
}

func (r LocateRequest) hasPosition() bool {
	return r.Lat != nil && r.Lon != nil
}

// consistent reports whether the fields form one of the accepted shapes:
// a full position, a denial, or nothing.
func (r LocateRequest) consistent() bool {
	if (r.Lat == nil) != (r.Lon == nil) {
		return false
	}
	return !(r.Denied && r.hasPosition())
}

type SessionResponse struct {
	ID    string       `json:"id"`
	Mode  widget.Mode  `json:"mode"`
	State widget.State `json:"state"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Timestamp string `json:"timestamp,omitempty"`
	Sessions  int    `json:"sessions,omitempty"`
}
