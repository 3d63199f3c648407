package widget

import (
	"github.com/vzahanych/weather-widget/internal/weatherapi"
)

// Mode is the display mode derived from a State.
type Mode int

const (
	ModeIdle Mode = iota
	ModeLoading
	ModeSuccess
	ModeFailure
)

func (m Mode) String() string {
	switch m {
	case ModeLoading:
		return "loading"
	case ModeSuccess:
		return "success"
	case ModeFailure:
		return "failure"
	default:
		return "idle"
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// State is a snapshot of everything the widget displays. Weather is shared
// between snapshots and must be treated as read-only.
type State struct {
	Query       string               `json:"query"`
	Suggestions []string             `json:"suggestions"`
	Weather     *weatherapi.Forecast `json:"weather,omitempty"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error,omitempty"`
}

// Mode picks the single active display mode. Loading wins over an error, an
// error over data; data from an earlier lookup may still be present under a
// failure.
func (s State) Mode() Mode {
	switch {
	case s.Loading:
		return ModeLoading
	case s.Error != "":
		return ModeFailure
	case s.Weather != nil:
		return ModeSuccess
	default:
		return ModeIdle
	}
}

func (s State) clone() State {
	out := s
	if s.Suggestions != nil {
		out.Suggestions = append([]string(nil), s.Suggestions...)
	}
	return out
}
