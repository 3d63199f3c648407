// Package suggest produces city name candidates for partially typed input.
package suggest

import (
	"context"
	"strings"
)

// DefaultCities is the fixed candidate list used when nothing else is configured.
var DefaultCities = []string{"London", "New York", "Tokyo", "Paris", "Berlin"}

// Provider turns input text into an ordered list of candidates.
type Provider interface {
	Suggest(ctx context.Context, text string) ([]string, error)
}

// Static filters a fixed list by case-insensitive substring match, keeping list order.
type Static struct {
	cities []string
}

func NewStatic(cities []string) *Static {
	if len(cities) == 0 {
		cities = DefaultCities
	}
	return &Static{cities: append([]string(nil), cities...)}
}

func (s *Static) Suggest(ctx context.Context, text string) ([]string, error) {
	needle := strings.ToLower(text)

	matches := make([]string, 0, len(s.cities))
	for _, city := range s.cities {
		if strings.Contains(strings.ToLower(city), needle) {
			matches = append(matches, city)
		}
	}
	return matches, nil
}
