package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// IPLocator estimates the position from the public IP address using an
// ip-api.com style JSON endpoint.
type IPLocator struct {
	url    string
	client *http.Client
	logger *zap.Logger
}

type ipLookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func NewIPLocator(url string, logger *zap.Logger) *IPLocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IPLocator{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (l *IPLocator) Locate(ctx context.Context) (Position, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return Position{}, &LocationError{Err: err}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return Position{}, &LocationError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Position{}, &LocationError{Err: fmt.Errorf("lookup failed with status: %d", resp.StatusCode)}
	}

	var body ipLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Position{}, &LocationError{Err: err}
	}

	if body.Status != "success" {
		return Position{}, &LocationError{Err: fmt.Errorf("lookup rejected: %s", body.Message)}
	}

	pos := Position{Latitude: body.Lat, Longitude: body.Lon}
	if err := pos.Validate(); err != nil {
		return Position{}, &LocationError{Err: err}
	}

	l.logger.Debug("Resolved position from IP",
		zap.Float64("lat", pos.Latitude),
		zap.Float64("lon", pos.Longitude))

	return pos, nil
}
