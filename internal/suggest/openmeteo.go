package suggest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// OpenMeteo queries the Open-Meteo geocoding search API.
type OpenMeteo struct {
	baseURL string
	limit   int
	client  *http.Client
	logger  *zap.Logger
}

type geocodingResponse struct {
	Results []struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"results"`
}

func NewOpenMeteo(baseURL string, limit int, logger *zap.Logger) *OpenMeteo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenMeteo{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		limit:   limit,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

func (s *OpenMeteo) Suggest(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	u, err := url.Parse(fmt.Sprintf("%s/search", s.baseURL))
	if err != nil {
		return nil, err
	}

	q := u.Query()
	q.Set("name", text)
	q.Set("count", strconv.Itoa(s.limit))
	q.Set("language", "en")
	q.Set("format", "json")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding request failed with status: %d", resp.StatusCode)
	}

	var body geocodingResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	names := make([]string, 0, len(body.Results))
	seen := make(map[string]struct{}, len(body.Results))
	for _, r := range body.Results {
		if _, dup := seen[r.Name]; dup {
			continue
		}
		seen[r.Name] = struct{}{}
		names = append(names, r.Name)
	}

	s.logger.Debug("Geocoding suggestions fetched",
		zap.String("text", text),
		zap.Int("count", len(names)))

	return names, nil
}
