package weatherapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-widget/internal/config"
	"github.com/vzahanych/weather-widget/pkg/telemetry"
)

const maxErrorBody = 64 << 10

// MetricsRecorder receives one call per Fetch.
type MetricsRecorder interface {
	RecordWeatherCall(ctx context.Context, success bool, kind string)
}

type Client struct {
	baseURL string
	apiKey  string
	days    int
	client  *http.Client
	logger  *zap.Logger
	tele    *telemetry.Telemetry
	metrics MetricsRecorder
}

func NewClient(cfg config.WeatherConfig, logger *zap.Logger, tele *telemetry.Telemetry) *Client {
	days := cfg.Days
	if days <= 0 {
		days = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		days:    days,
		client: &http.Client{
			Timeout: time.Duration(cfg.Timeout) * time.Second,
		},
		logger: logger,
		tele:   tele,
	}
}

func (c *Client) SetMetricsRecorder(metrics MetricsRecorder) {
	c.metrics = metrics
}

// Days is the forecast length requested on every call.
func (c *Client) Days() int {
	return c.days
}

// Fetch performs exactly one GET {base}/forecast.json call. Every failure is
// returned as *FetchError.
func (c *Client) Fetch(ctx context.Context, q Query) (*Forecast, error) {
	ctx, span := c.tele.GetTracer().Start(ctx, "weather-api.Fetch")
	defer span.End()

	span.SetAttributes(
		attribute.String("query", q.String()),
		attribute.Int("days", c.days),
	)

	forecast, err := c.fetch(ctx, q)
	if err != nil {
		var fe *FetchError
		if !errors.As(err, &fe) {
			fe = newFetchError(KindUnknown, 0, err)
		}

		span.SetStatus(codes.Error, fe.Kind.String())
		c.tele.RecordError(ctx, fe.Err, attribute.String("kind", fe.Kind.String()))
		c.logger.Warn("Forecast lookup failed",
			zap.String("query", q.String()),
			zap.String("kind", fe.Kind.String()),
			zap.Int("status", fe.Status),
			zap.String("detail", fe.Detail()))
		c.record(ctx, false, fe.Kind)
		return nil, fe
	}

	span.SetAttributes(
		attribute.String("location", forecast.Location.Name),
		attribute.Int("days_fetched", len(forecast.Forecast.Days)),
	)
	c.logger.Debug("Forecast lookup completed",
		zap.String("query", q.String()),
		zap.String("location", forecast.Location.Name))
	c.record(ctx, true, KindUnknown)

	return forecast, nil
}

func (c *Client) fetch(ctx context.Context, q Query) (*Forecast, error) {
	if q.IsEmpty() {
		return nil, newFetchError(KindUnknown, 0, ErrEmptyQuery)
	}

	if c.apiKey == "" {
		c.logger.Warn("WeatherAPI called without API key", zap.String("query", q.String()))
	}

	u, err := url.Parse(fmt.Sprintf("%s/forecast.json", c.baseURL))
	if err != nil {
		return nil, newFetchError(KindUnknown, 0, err)
	}

	params := u.Query()
	params.Set("key", c.apiKey)
	params.Set("q", q.String())
	params.Set("days", strconv.Itoa(c.days))
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, newFetchError(KindUnknown, 0, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, newFetchError(KindUnknown, 0, err)
		}
		return nil, newFetchError(KindNetworkUnavailable, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp)
	}

	var forecast Forecast
	if err := json.NewDecoder(resp.Body).Decode(&forecast); err != nil {
		return nil, newFetchError(KindUnknown, resp.StatusCode, fmt.Errorf("decode forecast: %w", err))
	}

	slices.SortStableFunc(forecast.Forecast.Days, func(a, b ForecastDay) int {
		return strings.Compare(a.Date, b.Date)
	})

	if len(forecast.Forecast.Days) < c.days {
		return nil, newFetchError(KindUnknown, resp.StatusCode,
			fmt.Errorf("%w: got %d, want %d", ErrShortForecast, len(forecast.Forecast.Days), c.days))
	}
	forecast.Forecast.Days = forecast.Forecast.Days[:c.days]

	return &forecast, nil
}

func classifyStatus(resp *http.Response) *FetchError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var envelope apiError
	_ = json.Unmarshal(body, &envelope)

	cause := fmt.Errorf("API request failed with status: %d", resp.StatusCode)
	if envelope.Error.Message != "" {
		cause = fmt.Errorf("API request failed with status %d: %s (code %d)",
			resp.StatusCode, envelope.Error.Message, envelope.Error.Code)
	}

	kind := KindUnknown
	switch {
	case envelope.Error.Code == codeNoLocationFound:
		kind = KindNotFound
	case resp.StatusCode == http.StatusTooManyRequests,
		envelope.Error.Code == codeQuotaExceeded,
		envelope.Error.Code == codeKeyDisabled:
		kind = KindRateLimited
	}

	return newFetchError(kind, resp.StatusCode, cause)
}

func (c *Client) record(ctx context.Context, success bool, kind Kind) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordWeatherCall(ctx, success, kind.String())
}
