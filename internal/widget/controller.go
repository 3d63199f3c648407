// Package widget holds the view state of a weather widget and drives lookups
// through the weather client.
//
// Overlapping lookups are not cancelled: whichever response settles last is
// the one displayed, even if it belongs to the older request. WithStaleGuard
// changes that by discarding responses older than the last one applied.
package widget

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-widget/internal/geo"
	"github.com/vzahanych/weather-widget/internal/suggest"
	"github.com/vzahanych/weather-widget/internal/weatherapi"
	"github.com/vzahanych/weather-widget/pkg/telemetry"
)

const (
	MsgLocationUnavailable = "Unable to get your location"
	MsgLocationFetchFailed = "Failed to fetch weather data for your location"
	MsgFetchFailed         = weatherapi.Message
)

// Fetcher is the weather lookup the controller depends on.
type Fetcher interface {
	Fetch(ctx context.Context, q weatherapi.Query) (*weatherapi.Forecast, error)
}

type Option func(*Controller)

// WithLocator sets the locator used by Mount.
func WithLocator(l geo.Locator) Option {
	return func(c *Controller) {
		c.locator = l
	}
}

func WithSuggestions(p suggest.Provider) Option {
	return func(c *Controller) {
		c.suggester = p
	}
}

// WithStaleGuard tags each lookup with a sequence number and drops any
// response older than the last one applied.
func WithStaleGuard() Option {
	return func(c *Controller) {
		c.staleGuard = true
	}
}

func WithTelemetry(tele *telemetry.Telemetry) Option {
	return func(c *Controller) {
		c.tele = tele
	}
}

type Controller struct {
	fetcher    Fetcher
	locator    geo.Locator
	suggester  suggest.Provider
	logger     *zap.Logger
	tele       *telemetry.Telemetry
	staleGuard bool

	mu        sync.Mutex
	state     State
	seq       uint64
	applied   uint64
	listeners []func(State)
}

func NewController(fetcher Fetcher, logger *zap.Logger, opts ...Option) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Controller{
		fetcher:   fetcher,
		suggester: suggest.NewStatic(nil),
		logger:    logger,
		state:     State{Suggestions: []string{}},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Subscribe registers fn to receive every new snapshot. fn runs on the
// goroutine that changed the state.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// Mount runs the initial geolocation lookup. Without a locator it does nothing.
func (c *Controller) Mount(ctx context.Context) State {
	if c.locator == nil {
		c.logger.Debug("No locator configured, skipping geolocation")
		return c.State()
	}
	return c.Locate(ctx, c.locator)
}

// Locate resolves a position with locator and looks up its weather. On
// success the query text becomes the resolved city name.
func (c *Controller) Locate(ctx context.Context, locator geo.Locator) State {
	ctx, span := c.tele.GetTracer().Start(ctx, "widget.Locate")
	defer span.End()

	seq := c.begin()

	pos, err := locator.Locate(ctx)
	if err != nil {
		c.logger.Warn("Geolocation failed", zap.Error(err))
		span.SetAttributes(attribute.Bool("located", false))
		return c.finish(seq, func(s *State) {
			s.Error = MsgLocationUnavailable
		})
	}

	span.SetAttributes(
		attribute.Bool("located", true),
		attribute.Float64("lat", pos.Latitude),
		attribute.Float64("lon", pos.Longitude),
	)

	forecast, err := c.fetcher.Fetch(ctx, weatherapi.Coordinates(pos.Latitude, pos.Longitude))
	if err != nil {
		c.logger.Warn("Weather lookup for position failed",
			zap.Float64("lat", pos.Latitude),
			zap.Float64("lon", pos.Longitude),
			zap.Error(err))
		return c.finish(seq, func(s *State) {
			s.Error = MsgLocationFetchFailed
		})
	}

	return c.finish(seq, func(s *State) {
		s.Weather = forecast
		s.Query = forecast.Location.Name
	})
}

// SetQuery stores the input text and refreshes the suggestion list. A failing
// provider only empties the list.
func (c *Controller) SetQuery(ctx context.Context, text string) State {
	c.mu.Lock()
	c.state.Query = text
	c.mu.Unlock()

	suggestions, err := c.suggester.Suggest(ctx, text)
	if err != nil {
		c.logger.Warn("Suggestion lookup failed", zap.String("text", text), zap.Error(err))
		suggestions = nil
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	c.mu.Lock()
	if c.state.Query == text {
		c.state.Suggestions = suggestions
	}
	snapshot := c.state.clone()
	listeners := c.listeners
	c.mu.Unlock()

	c.notify(listeners, snapshot)
	return snapshot
}

func (c *Controller) ClearSuggestions() State {
	c.mu.Lock()
	c.state.Suggestions = []string{}
	snapshot := c.state.clone()
	listeners := c.listeners
	c.mu.Unlock()

	c.notify(listeners, snapshot)
	return snapshot
}

// Submit looks up the weather for the current query text. An empty query is
// ignored and leaves the state untouched.
func (c *Controller) Submit(ctx context.Context) State {
	c.mu.Lock()
	query := c.state.Query
	c.mu.Unlock()

	if query == "" {
		return c.State()
	}

	ctx, span := c.tele.GetTracer().Start(ctx, "widget.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	seq := c.begin()

	forecast, err := c.fetcher.Fetch(ctx, weatherapi.City(query))
	if err != nil {
		c.logger.Warn("Weather lookup failed", zap.String("query", query), zap.Error(err))
		return c.finish(seq, func(s *State) {
			s.Error = MsgFetchFailed
		})
	}

	return c.finish(seq, func(s *State) {
		s.Weather = forecast
	})
}

func (c *Controller) begin() uint64 {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state.Loading = true
	c.state.Error = ""
	snapshot := c.state.clone()
	listeners := c.listeners
	c.mu.Unlock()

	c.notify(listeners, snapshot)
	return seq
}

func (c *Controller) finish(seq uint64, apply func(*State)) State {
	c.mu.Lock()
	if c.staleGuard && seq < c.applied {
		snapshot := c.state.clone()
		applied := c.applied
		c.mu.Unlock()
		c.logger.Debug("Discarding stale lookup result",
			zap.Uint64("seq", seq),
			zap.Uint64("applied", applied))
		return snapshot
	}

	c.applied = seq
	apply(&c.state)
	c.state.Loading = false
	snapshot := c.state.clone()
	listeners := c.listeners
	c.mu.Unlock()

	c.notify(listeners, snapshot)
	return snapshot
}

func (c *Controller) notify(listeners []func(State), s State) {
	for _, fn := range listeners {
		fn(s)
	}
}
