package cmd

import (
	"go.uber.org/zap"

	"github.com/vzahanych/weather-widget/internal/config"
	"github.com/vzahanych/weather-widget/internal/geo"
	"github.com/vzahanych/weather-widget/internal/suggest"
	"github.com/vzahanych/weather-widget/internal/weatherapi"
	"github.com/vzahanych/weather-widget/internal/widget"
	"github.com/vzahanych/weather-widget/pkg/telemetry"
)

func newSuggester(cfg config.SuggestionsConfig, logger *zap.Logger) suggest.Provider {
	switch cfg.Provider {
	case "open-meteo":
		return suggest.NewOpenMeteo(cfg.BaseURL, cfg.Limit, logger)
	default:
		return suggest.NewStatic(cfg.Cities)
	}
}

// newLocator returns nil when geolocation is turned off.
func newLocator(cfg config.GeolocationConfig, logger *zap.Logger) geo.Locator {
	switch cfg.Provider {
	case "static":
		return geo.Static{Latitude: cfg.Latitude, Longitude: cfg.Longitude}
	case "ip":
		return geo.NewIPLocator(cfg.URL, logger)
	default:
		return nil
	}
}

func controllerOptions(cfg *config.Config, locator geo.Locator, suggester suggest.Provider, tele *telemetry.Telemetry) []widget.Option {
	opts := []widget.Option{
		widget.WithSuggestions(suggester),
		widget.WithTelemetry(tele),
	}
	if locator != nil {
		opts = append(opts, widget.WithLocator(locator))
	}
	if cfg.Sessions.StaleGuard {
		opts = append(opts, widget.WithStaleGuard())
	}
	return opts
}

func newWeatherClient(cfg *config.Config, logger *zap.Logger) *weatherapi.Client {
	return weatherapi.NewClient(cfg.Weather, logger.Named("weatherapi"), tele)
}
