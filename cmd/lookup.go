package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vzahanych/weather-widget/internal/config"
	"github.com/vzahanych/weather-widget/internal/geo"
	"github.com/vzahanych/weather-widget/internal/render"
	"github.com/vzahanych/weather-widget/internal/widget"
)

type lookupOptions struct {
	lat    float64
	lon    float64
	asJSON bool
}

func lookupCmd() *cobra.Command {
	var opts lookupOptions

	cmd := &cobra.Command{
		Use:   "lookup [city...]",
		Short: "Show current weather and the forecast",
		Long: `Show current conditions and the forecast for a city. Without a city the
position is resolved through the configured geolocation provider, or from
--lat/--lon when both are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, args, opts)
		},
	}

	cmd.Flags().Float64Var(&opts.lat, "lat", 0, "latitude to use instead of geolocation")
	cmd.Flags().Float64Var(&opts.lon, "lon", 0, "longitude to use instead of geolocation")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the widget state as JSON")
	cmd.MarkFlagsRequiredTogether("lat", "lon")

	return cmd
}

func runLookup(cmd *cobra.Command, args []string, opts lookupOptions) error {
	cfg := config.GetConfig()
	logger := log.Logger

	suggester := newSuggester(cfg.Suggestions, logger.Named("suggest"))
	locator := newLocator(cfg.Geolocation, logger.Named("geo"))
	if cmd.Flags().Changed("lat") {
		locator = geo.Static{Latitude: opts.lat, Longitude: opts.lon}
	}

	controller := widget.NewController(newWeatherClient(cfg, logger), logger.Named("widget"),
		controllerOptions(cfg, locator, suggester, tele)...)

	if !opts.asJSON {
		controller.Subscribe(func(s widget.State) {
			if s.Loading {
				_ = render.Text(cmd.ErrOrStderr(), s)
			}
		})
	}

	var state widget.State
	if len(args) > 0 {
		controller.SetQuery(cmd.Context(), strings.Join(args, " "))
		state = controller.Submit(cmd.Context())
	} else {
		state = controller.Mount(cmd.Context())
	}

	if state.Mode() == widget.ModeIdle {
		return errors.New("no city given and geolocation is disabled")
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			return fmt.Errorf("encode state: %w", err)
		}
	} else if err := render.Text(cmd.OutOrStdout(), state); err != nil {
		return err
	}

	if state.Mode() == widget.ModeFailure {
		return errors.New(state.Error)
	}
	return nil
}
