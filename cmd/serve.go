package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-widget/internal/config"
	"github.com/vzahanych/weather-widget/internal/metrics"
	"github.com/vzahanych/weather-widget/internal/server"
	"github.com/vzahanych/weather-widget/internal/session"
	"github.com/vzahanych/weather-widget/internal/widget"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the widget HTTP server",
		Long:  `Start the HTTP server that hosts widget sessions, direct lookups and suggestions for a browser front end.`,
		RunE:  runServer,
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()
	logger := log.Logger

	logger.Info("Starting weather widget server",
		zap.String("config_path", configPath),
		zap.Bool("telemetry_enabled", cfg.Telemetry.Enabled),
		zap.Int("server_port", cfg.Server.Port))

	m := metrics.New()

	client := newWeatherClient(cfg, logger)
	client.SetMetricsRecorder(m)

	suggester := newSuggester(cfg.Suggestions, logger.Named("suggest"))
	locator := newLocator(cfg.Geolocation, logger.Named("geo"))
	opts := controllerOptions(cfg, locator, suggester, tele)

	registry := session.NewRegistry(cfg.Sessions, func() *widget.Controller {
		return widget.NewController(client, logger.Named("widget"), opts...)
	}, logger.Named("session"))
	registry.SetGaugeRecorder(m)
	registry.Start(cmd.Context())

	srv := server.NewServer(cfg.Server, server.Dependencies{
		Fetcher:   client,
		Suggester: suggester,
		Sessions:  registry,
		Metrics:   m,
	}, logger, tele)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		logger.Error("Server error", zap.Error(err))
		return err
	case <-cmd.Context().Done():
		logger.Info("Shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
			return err
		}

		if err := registry.Stop(shutdownCtx); err != nil {
			logger.Warn("Session reaper did not stop in time", zap.Error(err))
		}

		logger.Info("Server shutdown complete")
		return nil
	}
}
