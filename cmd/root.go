package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-widget/internal/config"
	"github.com/vzahanych/weather-widget/pkg/logger"
	"github.com/vzahanych/weather-widget/pkg/telemetry"
)

var (
	configPath string
	log        *logger.Logger
	tele       *telemetry.Telemetry
)

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Weather lookup widget",
		Long:  `Looks up current conditions and a short forecast by city name or position, in the terminal or behind a small HTTP surface.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeServices(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return shutdownServices()
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to configuration file (default: ./config.yaml)")

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(lookupCmd())
	cmd.AddCommand(suggestCmd())

	return cmd
}

func Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			if log != nil {
				log.Info("Received shutdown signal", zap.String("signal", sig.String()))
			}
			cancel()
		case <-ctx.Done():
		}
	}()

	return rootCmd().ExecuteContext(ctx)
}

func initializeServices(ctx context.Context) error {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Set config
	config.SetConfig(cfg)

	// 3. Initialize logger
	log, err = logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tele, err = telemetry.New(ctx, cfg.Telemetry, cfg.Version)
	if err != nil {
		log.Warn("Failed to initialize telemetry", zap.Error(err))
	}

	return nil
}

func shutdownServices() error {
	if err := tele.Shutdown(context.Background()); err != nil {
		log.Warn("Failed to shut down telemetry", zap.Error(err))
	}
	_ = log.Sync()
	return nil
}
