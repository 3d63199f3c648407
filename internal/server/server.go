package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-widget/internal/config"
	"github.com/vzahanych/weather-widget/internal/metrics"
	"github.com/vzahanych/weather-widget/internal/server/handlers"
	"github.com/vzahanych/weather-widget/internal/server/middlewares"
	"github.com/vzahanych/weather-widget/internal/session"
	"github.com/vzahanych/weather-widget/internal/suggest"
	"github.com/vzahanych/weather-widget/internal/widget"
	"github.com/vzahanych/weather-widget/pkg/telemetry"
)

// Dependencies are the domain components the HTTP surface exposes.
type Dependencies struct {
	Fetcher   widget.Fetcher
	Suggester suggest.Provider
	Sessions  *session.Registry
	Metrics   *metrics.Metrics
}

type Server struct {
	engine  *gin.Engine
	handler http.Handler
	server  *http.Server
	deps    Dependencies
	logger  *zap.Logger
	tele    *telemetry.Telemetry
}

func NewServer(cfg config.ServerConfig, deps Dependencies, logger *zap.Logger, tele *telemetry.Telemetry) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger, "/health", "/health/live", "/health/ready", "/metrics"))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))
	engine.Use(middlewares.TelemetryMiddleware(logger, tele))
	if deps.Metrics != nil {
		engine.Use(middlewares.MetricsMiddleware(deps.Metrics))
	}

	s := &Server{
		engine: engine,
		deps:   deps,
		logger: logger,
		tele:   tele,
	}

	s.setupRoutes()

	s.handler = cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", middlewares.RequestIDHeader},
		ExposedHeaders:   []string{middlewares.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(engine)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() {
	weather := handlers.NewWeatherHandler(s.deps.Fetcher, s.deps.Suggester, s.logger)
	s.engine.GET("/weather", weather.GetWeather)
	s.engine.GET("/suggestions", weather.GetSuggestions)

	sessions := handlers.NewSessionHandler(s.deps.Sessions, s.logger)
	group := s.engine.Group("/sessions")
	group.POST("", sessions.Create)
	group.GET("/:id", sessions.Get)
	group.DELETE("/:id", sessions.Delete)
	group.GET("/:id/view", sessions.View)
	group.PUT("/:id/query", sessions.SetQuery)
	group.DELETE("/:id/suggestions", sessions.ClearSuggestions)
	group.POST("/:id/submit", sessions.Submit)
	group.POST("/:id/locate", sessions.Locate)

	// Health endpoints (Kubernetes friendly)
	health := handlers.NewHealthHandler(s.logger, s.deps.Sessions)
	s.engine.GET("/health", health.Health)
	s.engine.GET("/health/live", health.Liveness)
	s.engine.GET("/health/ready", health.Readiness)

	if s.deps.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
	}
}

// Handler is the full HTTP handler including CORS.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
