package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatsProvider reports runtime stats of the session store.
type StatsProvider interface {
	Stats() map[string]interface{}
}

type HealthHandler struct {
	logger    *zap.Logger
	stats     StatsProvider
	startTime time.Time
}

func NewHealthHandler(logger *zap.Logger, stats StatsProvider) *HealthHandler {
	return &HealthHandler{
		logger:    logger,
		stats:     stats,
		startTime: time.Now(),
	}
}

func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "alive",
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status: "ready",
		Uptime: time.Since(h.startTime).String(),
	})
}

func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Uptime:    time.Since(h.startTime).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if h.stats != nil {
		if n, ok := h.stats.Stats()["sessions"].(int); ok {
			resp.Sessions = n
		}
	}

	c.JSON(http.StatusOK, resp)
}
