package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-widget/internal/geo"
	"github.com/vzahanych/weather-widget/internal/render"
	"github.com/vzahanych/weather-widget/internal/server/utils"
	"github.com/vzahanych/weather-widget/internal/session"
	"github.com/vzahanych/weather-widget/internal/widget"
)

type SessionHandler struct {
	registry *session.Registry
	logger   *zap.Logger
}

func NewSessionHandler(registry *session.Registry, logger *zap.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		logger:   logger,
	}
}

func (h *SessionHandler) Create(c *gin.Context) {
	s := h.registry.Create()
	h.logger.Info("Widget session opened",
		zap.String("session_id", s.ID),
		zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	c.JSON(http.StatusCreated, sessionResponse(s.ID, s.Controller.State()))
}

func (h *SessionHandler) Get(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s.ID, s.Controller.State()))
}

func (h *SessionHandler) View(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.String(http.StatusOK, render.String(s.Controller.State()))
}

func (h *SessionHandler) SetQuery(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		badRequest(c, utils.ValidationDetails(errs))
		return
	}

	state := s.Controller.SetQuery(utils.GetContextFromGinContext(c), req.Text)
	c.JSON(http.StatusOK, sessionResponse(s.ID, state))
}

func (h *SessionHandler) ClearSuggestions(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s.ID, s.Controller.ClearSuggestions()))
}

func (h *SessionHandler) Submit(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	state := s.Controller.Submit(utils.GetContextFromGinContext(c))
	c.JSON(http.StatusOK, sessionResponse(s.ID, state))
}

func (h *SessionHandler) Locate(c *gin.Context) {
	s, ok := h.lookup(c)
	if !ok {
		return
	}

	var req LocateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		badRequest(c, utils.ValidationDetails(errs))
		return
	}
	if !req.consistent() {
		badRequest(c, "send both lat and lon, or denied, or neither")
		return
	}

	ctx := utils.GetContextFromGinContext(c)

	var state widget.State
	switch {
	case req.Denied:
		state = s.Controller.Locate(ctx, geo.Denied{})
	case req.hasPosition():
		state = s.Controller.Locate(ctx, geo.Static{Latitude: *req.Lat, Longitude: *req.Lon})
	default:
		state = s.Controller.Mount(ctx)
	}

	c.JSON(http.StatusOK, sessionResponse(s.ID, state))
}

func (h *SessionHandler) Delete(c *gin.Context) {
	if !h.registry.Delete(c.Param("id")) {
		notFound(c)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) lookup(c *gin.Context) (*session.Session, bool) {
	s, err := h.registry.Get(c.Param("id"))
	if err != nil {
		notFound(c)
		return nil, false
	}
	return s, true
}

func sessionResponse(id string, state widget.State) SessionResponse {
	return SessionResponse{
		ID:    id,
		Mode:  state.Mode(),
		State: state,
	}
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error: "Session not found",
		Code:  "SESSION_NOT_FOUND",
	})
}
