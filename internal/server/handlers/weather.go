package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vzahanych/weather-widget/internal/server/utils"
	"github.com/vzahanych/weather-widget/internal/suggest"
	"github.com/vzahanych/weather-widget/internal/weatherapi"
	"github.com/vzahanych/weather-widget/internal/widget"
)

// WeatherHandler serves stateless lookups for front ends that keep their own state.
type WeatherHandler struct {
	fetcher   widget.Fetcher
	suggester suggest.Provider
	logger    *zap.Logger
}

func NewWeatherHandler(fetcher widget.Fetcher, suggester suggest.Provider, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		fetcher:   fetcher,
		suggester: suggester,
		logger:    logger,
	}
}

func (h *WeatherHandler) GetWeather(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)
	reqLogger := h.logger.With(zap.String("request_id", utils.GetRequestIDFromGinContext(c)))

	var req WeatherRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		badRequest(c, utils.ValidationDetails(errs))
		return
	}

	reqLogger.Info("Processing weather request", zap.String("q", req.Q))

	forecast, err := h.fetcher.Fetch(ctx, weatherapi.City(req.Q))
	if err != nil {
		kind := weatherapi.KindOf(err)
		reqLogger.Warn("Failed to get weather data", zap.String("kind", kind.String()), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error: weatherapi.Message,
			Code:  kind.String(),
		})
		return
	}

	c.JSON(http.StatusOK, forecast)
}

func (h *WeatherHandler) GetSuggestions(c *gin.Context) {
	ctx := utils.GetContextFromGinContext(c)

	var req SuggestionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if errs := utils.ValidateStruct(req); errs != nil {
		badRequest(c, utils.ValidationDetails(errs))
		return
	}

	suggestions, err := h.suggester.Suggest(ctx, req.Q)
	if err != nil {
		h.logger.Warn("Suggestion lookup failed",
			zap.String("request_id", utils.GetRequestIDFromGinContext(c)),
			zap.Error(err))
		suggestions = nil
	}
	if suggestions == nil {
		suggestions = []string{}
	}

	c.JSON(http.StatusOK, SuggestionsResponse{Suggestions: suggestions})
}

func badRequest(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Invalid request parameters",
		Code:    "INVALID_PARAMS",
		Details: details,
	})
}
