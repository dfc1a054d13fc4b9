package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"readtrack/internal/notify"
	"readtrack/internal/service"
)

// StatsHandler serves the formatted digest and pushes it to channels.
type StatsHandler struct {
	svc        service.UserService
	dispatcher *notify.Dispatcher
}

// NewStatsHandler creates a handler layer.
func NewStatsHandler(svc service.UserService, dispatcher *notify.Dispatcher) *StatsHandler {
	return &StatsHandler{svc: svc, dispatcher: dispatcher}
}

// SendStatisticsRequest selects the target channel for a digest push.
type SendStatisticsRequest struct {
	Channel string `json:"channel"`
}

// GetStatistics godoc
// @Summary Get the formatted reading digest
// @Tags statistics
// @Produce json
// @Success 200 {object} map[string]string
// @Router /statistics [get]
func (h *StatsHandler) GetStatistics(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"statistics": notify.FormatDigest(users)})
}

// SendStatistics godoc
// @Summary Format the current digest and dispatch it
// @Tags statistics
// @Accept json
// @Produce json
// @Param body body SendStatisticsRequest true "Target channel, or \"all\""
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /statistics/send [post]
func (h *StatsHandler) SendStatistics(c echo.Context) error {
	var req SendStatisticsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Channel == "" {
		req.Channel = "all"
	}

	ctx := c.Request().Context()
	users, err := h.svc.ListUsers(ctx)
	if err != nil {
		return jsonError(c, err)
	}
	digest := notify.FormatDigest(users)

	if req.Channel == "all" || req.Channel == "all_channels" {
		result, err := h.dispatcher.SendToAll(ctx, digest)
		if err != nil {
			return jsonError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"message": result.Message,
			"details": result,
		})
	}

	if err := h.dispatcher.Send(ctx, req.Channel, digest); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "digest sent to " + req.Channel,
	})
}
