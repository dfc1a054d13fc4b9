package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"readtrack/internal/notify"
)

// NotificationHandler exposes raw message dispatch.
type NotificationHandler struct {
	dispatcher *notify.Dispatcher
}

// NewNotificationHandler creates a handler layer.
func NewNotificationHandler(dispatcher *notify.Dispatcher) *NotificationHandler {
	return &NotificationHandler{dispatcher: dispatcher}
}

// SendNotificationRequest is the POST /notifications payload.
type SendNotificationRequest struct {
	Channel string `json:"channel"`
	Message string `json:"message" validate:"required"`
}

// Send godoc
// @Summary Send a message to one channel or all configured channels
// @Tags notifications
// @Accept json
// @Produce json
// @Param body body SendNotificationRequest true "Channel and message"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /notifications [post]
func (h *NotificationHandler) Send(c echo.Context) error {
	var req SendNotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Channel == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing channel")
	}

	ctx := c.Request().Context()
	if req.Channel == "all" || req.Channel == "all_channels" {
		result, err := h.dispatcher.SendToAll(ctx, req.Message)
		if err != nil {
			return jsonError(c, err)
		}
		// Partial failure is a 200 with the per-channel breakdown.
		return c.JSON(http.StatusOK, map[string]interface{}{
			"success": true,
			"message": result.Message,
			"details": result,
		})
	}

	if err := h.dispatcher.Send(ctx, req.Channel, req.Message); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "message sent to " + req.Channel,
	})
}
