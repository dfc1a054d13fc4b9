package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"readtrack/internal/service"
)

// CronHandler guards and triggers the reset engine. The engine itself does no
// authentication; this boundary rejects unauthenticated invocations.
type CronHandler struct {
	svc    service.ResetService
	secret string
}

// NewCronHandler creates a handler layer.
func NewCronHandler(svc service.ResetService, secret string) *CronHandler {
	return &CronHandler{svc: svc, secret: secret}
}

// Trigger godoc
// @Summary Run the daily reset pass
// @Tags cron
// @Produce json
// @Param Authorization header string true "Bearer shared secret"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /cron [get]
func (h *CronHandler) Trigger(c echo.Context) error {
	if h.secret == "" {
		return echo.NewHTTPError(http.StatusInternalServerError, "server misconfigured: CRON_SECRET not set")
	}

	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if auth == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing Authorization header")
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) != 1 {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	report, err := h.svc.Run(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":        "Cron job executed successfully",
		"processedUsers": report.ProcessedUsers,
		"totalUsers":     report.TotalUsers,
	})
}
