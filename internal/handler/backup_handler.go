package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"readtrack/internal/model"
	"readtrack/internal/store"
)

// BackupHandler exports and restores the full snapshot.
type BackupHandler struct {
	facade *store.Facade
}

// NewBackupHandler creates a handler layer.
func NewBackupHandler(facade *store.Facade) *BackupHandler {
	return &BackupHandler{facade: facade}
}

// BackupExport is the export envelope.
type BackupExport struct {
	Version   string       `json:"version"`
	Timestamp time.Time    `json:"timestamp"`
	Users     []model.User `json:"users"`
	Config    model.Config `json:"config"`
}

// Export godoc
// @Summary Export the full data snapshot
// @Tags backup
// @Produce json
// @Success 200 {object} BackupExport
// @Router /backup [get]
func (h *BackupHandler) Export(c echo.Context) error {
	snap, _, err := h.facade.ReadData(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, BackupExport{
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Users:     snap.Users,
		Config:    snap.Config,
	})
}

// Restore godoc
// @Summary Replace the data snapshot from an export
// @Tags backup
// @Accept json
// @Produce json
// @Param body body BackupExport true "Exported snapshot"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Router /backup/restore [post]
func (h *BackupHandler) Restore(c echo.Context) error {
	var export BackupExport
	if err := c.Bind(&export); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if export.Users == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "missing users")
	}

	snap := &model.Snapshot{Users: export.Users, Config: export.Config}
	if snap.Config.MaxUnreadDays < 1 {
		snap.Config = model.DefaultConfig()
	}
	if err := h.facade.WriteData(c.Request().Context(), snap); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "snapshot restored"})
}
