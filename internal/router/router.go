package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"readtrack/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	userHandler *handler.UserHandler,
	statsHandler *handler.StatsHandler,
	notificationHandler *handler.NotificationHandler,
	cronHandler *handler.CronHandler,
	backupHandler *handler.BackupHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	// The admin panel is served from a different origin.
	e.Use(middleware.CORS())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	api.GET("/users", userHandler.ListUsers)
	api.POST("/users", userHandler.CreateUsers)
	api.GET("/users/:id", userHandler.GetUser)
	api.PUT("/users/:id", userHandler.UpdateUser)
	api.DELETE("/users/:id", userHandler.DeleteUser)

	api.GET("/config", userHandler.GetConfig)

	api.GET("/statistics", statsHandler.GetStatistics)
	api.POST("/statistics/send", statsHandler.SendStatistics)

	api.POST("/notifications", notificationHandler.Send)

	// External time-based triggers commonly use GET; POST kept for manual runs.
	api.GET("/cron", cronHandler.Trigger)
	api.POST("/cron", cronHandler.Trigger)

	api.GET("/backup", backupHandler.Export)
	api.POST("/backup/restore", backupHandler.Restore)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
