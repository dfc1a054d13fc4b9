package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	_ "readtrack/docs" // swagger docs

	"readtrack/internal/config"
	"readtrack/internal/handler"
	"readtrack/internal/logging"
	"readtrack/internal/notify"
	"readtrack/internal/router"
	"readtrack/internal/scheduler"
	"readtrack/internal/service"
	"readtrack/internal/store"
)

// @title Reading Tracker API
// @version 1.0
// @description Daily reading tracker with multi-backend persistence, scheduled resets, and notification fan-out.
// @host localhost:8080
// @BasePath /api
// @schemes http
func main() {
	if err := godotenv.Load(); err != nil {
		// No .env is the normal case outside local development.
		_ = err
	}

	cfg := config.Load()
	log := logging.New(cfg.LogLevel, os.Getenv("LOG_CONSOLE") == "true")

	// Storage backends, priority order: redis, gist, static file.
	primary := store.NewRedis(cfg.RedisURL, log)
	backup := store.NewGist(cfg.GistID, cfg.GistToken, log)
	static := store.NewStatic(cfg.StaticDataFile, log)
	facade := store.NewFacade(primary, backup, static, cfg.MaxUnreadDays, log)

	userService := service.NewUserService(facade)
	resetService := service.NewResetService(facade, log)

	connector := notify.NewHTTPConnector(cfg.WhatsAppSenderURL)
	dispatcher := notify.NewDispatcher(cfg, connector, log)

	userHandler := handler.NewUserHandler(userService)
	statsHandler := handler.NewStatsHandler(userService, dispatcher)
	notificationHandler := handler.NewNotificationHandler(dispatcher)
	cronHandler := handler.NewCronHandler(resetService, cfg.CronSecret)
	backupHandler := handler.NewBackupHandler(facade)

	e := echo.New()
	e.HideBanner = true
	router.Register(e, userHandler, statsHandler, notificationHandler, cronHandler, backupHandler)

	sched := scheduler.New(facade, resetService, log)
	if err := sched.Start(cfg.ResetCron); err != nil {
		log.Fatal().Err(err).Msg("scheduler start")
	}

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Msg("server starting")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	sched.Stop()
	facade.Flush()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := primary.Close(); err != nil {
		log.Error().Err(err).Msg("redis close")
	}
}
