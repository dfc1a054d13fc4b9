// Package scheduler owns the in-process timers: the periodic backup and the
// optional self-scheduled reset for deployments without an external cron.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"readtrack/internal/service"
	"readtrack/internal/store"
)

// backupSchedule replaces the backup document with the primary's snapshot on
// a fixed long interval.
const backupSchedule = "@every 12h"

const jobTimeout = 5 * time.Minute

// Scheduler runs background jobs on cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	facade *store.Facade
	reset  service.ResetService
	log    zerolog.Logger
}

// New builds the scheduler around the facade and reset engine.
func New(facade *store.Facade, reset service.ResetService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		facade: facade,
		reset:  reset,
		log:    log.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the backup job and, when resetSpec is non-empty, the
// self-scheduled reset (e.g. "0 4 * * *"), then starts the cron runner.
func (s *Scheduler) Start(resetSpec string) error {
	if _, err := s.cron.AddFunc(backupSchedule, s.runBackup); err != nil {
		return fmt.Errorf("register backup job: %w", err)
	}
	s.log.Info().Str("schedule", backupSchedule).Msg("periodic backup scheduled")

	if resetSpec != "" {
		if _, err := s.cron.AddFunc(resetSpec, s.runReset); err != nil {
			return fmt.Errorf("register reset job %q: %w", resetSpec, err)
		}
		s.log.Info().Str("schedule", resetSpec).Msg("in-process reset scheduled")
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron runner and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.facade.BackupNow(ctx); err != nil {
		s.log.Error().Err(err).Msg("periodic backup failed")
	}
}

func (s *Scheduler) runReset() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	report, err := s.reset.Run(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("scheduled reset failed")
		return
	}
	s.log.Info().Int("processed", report.ProcessedUsers).Int("total", report.TotalUsers).Msg("scheduled reset finished")
}
