package service

import (
	"context"

	"github.com/rs/zerolog"

	"readtrack/internal/model"
)

// ResetReport summarizes one engine pass.
type ResetReport struct {
	ProcessedUsers int `json:"processedUsers"`
	TotalUsers     int `json:"totalUsers"`
	FailedUsers    int `json:"failedUsers"`
}

// ResetService runs the daily state transition over the whole roster.
type ResetService interface {
	Run(ctx context.Context) (*ResetReport, error)
}

type resetService struct {
	store Store
	log   zerolog.Logger
}

// NewResetService creates the reset engine.
func NewResetService(store Store, log zerolog.Logger) ResetService {
	return &resetService{store: store, log: log.With().Str("component", "reset").Logger()}
}

// Run transitions every user in collection order: frozen users are inert;
// unread users gain a day and freeze at the threshold (clamped, never above);
// users who read today restart the cycle at one pending day. Per-user
// persistence failures are logged and counted but never abort the pass. A
// hard error is returned only when the initial read fails.
func (s *resetService) Run(ctx context.Context) (*ResetReport, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int("users", len(users)).Msg("reset pass started")

	cfg, err := s.store.GetConfig(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("config read failed, using defaults")
		cfg = model.DefaultConfig()
	}
	maxUnreadDays := cfg.MaxUnreadDays
	if maxUnreadDays < 1 {
		maxUnreadDays = model.DefaultConfig().MaxUnreadDays
	}

	report := &ResetReport{TotalUsers: len(users)}
	for _, user := range users {
		if user.Frozen {
			s.log.Debug().Str("user", user.Name).Msg("frozen, skipped")
			continue
		}

		if !user.IsRead {
			user.UnreadDays++
			if user.UnreadDays >= maxUnreadDays {
				user.Frozen = true
				user.UnreadDays = maxUnreadDays
				s.log.Info().Str("user", user.Name).Int("unreadDays", user.UnreadDays).Msg("user frozen")
			} else {
				s.log.Debug().Str("user", user.Name).Int("unreadDays", user.UnreadDays).Msg("unread days incremented")
			}
		} else {
			user.IsRead = false
			user.UnreadDays = 1
			s.log.Debug().Str("user", user.Name).Msg("cycle reset to unread")
		}

		_, uerr := s.store.UpdateUser(ctx, user.ID, model.UserPatch{
			IsRead:     &user.IsRead,
			UnreadDays: &user.UnreadDays,
			Frozen:     &user.Frozen,
		})
		if uerr != nil {
			report.FailedUsers++
			s.log.Error().Err(uerr).Str("user", user.Name).Msg("persist failed, continuing")
			continue
		}
		report.ProcessedUsers++
	}

	if err := s.store.UpdateLastResetTime(ctx); err != nil {
		s.log.Error().Err(err).Msg("last reset timestamp update failed")
	}

	s.log.Info().
		Int("processed", report.ProcessedUsers).
		Int("total", report.TotalUsers).
		Int("failed", report.FailedUsers).
		Msg("reset pass finished")
	return report, nil
}
