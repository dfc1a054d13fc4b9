package service

import (
	"context"
	"strings"
	"time"

	errs "readtrack/internal/errors"
	"readtrack/internal/model"
)

// Fixed validation bound for client-supplied unread days, matching the
// admin panel contract.
const maxUnreadDaysBound = 7

// Store is the persistence facade surface the services consume.
type Store interface {
	GetUsers(ctx context.Context) ([]model.User, error)
	GetConfig(ctx context.Context) (model.Config, error)
	AddUser(ctx context.Context, user model.User) (*model.User, error)
	UpdateUser(ctx context.Context, id model.UserID, patch model.UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, id model.UserID) error
	UpdateLastResetTime(ctx context.Context) error
}

// UserService handles roster operations.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	CreateUsers(ctx context.Context, names []string) ([]model.User, error)
	UpdateUser(ctx context.Context, id model.UserID, patch model.UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, id model.UserID) error
	GetConfig(ctx context.Context) (model.Config, error)
}

type userService struct {
	store Store
}

// NewUserService creates a new user service.
func NewUserService(store Store) UserService {
	return &userService{store: store}
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.store.GetUsers(ctx)
}

func (s *userService) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, errs.ErrUserNotFound
}

// CreateUsers adds one user per name. New users start unread with one pending
// day, never frozen.
func (s *userService) CreateUsers(ctx context.Context, names []string) ([]model.User, error) {
	if len(names) == 0 {
		return nil, errs.ErrInvalidName
	}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, errs.ErrInvalidName
		}
	}

	created := make([]model.User, 0, len(names))
	for _, name := range names {
		user, err := s.store.AddUser(ctx, model.User{
			Name:       name,
			IsRead:     false,
			UnreadDays: 1,
			Frozen:     false,
			CreatedAt:  time.Now().UTC(),
		})
		if err != nil {
			return created, err
		}
		created = append(created, *user)
	}
	return created, nil
}

func (s *userService) UpdateUser(ctx context.Context, id model.UserID, patch model.UserPatch) (*model.User, error) {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, errs.ErrInvalidName
	}
	if patch.UnreadDays != nil && (*patch.UnreadDays < 0 || *patch.UnreadDays > maxUnreadDaysBound) {
		return nil, errs.ErrInvalidUnreadDays
	}
	return s.store.UpdateUser(ctx, id, patch)
}

func (s *userService) DeleteUser(ctx context.Context, id model.UserID) error {
	return s.store.DeleteUser(ctx, id)
}

func (s *userService) GetConfig(ctx context.Context) (model.Config, error) {
	return s.store.GetConfig(ctx)
}
