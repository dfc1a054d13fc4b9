package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	errs "readtrack/internal/errors"
	"readtrack/internal/model"
)

// MockStore is a mock implementation of Store.
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockStore) GetConfig(ctx context.Context) (model.Config, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Config), args.Error(1)
}

func (m *MockStore) AddUser(ctx context.Context, user model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockStore) UpdateUser(ctx context.Context, id model.UserID, patch model.UserPatch) (*model.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockStore) DeleteUser(ctx context.Context, id model.UserID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockStore) UpdateLastResetTime(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestCreateUsersRejectsEmptyList(t *testing.T) {
	svc := NewUserService(new(MockStore))
	_, err := svc.CreateUsers(context.Background(), nil)
	assert.ErrorIs(t, err, errs.ErrInvalidName)
}

func TestCreateUsersRejectsBlankName(t *testing.T) {
	svc := NewUserService(new(MockStore))
	_, err := svc.CreateUsers(context.Background(), []string{"A", "   "})
	assert.ErrorIs(t, err, errs.ErrInvalidName)
}

func TestCreateUsersDefaults(t *testing.T) {
	store := new(MockStore)
	store.On("AddUser", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Name == "A" && !u.IsRead && u.UnreadDays == 1 && !u.Frozen && !u.CreatedAt.IsZero()
	})).Return(&model.User{ID: 1, Name: "A", UnreadDays: 1}, nil)

	svc := NewUserService(store)
	created, err := svc.CreateUsers(context.Background(), []string{"A"})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, model.UserID(1), created[0].ID)
	store.AssertExpectations(t)
}

func TestUpdateUserRejectsBlankName(t *testing.T) {
	svc := NewUserService(new(MockStore))
	blank := " "
	_, err := svc.UpdateUser(context.Background(), 1, model.UserPatch{Name: &blank})
	assert.ErrorIs(t, err, errs.ErrInvalidName)
}

func TestUpdateUserRejectsOutOfBoundUnreadDays(t *testing.T) {
	svc := NewUserService(new(MockStore))

	for _, days := range []int{-1, 8, 100} {
		d := days
		_, err := svc.UpdateUser(context.Background(), 1, model.UserPatch{UnreadDays: &d})
		assert.ErrorIs(t, err, errs.ErrInvalidUnreadDays, "days=%d", days)
	}
}

func TestUpdateUserAcceptsBoundaryUnreadDays(t *testing.T) {
	store := new(MockStore)
	store.On("UpdateUser", mock.Anything, model.UserID(1), mock.Anything).
		Return(&model.User{ID: 1}, nil)

	svc := NewUserService(store)
	for _, days := range []int{0, 7} {
		d := days
		_, err := svc.UpdateUser(context.Background(), 1, model.UserPatch{UnreadDays: &d})
		assert.NoError(t, err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	store := new(MockStore)
	store.On("GetUsers", mock.Anything).Return([]model.User{{ID: 1, Name: "A"}}, nil)

	svc := NewUserService(store)
	_, err := svc.GetUser(context.Background(), 99)
	assert.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestGetUserFound(t *testing.T) {
	store := new(MockStore)
	store.On("GetUsers", mock.Anything).Return([]model.User{{ID: 1, Name: "A"}}, nil)

	svc := NewUserService(store)
	u, err := svc.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "A", u.Name)
}

func TestDeleteUserPassesThrough(t *testing.T) {
	store := new(MockStore)
	store.On("DeleteUser", mock.Anything, model.UserID(5)).Return(errs.ErrUserNotFound)

	svc := NewUserService(store)
	assert.ErrorIs(t, svc.DeleteUser(context.Background(), 5), errs.ErrUserNotFound)
	store.AssertExpectations(t)
}
