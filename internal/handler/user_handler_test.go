package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	errs "readtrack/internal/errors"
	"readtrack/internal/model"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) CreateUsers(ctx context.Context, names []string) ([]model.User, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id model.UserID, patch model.UserPatch) (*model.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id model.UserID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) GetConfig(ctx context.Context) (model.Config, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Config), args.Error(1)
}

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}
	return e
}

func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestListUsers(t *testing.T) {
	svc := new(MockUserService)
	svc.On("ListUsers", mock.Anything).Return([]model.User{{ID: 1, Name: "A"}}, nil)
	h := NewUserHandler(svc)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodGet, "/api/users", "")

	require.NoError(t, h.ListUsers(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var users []model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "A", users[0].Name)
}

func TestGetUserInvalidID(t *testing.T) {
	h := NewUserHandler(new(MockUserService))

	e := newTestEcho()
	c, _ := newJSONContext(e, http.MethodGet, "/api/users/abc", "")
	c.SetParamNames("id")
	c.SetParamValues("abc")

	err := h.GetUser(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestGetUserNotFoundMapsTo404(t *testing.T) {
	svc := new(MockUserService)
	svc.On("GetUser", mock.Anything, model.UserID(99)).Return(nil, errs.ErrUserNotFound)
	h := NewUserHandler(svc)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodGet, "/api/users/99", "")
	c.SetParamNames("id")
	c.SetParamValues("99")

	require.NoError(t, h.GetUser(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp errs.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Code)
}

func TestCreateUsers(t *testing.T) {
	svc := new(MockUserService)
	svc.On("CreateUsers", mock.Anything, []string{"A", "B"}).
		Return([]model.User{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}}, nil)
	h := NewUserHandler(svc)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodPost, "/api/users", `{"names":["A","B"]}`)

	require.NoError(t, h.CreateUsers(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created []model.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Len(t, created, 2)
	svc.AssertExpectations(t)
}

func TestCreateUsersRejectsEmptyNames(t *testing.T) {
	h := NewUserHandler(new(MockUserService))

	e := newTestEcho()
	c, _ := newJSONContext(e, http.MethodPost, "/api/users", `{"names":[]}`)

	err := h.CreateUsers(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func TestUpdateUserAcceptsStringID(t *testing.T) {
	svc := new(MockUserService)
	svc.On("UpdateUser", mock.Anything, model.UserID(1755000000000), mock.Anything).
		Return(&model.User{ID: 1755000000000, Name: "A", UnreadDays: 0}, nil)
	h := NewUserHandler(svc)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodPut, "/api/users/1755000000000", `{"unreadDays":0,"frozen":false}`)
	c.SetParamNames("id")
	c.SetParamValues("1755000000000")

	require.NoError(t, h.UpdateUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateUserInvalidUnreadDaysMapsTo400(t *testing.T) {
	svc := new(MockUserService)
	svc.On("UpdateUser", mock.Anything, model.UserID(1), mock.Anything).
		Return(nil, errs.ErrInvalidUnreadDays)
	h := NewUserHandler(svc)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodPut, "/api/users/1", `{"unreadDays":9}`)
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.UpdateUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUser(t *testing.T) {
	svc := new(MockUserService)
	svc.On("DeleteUser", mock.Anything, model.UserID(1)).Return(nil)
	h := NewUserHandler(svc)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodDelete, "/api/users/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestDeleteUserNotFoundMapsTo404(t *testing.T) {
	svc := new(MockUserService)
	svc.On("DeleteUser", mock.Anything, model.UserID(7)).Return(errs.ErrUserNotFound)
	h := NewUserHandler(svc)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodDelete, "/api/users/7", "")
	c.SetParamNames("id")
	c.SetParamValues("7")

	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetConfigHandler(t *testing.T) {
	svc := new(MockUserService)
	svc.On("GetConfig", mock.Anything).Return(model.DefaultConfig(), nil)
	h := NewUserHandler(svc)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodGet, "/api/config", "")

	require.NoError(t, h.GetConfig(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var cfg model.Config
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, 7, cfg.MaxUnreadDays)
	assert.Equal(t, "Asia/Shanghai", cfg.Timezone)
}
