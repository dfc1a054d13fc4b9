package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	errs "readtrack/internal/errors"
	"readtrack/internal/model"
	"readtrack/internal/service"
)

// UserHandler bundles the roster CRUD handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUsersRequest is the POST /users payload.
type CreateUsersRequest struct {
	Names []string `json:"names" validate:"required,min=1,dive,required"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := model.ParseUserID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUsers godoc
// @Summary Create users from a list of names
// @Tags users
// @Accept json
// @Produce json
// @Param body body CreateUsersRequest true "User names"
// @Success 201 {array} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUsers(c echo.Context) error {
	var req CreateUsersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.CreateUsers(c.Request().Context(), req.Names)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateUser godoc
// @Summary Partially update a user
// @Tags users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body model.UserPatch true "Fields to update"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := model.ParseUserID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var patch model.UserPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.UpdateUser(c.Request().Context(), id, patch)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := model.ParseUserID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted"})
}

// GetConfig godoc
// @Summary Get tracker configuration
// @Tags config
// @Produce json
// @Success 200 {object} model.Config
// @Router /config [get]
func (h *UserHandler) GetConfig(c echo.Context) error {
	cfg, err := h.svc.GetConfig(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, cfg)
}

// jsonError maps a domain error onto the standardized error response.
func jsonError(c echo.Context, err error) error {
	he := errs.MapErrorToHTTP(err)
	return c.JSON(he.StatusCode, he.ToErrorResponse())
}
