package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"devcamper/internal/query"
	"devcamper/internal/service"
)

// UserHandler handles the admin user endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUser godoc
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body service.UserInput true "User payload"
// @Success 201 {object} DataResponse{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	var input service.UserInput
	if err := c.Bind(&input); err != nil {
		return err
	}
	if err := c.Validate(&input); err != nil {
		return err
	}
	created, err := h.svc.Create(c.Request().Context(), admin, input)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, created)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} DataResponse{data=model.User}
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param select query string false "Comma separated fields to return"
// @Param sort query string false "Comma separated sort fields, prefix with - for descending"
// @Success 200 {object} ListResponse{data=[]model.User}
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	spec := query.Parse(c.QueryParams())
	users, err := h.svc.List(c.Request().Context(), spec)
	if err != nil {
		return err
	}
	data, err := query.Project(users, spec.Projection)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Success: true, Count: len(users), Data: data})
}

// UpdateUser godoc
// @Summary Update user
// @Description Only the supplied fields change. A supplied password is hashed.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body service.UserInput true "Fields to change"
// @Success 200 {object} DataResponse{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	patch, err := readPatch(c)
	if err != nil {
		return err
	}
	updated, err := h.svc.Update(c.Request().Context(), admin, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, updated)
}

// DeleteUser godoc
// @Summary Delete user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} DataResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	admin, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), admin, c.Param("id")); err != nil {
		return err
	}
	return emptyData(c)
}
