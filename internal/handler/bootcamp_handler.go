package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"devcamper/internal/model"
	"devcamper/internal/query"
	"devcamper/internal/service"
)

// BootcampHandler handles bootcamp endpoints.
type BootcampHandler struct {
	svc service.BootcampService
}

// NewBootcampHandler creates a new bootcamp handler.
func NewBootcampHandler(svc service.BootcampService) *BootcampHandler {
	return &BootcampHandler{svc: svc}
}

// ListBootcamps godoc
// @Summary List bootcamps
// @Description Filter with field=value or field[gt|gte|lt|lte|in]=value, project with select=a,b and order with sort=a,-b.
// @Tags bootcamps
// @Produce json
// @Param select query string false "Comma separated fields to return"
// @Param sort query string false "Comma separated sort fields, prefix with - for descending"
// @Success 200 {object} ListResponse{data=[]model.Bootcamp}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /bootcamps [get]
func (h *BootcampHandler) ListBootcamps(c echo.Context) error {
	spec := query.Parse(c.QueryParams())
	bootcamps, err := h.svc.List(c.Request().Context(), spec)
	if err != nil {
		return err
	}
	data, err := query.Project(bootcamps, spec.Projection)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Success: true, Count: len(bootcamps), Data: data})
}

// GetBootcamp godoc
// @Summary Get bootcamp by id
// @Tags bootcamps
// @Produce json
// @Param id path string true "Bootcamp ID"
// @Success 200 {object} DataResponse{data=model.Bootcamp}
// @Failure 404 {object} errors.ErrorResponse
// @Router /bootcamps/{id} [get]
func (h *BootcampHandler) GetBootcamp(c echo.Context) error {
	bootcamp, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, bootcamp)
}

// CreateBootcamp godoc
// @Summary Create bootcamp
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bootcamp body model.Bootcamp true "Bootcamp payload"
// @Success 201 {object} DataResponse{data=model.Bootcamp}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /bootcamps [post]
func (h *BootcampHandler) CreateBootcamp(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var bootcamp model.Bootcamp
	if err := c.Bind(&bootcamp); err != nil {
		return err
	}
	created, err := h.svc.Create(c.Request().Context(), user, &bootcamp)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, created)
}

// UpdateBootcamp godoc
// @Summary Update bootcamp
// @Description Only the supplied fields change.
// @Tags bootcamps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp ID"
// @Param bootcamp body model.Bootcamp true "Fields to change"
// @Success 200 {object} DataResponse{data=model.Bootcamp}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bootcamps/{id} [put]
func (h *BootcampHandler) UpdateBootcamp(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	patch, err := readPatch(c)
	if err != nil {
		return err
	}
	updated, err := h.svc.Update(c.Request().Context(), user, c.Param("id"), patch)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, updated)
}

// DeleteBootcamp godoc
// @Summary Delete bootcamp
// @Tags bootcamps
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bootcamp ID"
// @Success 200 {object} DataResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /bootcamps/{id} [delete]
func (h *BootcampHandler) DeleteBootcamp(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return emptyData(c)
}
