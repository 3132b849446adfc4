package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"devcamper/internal/model"
	"devcamper/internal/query"
	"devcamper/internal/service"
)

// CourseHandler handles course endpoints.
type CourseHandler struct {
	svc service.CourseService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(svc service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// ListCourses godoc
// @Summary List courses
// @Description Filter with field=value or field[gt|gte|lt|lte|in]=value, project with select=a,b and order with sort=a,-b.
// @Tags courses
// @Produce json
// @Param select query string false "Comma separated fields to return"
// @Param sort query string false "Comma separated sort fields, prefix with - for descending"
// @Success 200 {object} ListResponse{data=[]model.Course}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c echo.Context) error {
	spec := query.Parse(c.QueryParams())
	courses, err := h.svc.List(c.Request().Context(), spec)
	if err != nil {
		return err
	}
	data, err := query.Project(courses, spec.Projection)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ListResponse{Success: true, Count: len(courses), Data: data})
}

// GetCourse godoc
// @Summary Get course by id
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} DataResponse{data=model.Course}
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c echo.Context) error {
	course, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, course)
}

// CreateCourse godoc
// @Summary Create course
// @Description The acting user becomes the owner. Publishers may own a single course.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course body model.Course true "Course payload"
// @Success 201 {object} DataResponse{data=model.Course}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var course model.Course
	if err := c.Bind(&course); err != nil {
		return err
	}
	created, err := h.svc.Create(c.Request().Context(), user, &course)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, created)
}

// UpdateCourse godoc
// @Summary Update course
// @Description Only the supplied fields change. Allowed for the owner or an admin.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param course body model.Course true "Fields to change"
// @Success 200 {object} DataResponse{data=model.Course}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c echo.Context) error {
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

// DeleteCourse godoc
// @Summary Delete course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} DataResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return emptyData(c)
}
