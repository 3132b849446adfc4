package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"devcamper/internal/model"
	"devcamper/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	seedService service.SeedService
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seedService service.SeedService) *SeedHandler {
	return &SeedHandler{seedService: seedService}
}

// ImportBootcamps godoc
// @Summary Import bootcamps
// @Description Creates every bootcamp of the JSON array body. Nothing is stored when one of them is invalid.
// @Tags seed
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param bootcamps body []model.Bootcamp true "Bootcamps"
// @Success 201 {object} CountResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /seed/bootcamps [post]
func (h *SeedHandler) ImportBootcamps(c echo.Context) error {
	var bootcamps []model.Bootcamp
	if err := (&echo.DefaultBinder{}).BindBody(c, &bootcamps); err != nil {
		return err
	}
	count, err := h.seedService.ImportBootcamps(c.Request().Context(), bootcamps)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, CountResponse{Success: true, Count: int64(count)})
}

// DeleteBootcamps godoc
// @Summary Delete all bootcamps
// @Tags seed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} CountResponse
// @Router /seed/bootcamps [delete]
func (h *SeedHandler) DeleteBootcamps(c echo.Context) error {
	count, err := h.seedService.DeleteBootcamps(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, CountResponse{Success: true, Count: count})
}
