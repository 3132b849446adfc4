package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"devcamper/internal/auth"
	apperrors "devcamper/internal/errors"
	"devcamper/internal/model"
)

// DataResponse wraps a single record.
type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ListResponse wraps a list of records.
type ListResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
	Data    any  `json:"data"`
}

// CountResponse reports how many records an operation touched.
type CountResponse struct {
	Success bool  `json:"success"`
	Count   int64 `json:"count"`
}

// TokenResponse carries a freshly signed token.
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

// MeResponse is the current identity with the token it was authenticated by.
type MeResponse struct {
	Success bool        `json:"success"`
	Data    *model.User `json:"data"`
	Token   string      `json:"token,omitempty"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, DataResponse{Success: true, Data: data})
}

func emptyData(c echo.Context) error {
	return ok(c, http.StatusOK, struct{}{})
}

// actor returns the authenticated user of a protected route.
func actor(c echo.Context) (*model.User, error) {
	user, found := auth.IdentityFrom(c)
	if !found {
		return nil, apperrors.ErrUnauthenticated
	}
	return user, nil
}

// readPatch returns the raw JSON request body of an update.
func readPatch(c echo.Context) ([]byte, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, apperrors.Validation("invalid request body")
	}
	return body, nil
}
