package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"devcamper/internal/auth"
	"devcamper/internal/service"
)

const logoutCookieTTL = 10 * time.Second

// CookieSettings controls the token cookie.
type CookieSettings struct {
	TTL    time.Duration
	Secure bool
}

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	cookie      CookieSettings
	resetURL    string
}

// NewAuthHandler creates a new auth handler. resetURL is the public base of the
// links mailed by ForgotPassword; the reset token is appended to it.
func NewAuthHandler(authService service.AuthService, cookie CookieSettings, resetURL string) *AuthHandler {
	return &AuthHandler{authService: authService, cookie: cookie, resetURL: resetURL}
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// ForgotPasswordRequest names the account to reset.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the new password.
type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,max=72"`
}

// Register godoc
// @Summary Register a new user
// @Description Role may be user or publisher.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "Registration data"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return err
	}
	token, _, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return h.sendToken(c, token)
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	token, _, err := h.authService.Login(c.Request().Context(), req.UserName, req.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, token)
}

// Logout godoc
// @Summary Logout user
// @Description Revokes the presented token and clears the token cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} DataResponse
// @Router /auth/logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	h.authService.Logout(c.Request().Context(), auth.TokenFrom(c))
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "none",
		Path:     "/",
		Expires:  time.Now().Add(logoutCookieTTL),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	})
	return emptyData(c)
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MeResponse{Success: true, Data: user, Token: auth.TokenFrom(c)})
}

// UpdateDetails godoc
// @Summary Update current user details
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdateDetailsInput true "Fields to change"
// @Success 200 {object} DataResponse{data=model.User}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/updatedetails [put]
func (h *AuthHandler) UpdateDetails(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req service.UpdateDetailsInput
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	updated, err := h.authService.UpdateDetails(c.Request().Context(), user, req)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, updated)
}

// UpdatePassword godoc
// @Summary Update current user password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.UpdatePasswordInput true "Current and new password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/updatepassword [put]
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req service.UpdatePasswordInput
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	token, err := h.authService.UpdatePassword(c.Request().Context(), user, req)
	if err != nil {
		return err
	}
	return h.sendToken(c, token)
}

// ForgotPassword godoc
// @Summary Request a password reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} DataResponse{data=string}
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/forgotpassword [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email, h.resetURL); err != nil {
		return err
	}
	return ok(c, http.StatusOK, "Email sent")
}

// ResetPassword godoc
// @Summary Reset password with an emailed token
// @Tags auth
// @Accept json
// @Produce json
// @Param resettoken path string true "Reset token"
// @Param request body ResetPasswordRequest true "New password"
// @Success 200 {object} TokenResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /auth/resetpassword/{resettoken} [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	token, err := h.authService.ResetPassword(c.Request().Context(), c.Param("resettoken"), req.Password)
	if err != nil {
		return err
	}
	return h.sendToken(c, token)
}

// sendToken sets the token cookie and writes the token response.
func (h *AuthHandler) sendToken(c echo.Context, token string) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookie.TTL),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
	})
	return c.JSON(http.StatusOK, TokenResponse{Success: true, Token: token})
}
