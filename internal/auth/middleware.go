package auth

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	apperrors "devcamper/internal/errors"
	"devcamper/internal/model"
	"devcamper/internal/repository"
)

const (
	// CookieName is the cookie that carries the token when no Authorization header is sent.
	CookieName = "token"

	identityKey  = "identity"
	bearerPrefix = "Bearer "
)

var (
	// ErrRevokedToken is returned for tokens invalidated by logout.
	ErrRevokedToken = errors.New("token revoked")

	errUnknownUser    = errors.New("token subject does not exist")
	errMissingToken   = errors.New("missing token")
	errIdentityLookup = errors.New("identity lookup failed")
)

// UserFinder loads the user a token refers to.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Protect authenticates the request from the Authorization header or the token
// cookie, and attaches the referenced user as the request identity.
func Protect(tokens *JWTService, revocations RevocationStore, users UserFinder) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		// a present Authorization header is authoritative; the cookie is only read without one
		TokenLookupFuncs: []middleware.ValuesExtractor{extractToken},
		ContextKey:       identityKey,
		ParseTokenFunc: func(c echo.Context, raw string) (interface{}, error) {
			ctx := c.Request().Context()

			claims, err := tokens.ValidateToken(raw)
			if err != nil {
				return nil, err
			}
			if revocations.IsRevoked(ctx, claims.ID) {
				return nil, ErrRevokedToken
			}

			user, err := users.FindByID(ctx, claims.Subject)
			switch {
			case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrInvalidID):
				return nil, errUnknownUser
			case err != nil:
				return nil, fmt.Errorf("%w: %w", errIdentityLookup, err)
			}
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if errors.Is(err, errIdentityLookup) {
				return err
			}
			return apperrors.ErrUnauthenticated
		},
	})
}

// Authorize admits identities whose role is one of roles. It must run after Protect.
func Authorize(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := IdentityFrom(c)
			if !ok {
				return apperrors.ErrUnauthenticated
			}
			if !slices.Contains(roles, user.Role) {
				return apperrors.Forbidden("User role (%s) is not authorized to access %s %s",
					user.Role, c.Request().Method, c.Request().URL.Path)
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the authenticated user attached by Protect.
func IdentityFrom(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(identityKey).(*model.User)
	return user, ok && user != nil
}

// TokenFrom extracts the raw token the same way Protect does, without validating it.
func TokenFrom(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		if len(h) > len(bearerPrefix) && strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
			return h[len(bearerPrefix):]
		}
		return ""
	}
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "none" {
		return cookie.Value
	}
	return ""
}

func extractToken(c echo.Context) ([]string, error) {
	token := TokenFrom(c)
	if token == "" {
		return nil, errMissingToken
	}
	return []string{token}, nil
}
