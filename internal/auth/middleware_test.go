package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "devcamper/internal/errors"
	"devcamper/internal/model"
	"devcamper/internal/repository"
)

type fakeUsers map[string]*model.User

func (f fakeUsers) FindByID(_ context.Context, id string) (*model.User, error) {
	if id == "broken" {
		return nil, errors.New("connection reset")
	}
	u, ok := f[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type memoryRevocations map[string]bool

func (m memoryRevocations) Revoke(_ context.Context, id string, _ time.Duration) { m[id] = true }
func (m memoryRevocations) IsRevoked(_ context.Context, id string) bool        { return m[id] }

func newProtectedServer(t *testing.T, users fakeUsers, revoked memoryRevocations, roles ...model.Role) (*echo.Echo, *JWTService) {
	t.Helper()
	logger := zerolog.Nop()
	tokens := NewJWTService("test-secret", time.Hour)

	e := echo.New()
	e.HTTPErrorHandler = apperrors.NewHandler(&logger)
	mws := []echo.MiddlewareFunc{Protect(tokens, revoked, users)}
	if len(roles) > 0 {
		mws = append(mws, Authorize(roles...))
	}
	e.GET("/private", func(c echo.Context) error {
		user, ok := IdentityFrom(c)
		require.True(t, ok)
		return c.String(http.StatusOK, user.UserName)
	}, mws...)
	return e, tokens
}

func TestProtect(t *testing.T) {
	alice := &model.User{ID: "6f1c2b5e-3d6a-4c59-9a43-2c6f1f0d9a10", UserName: "alice", Role: model.RoleUser}
	ghost := &model.User{ID: "0b7e3f4e-8f0d-4a55-8a9a-2a3c1b7d6e01", Role: model.RoleUser}
	broken := &model.User{ID: "broken", Role: model.RoleUser}
	users := fakeUsers{alice.ID: alice}
	revoked := memoryRevocations{}
	e, tokens := newProtectedServer(t, users, revoked)

	sign := func(u *model.User) string {
		token, err := tokens.Generate(u)
		require.NoError(t, err)
		return token
	}
	revokedToken := sign(alice)
	claims, err := tokens.ValidateToken(revokedToken)
	require.NoError(t, err)
	revoked.Revoke(context.Background(), claims.ID, time.Hour)

	tests := []struct {
		name     string
		header   string
		cookie   string
		expected int
		body     string
	}{
		{name: "no token", expected: http.StatusUnauthorized, body: "Not authorized to access this route"},
		{name: "bearer header", header: "Bearer " + sign(alice), expected: http.StatusOK, body: "alice"},
		{name: "cookie", cookie: sign(alice), expected: http.StatusOK, body: "alice"},
		{name: "invalid header ignores valid cookie", header: "Bearer not-a-valid-token", cookie: sign(alice), expected: http.StatusUnauthorized},
		{name: "non bearer header ignores valid cookie", header: "Basic YWxpY2U6c2VjcmV0", cookie: sign(alice), expected: http.StatusUnauthorized},
		{name: "logged out cookie", cookie: "none", expected: http.StatusUnauthorized},
		{name: "header without bearer scheme", header: sign(alice), expected: http.StatusUnauthorized},
		{name: "tampered token", header: "Bearer " + sign(alice) + "x", expected: http.StatusUnauthorized},
		{name: "revoked token", header: "Bearer " + revokedToken, expected: http.StatusUnauthorized},
		{name: "user no longer exists", header: "Bearer " + sign(ghost), expected: http.StatusUnauthorized},
		{name: "user lookup failure", header: "Bearer " + sign(broken), expected: http.StatusInternalServerError, body: "Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
			if tt.body != "" {
				assert.Contains(t, rec.Body.String(), tt.body)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	publisher := &model.User{ID: "6f1c2b5e-3d6a-4c59-9a43-2c6f1f0d9a10", UserName: "pub", Role: model.RolePublisher}
	reader := &model.User{ID: "0b7e3f4e-8f0d-4a55-8a9a-2a3c1b7d6e01", UserName: "reader", Role: model.RoleUser}
	e, tokens := newProtectedServer(t, fakeUsers{publisher.ID: publisher, reader.ID: reader}, memoryRevocations{}, model.RolePublisher, model.RoleAdmin)

	tests := []struct {
		name     string
		user     *model.User
		expected int
		body     string
	}{
		{name: "allowed role", user: publisher, expected: http.StatusOK, body: "pub"},
		{name: "disallowed role", user: reader, expected: http.StatusForbidden, body: "User role (user) is not authorized to access GET /private"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := tokens.Generate(tt.user)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestAuthorizeWithoutIdentity(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := Authorize(model.RoleAdmin)(func(c echo.Context) error { return nil })(c)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestTokenFrom(t *testing.T) {
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "bearer abc")
	assert.Equal(t, "abc", TokenFrom(e.NewContext(req, httptest.NewRecorder())))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "def"})
	assert.Equal(t, "def", TokenFrom(e.NewContext(req, httptest.NewRecorder())))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "none"})
	assert.Empty(t, TokenFrom(e.NewContext(req, httptest.NewRecorder())))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Basic YWxpY2U6c2VjcmV0")
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "def"})
	assert.Empty(t, TokenFrom(e.NewContext(req, httptest.NewRecorder())))
}
