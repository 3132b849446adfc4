package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"devcamper/internal/auth"
	apperrors "devcamper/internal/errors"
	"devcamper/internal/model"
	"devcamper/internal/repository"
)

func newTestAuthService(users repository.Store[model.User], revocations auth.RevocationStore, sender *outbox) *authService {
	svc := NewAuthService(nopLogger(), users, auth.NewJWTService("test-secret", time.Hour), revocations, sender, newValidator(), nopNotifier())
	return svc.(*authService)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockStore[model.User])
		expectedError error
	}{
		{
			name:  "successful registration",
			input: RegisterInput{UserName: "a", Password: "p"},
			setupMock: func(m *MockStore[model.User]) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "publisher registration",
			input: RegisterInput{UserName: "pub", Password: "secret", Role: model.RolePublisher},
			setupMock: func(m *MockStore[model.User]) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
					return u.Role == model.RolePublisher
				})).Return(nil)
			},
		},
		{
			name:          "admin cannot be self-assigned",
			input:         RegisterInput{UserName: "root", Password: "secret", Role: model.RoleAdmin},
			setupMock:     func(m *MockStore[model.User]) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:          "missing password",
			input:         RegisterInput{UserName: "a"},
			setupMock:     func(m *MockStore[model.User]) {},
			expectedError: apperrors.ErrValidation,
		},
		{
			name:  "user name taken",
			input: RegisterInput{UserName: "a", Password: "p"},
			setupMock: func(m *MockStore[model.User]) {
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(repository.ErrDuplicateKey)
			},
			expectedError: repository.ErrDuplicateKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockStore[model.User])
			tt.setupMock(mockRepo)

			svc := newTestAuthService(mockRepo, new(MockRevocations), &outbox{})
			token, user, err := svc.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.input.UserName, user.UserName)
				assert.NotEqual(t, tt.input.Password, user.Password)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(tt.input.Password)))

				claims, err := svc.tokens.ValidateToken(token)
				require.NoError(t, err)
				assert.Equal(t, user.ID, claims.Subject)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcryptCost)
	stored := &model.User{ID: "6f1c2b5e-3d6a-4c59-9a43-2c6f1f0d9a10", UserName: "alice", Password: string(hashedPassword), Role: model.RoleUser}

	tests := []struct {
		name          string
		userName      string
		password      string
		setupMock     func(*MockStore[model.User])
		expectedError error
	}{
		{
			name:     "successful login",
			userName: "alice",
			password: "password123",
			setupMock: func(m *MockStore[model.User]) {
				m.On("FindOne", mock.Anything, mock.Anything).Return(stored, nil)
			},
		},
		{
			name:          "missing password",
			userName:      "alice",
			setupMock:     func(m *MockStore[model.User]) {},
			expectedError: ErrMissingCredentials,
		},
		{
			name:     "unknown user",
			userName: "bob",
			password: "password123",
			setupMock: func(m *MockStore[model.User]) {
				m.On("FindOne", mock.Anything, mock.Anything).Return(nil, repository.ErrNotFound)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			userName: "alice",
			password: "password124",
			setupMock: func(m *MockStore[model.User]) {
				m.On("FindOne", mock.Anything, mock.Anything).Return(stored, nil)
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "storage failure",
			userName: "alice",
			password: "password123",
			setupMock: func(m *MockStore[model.User]) {
				m.On("FindOne", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
			},
			expectedError: apperrors.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockStore[model.User])
			tt.setupMock(mockRepo)

			svc := newTestAuthService(mockRepo, new(MockRevocations), &outbox{})
			token, user, err := svc.Login(context.Background(), tt.userName, tt.password)

			switch {
			case tt.expectedError == apperrors.ErrInternal:
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrInternal, apperrors.MapErrorToHTTP(err))
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, user)
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, stored.ID, user.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	revocations := new(MockRevocations)
	svc := newTestAuthService(new(MockStore[model.User]), revocations, &outbox{})

	token, err := svc.tokens.Generate(&model.User{ID: "6f1c2b5e-3d6a-4c59-9a43-2c6f1f0d9a10", Role: model.RoleUser})
	require.NoError(t, err)
	claims, err := svc.tokens.ValidateToken(token)
	require.NoError(t, err)

	revocations.On("Revoke", mock.Anything, claims.ID, mock.MatchedBy(func(ttl time.Duration) bool {
		return ttl > 0 && ttl <= time.Hour
	})).Once()

	svc.Logout(context.Background(), token)
	svc.Logout(context.Background(), "")
	svc.Logout(context.Background(), "garbage")

	revocations.AssertExpectations(t)
}

func TestAuthService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	stores := newSQLiteStores(t)
	box := &outbox{}
	svc := newTestAuthService(stores.Users, new(MockRevocations), box)

	email := "Alice@Example.com"
	_, alice, err := svc.Register(ctx, RegisterInput{UserName: "alice", Email: &email, Password: "old-password"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ForgotPassword(ctx, "nobody@example.com", "http://localhost/api/v1/auth/resetpassword"), ErrNoUserWithEmail)

	require.NoError(t, svc.ForgotPassword(ctx, " alice@example.com", "http://localhost/api/v1/auth/resetpassword/"))
	require.Len(t, box.sent, 1)
	assert.Equal(t, []string{"alice@example.com"}, box.sent[0].To)

	const prefix = "http://localhost/api/v1/auth/resetpassword/"
	idx := strings.Index(box.sent[0].Body, prefix)
	require.GreaterOrEqual(t, idx, 0)
	resetToken := box.sent[0].Body[idx+len(prefix):]
	assert.Len(t, resetToken, 64)

	stored, err := stores.Users.FindByID(ctx, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ResetPasswordToken)
	assert.NotEqual(t, resetToken, *stored.ResetPasswordToken)

	_, err = svc.ResetPassword(ctx, "not-the-token", "new-password")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	token, err := svc.ResetPassword(ctx, resetToken, "new-password")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "alice", "new-password")
	require.NoError(t, err)

	// a reset token works once
	_, err = svc.ResetPassword(ctx, resetToken, "another")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_ResetTokenExpires(t *testing.T) {
	ctx := context.Background()
	stores := newSQLiteStores(t)
	box := &outbox{}
	svc := newTestAuthService(stores.Users, new(MockRevocations), box)

	email := "bob@example.com"
	_, _, err := svc.Register(ctx, RegisterInput{UserName: "bob", Email: &email, Password: "pw"})
	require.NoError(t, err)
	require.NoError(t, svc.ForgotPassword(ctx, email, "http://x"))
	resetToken := box.sent[0].Body[strings.LastIndex(box.sent[0].Body, "/")+1:]

	svc.now = func() time.Time { return time.Now().Add(resetTokenTTL + time.Minute) }
	_, err = svc.ResetPassword(ctx, resetToken, "new-password")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestAuthService_ForgotPasswordMailFailure(t *testing.T) {
	ctx := context.Background()
	stores := newSQLiteStores(t)
	svc := newTestAuthService(stores.Users, new(MockRevocations), &outbox{err: errors.New("smtp down")})

	email := "carol@example.com"
	_, carol, err := svc.Register(ctx, RegisterInput{UserName: "carol", Email: &email, Password: "pw"})
	require.NoError(t, err)

	err = svc.ForgotPassword(ctx, email, "http://x")
	assert.ErrorIs(t, err, apperrors.ErrInternal)
	assert.EqualError(t, err, "Email could not be sent")

	stored, err := stores.Users.FindByID(ctx, carol.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
}

func TestAuthService_UpdateDetailsAndPassword(t *testing.T) {
	ctx := context.Background()
	stores := newSQLiteStores(t)
	svc := newTestAuthService(stores.Users, new(MockRevocations), &outbox{})

	_, dave, err := svc.Register(ctx, RegisterInput{UserName: "dave", Password: "pw"})
	require.NoError(t, err)

	name := "david"
	email := "David@Example.com"
	updated, err := svc.UpdateDetails(ctx, dave, UpdateDetailsInput{UserName: &name, Email: &email})
	require.NoError(t, err)
	assert.Equal(t, "david", updated.UserName)
	assert.Equal(t, "david@example.com", *updated.Email)

	bad := "not-an-email"
	_, err = svc.UpdateDetails(ctx, dave, UpdateDetailsInput{Email: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.UpdatePassword(ctx, dave, UpdatePasswordInput{CurrentPassword: "wrong", NewPassword: "next"})
	assert.ErrorIs(t, err, ErrIncorrectPassword)

	token, err := svc.UpdatePassword(ctx, dave, UpdatePasswordInput{CurrentPassword: "pw", NewPassword: "next"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "david", "next")
	assert.NoError(t, err)
}
