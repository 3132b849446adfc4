package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"devcamper/internal/auth"
	apperrors "devcamper/internal/errors"
	"devcamper/internal/events"
	"devcamper/internal/mailer"
	"devcamper/internal/model"
	"devcamper/internal/query"
	"devcamper/internal/repository"
)

const resetTokenTTL = 10 * time.Minute

var (
	// ErrInvalidCredentials is returned when the user name or password is incorrect.
	ErrInvalidCredentials = apperrors.Unauthenticated("Invalid credentials")
	// ErrIncorrectPassword is returned when the current password does not match.
	ErrIncorrectPassword = apperrors.Unauthenticated("Password is incorrect")
	// ErrMissingCredentials is returned when login omits the user name or password.
	ErrMissingCredentials = apperrors.Validation("Please add a userName and a password")
	// ErrInvalidResetToken is returned for unknown or expired reset tokens.
	ErrInvalidResetToken = apperrors.Validation("Invalid token")
	// ErrNoUserWithEmail is returned by ForgotPassword when nobody holds the address.
	ErrNoUserWithEmail = apperrors.NotFound("There is no user with that email")
)

// RegisterInput is the self sign-up payload. Admin cannot be self-assigned.
type RegisterInput struct {
	UserName string     `json:"userName" validate:"required,max=50"`
	Email    *string    `json:"email" validate:"omitempty,contact_email"`
	Password string     `json:"password" validate:"required,max=72"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=user publisher"`
}

// UpdateDetailsInput changes profile fields. Absent members are left untouched.
type UpdateDetailsInput struct {
	UserName *string `json:"userName" validate:"omitempty,max=50"`
	Email    *string `json:"email" validate:"omitempty,contact_email"`
}

// UpdatePasswordInput changes the password of the acting user.
type UpdatePasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,max=72"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (token string, user *model.User, err error)
	Login(ctx context.Context, userName, password string) (token string, user *model.User, err error)
	Logout(ctx context.Context, token string)
	UpdateDetails(ctx context.Context, actor *model.User, input UpdateDetailsInput) (*model.User, error)
	UpdatePassword(ctx context.Context, actor *model.User, input UpdatePasswordInput) (string, error)
	ForgotPassword(ctx context.Context, email, resetBaseURL string) error
	ResetPassword(ctx context.Context, resetToken, password string) (string, error)
}

type authService struct {
	users       repository.Store[model.User]
	tokens      *auth.JWTService
	revocations auth.RevocationStore
	mailer      mailer.Sender
	validator   StructValidator
	notifier    *events.Notifier
	logger      *zerolog.Logger
	now         func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	logger *zerolog.Logger,
	users repository.Store[model.User],
	tokens *auth.JWTService,
	revocations auth.RevocationStore,
	sender mailer.Sender,
	validator StructValidator,
	notifier *events.Notifier,
) AuthService {
	return &authService{
		users:       users,
		tokens:      tokens,
		revocations: revocations,
		mailer:      sender,
		validator:   validator,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Register creates a user with a hashed password and signs a token for it.
func (s *authService) Register(ctx context.Context, input RegisterInput) (string, *model.User, error) {
	if input.Role == model.RoleAdmin {
		return "", nil, apperrors.Validation("Role %q cannot be self-assigned", input.Role)
	}
	if err := s.validator.Struct(input); err != nil {
		return "", nil, err
	}

	user, err := newUser(input.UserName, input.Email, input.Password, input.Role)
	if err != nil {
		return "", nil, err
	}
	if err := s.validator.Struct(user); err != nil {
		return "", nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, err
	}

	s.notifier.Notify(ctx, events.New(events.UserRegistered, user.ID, user.ID, nil))
	return token, user, nil
}

// Login authenticates a user and returns a signed token.
func (s *authService) Login(ctx context.Context, userName, password string) (string, *model.User, error) {
	userName = strings.TrimSpace(userName)
	if userName == "" || password == "" {
		return "", nil, ErrMissingCredentials
	}

	user, err := s.users.FindOne(ctx, query.Eq("userName", userName))
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if !passwordMatches(user.Password, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes token until it expires. Invalid or empty tokens are ignored.
func (s *authService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return
	}
	s.revocations.Revoke(ctx, claims.ID, claims.TTL(s.now()))
}

func (s *authService) UpdateDetails(ctx context.Context, actor *model.User, input UpdateDetailsInput) (*model.User, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, lookupError("User", actor.ID, err)
	}

	if input.UserName != nil {
		user.UserName = *input.UserName
	}
	if input.Email != nil {
		user.Email = input.Email
	}
	user.Prepare(s.now())
	if err := s.validator.Struct(user); err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("update user details: %w", err)
	}
	return user, nil
}

func (s *authService) UpdatePassword(ctx context.Context, actor *model.User, input UpdatePasswordInput) (string, error) {
	if err := s.validator.Struct(input); err != nil {
		return "", err
	}
	user, err := s.users.FindByID(ctx, actor.ID)
	if err != nil {
		return "", lookupError("User", actor.ID, err)
	}
	if !passwordMatches(user.Password, input.CurrentPassword) {
		return "", ErrIncorrectPassword
	}

	if user.Password, err = hashPassword(input.NewPassword); err != nil {
		return "", err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return "", fmt.Errorf("update password: %w", err)
	}
	return s.tokens.Generate(user)
}

// ForgotPassword stores the hash of a fresh reset token on the user and mails
// the token, embedded in resetBaseURL/<token>.
func (s *authService) ForgotPassword(ctx context.Context, email, resetBaseURL string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return ErrNoUserWithEmail
	}
	user, err := s.users.FindOne(ctx, query.Eq("email", email))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNoUserWithEmail
	}
	if err != nil {
		return fmt.Errorf("find user by email: %w", err)
	}

	token, err := newResetToken()
	if err != nil {
		return err
	}
	hashed := hashResetToken(token)
	expires := s.now().Add(resetTokenTTL).UTC()
	user.ResetPasswordToken = &hashed
	user.ResetPasswordExpire = &expires
	if err := s.users.Save(ctx, user); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	msg := mailer.Email{
		To:      []string{email},
		Subject: "Password reset token",
		Body: "You are receiving this email because you (or someone else) has requested the reset of a password. " +
			"Please make a PUT request to:\n\n" + strings.TrimSuffix(resetBaseURL, "/") + "/" + token,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("send reset email")
		user.ClearPasswordReset()
		if err := s.users.Save(ctx, user); err != nil {
			s.logger.Error().Err(err).Str("user_id", user.ID).Msg("clear reset token")
		}
		return apperrors.NewHTTPError(apperrors.ErrInternal.StatusCode, "Email could not be sent", apperrors.ErrInternal.Code)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, resetToken, password string) (string, error) {
	if password == "" {
		return "", apperrors.Validation("password is a required field")
	}
	user, err := s.users.FindOne(ctx, query.Eq("resetPasswordToken", hashResetToken(resetToken)))
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidResetToken
	}
	if err != nil {
		return "", fmt.Errorf("find user by reset token: %w", err)
	}
	if user.ResetPasswordExpire == nil || !user.ResetPasswordExpire.After(s.now()) {
		return "", ErrInvalidResetToken
	}

	if user.Password, err = hashPassword(password); err != nil {
		return "", err
	}
	user.ClearPasswordReset()
	if err := s.users.Save(ctx, user); err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	return s.tokens.Generate(user)
}

func newResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
