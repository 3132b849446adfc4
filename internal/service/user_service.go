package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "devcamper/internal/errors"
	"devcamper/internal/events"
	"devcamper/internal/model"
	"devcamper/internal/query"
	"devcamper/internal/repository"
)

// UserInput is the payload an admin sends to create a user.
type UserInput struct {
	UserName string     `json:"userName" validate:"required,max=50"`
	Email    *string    `json:"email" validate:"omitempty,contact_email"`
	Password string     `json:"password" validate:"required,max=72"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=user publisher admin"`
}

// UserService exposes admin user management.
type UserService interface {
	List(ctx context.Context, spec query.Spec) ([]model.User, error)
	Get(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, actor *model.User, input UserInput) (*model.User, error)
	Update(ctx context.Context, actor *model.User, id string, patch json.RawMessage) (*model.User, error)
	Delete(ctx context.Context, actor *model.User, id string) error
}

type userService struct {
	repo      repository.Store[model.User]
	validator StructValidator
	notifier  *events.Notifier
}

// NewUserService builds a UserService.
func NewUserService(repo repository.Store[model.User], validator StructValidator, notifier *events.Notifier) UserService {
	return &userService{repo: repo, validator: validator, notifier: notifier}
}

func (s *userService) List(ctx context.Context, spec query.Spec) ([]model.User, error) {
	users, err := s.repo.Find(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *userService) Get(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("User", id, err)
	}
	return user, nil
}

func (s *userService) Create(ctx context.Context, actor *model.User, input UserInput) (*model.User, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	user, err := newUser(input.UserName, input.Email, input.Password, input.Role)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Struct(user); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.notifier.Notify(ctx, events.New(events.UserRegistered, user.ID, actor.ID, nil))
	return user, nil
}

// Update merges patch into the user. A "password" member is hashed before it is stored.
func (s *userService) Update(ctx context.Context, actor *model.User, id string, patch json.RawMessage) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("User", id, err)
	}

	kept := *user
	if err := merge(user, patch); err != nil {
		return nil, err
	}
	user.ID, user.CreatedAt = kept.ID, kept.CreatedAt

	var secret struct {
		Password *string `json:"password"`
	}
	if err := merge(&secret, patch); err != nil {
		return nil, err
	}
	if secret.Password != nil {
		if *secret.Password == "" {
			return nil, apperrors.Validation("password is a required field")
		}
		if user.Password, err = hashPassword(*secret.Password); err != nil {
			return nil, err
		}
	}

	user.Prepare(time.Now())
	if err := s.validator.Struct(user); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, actor *model.User, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError("User", id, err)
	}
	s.notifier.Notify(ctx, events.New(events.UserDeleted, id, actor.ID, nil))
	return nil
}

// newUser builds an unsaved user with a hashed password.
func newUser(userName string, email *string, password string, role model.Role) (*model.User, error) {
	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		UserName: userName,
		Email:    email,
		Password: hashed,
		Role:     role,
	}
	user.Prepare(time.Now())
	return user, nil
}
