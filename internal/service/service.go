package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "devcamper/internal/errors"
	"devcamper/internal/repository"
)

const (
	bcryptCost = 10
	// bcrypt only accepts this many bytes
	maxPasswordBytes = 72
)

// StructValidator checks a value against its field constraints.
type StructValidator interface {
	Struct(s any) error
}

// lookupError turns a missing or malformed id into the resource specific 404.
func lookupError(resource, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrInvalidID) {
		return apperrors.NotFound("%s not found with id of %s", resource, id)
	}
	return fmt.Errorf("find %s %s: %w", strings.ToLower(resource), id, err)
}

// merge overlays the fields present in patch onto record.
func merge(record any, patch json.RawMessage) error {
	if len(bytes.TrimSpace(patch)) == 0 {
		return nil
	}
	if err := json.Unmarshal(patch, record); err != nil {
		return apperrors.Validation("invalid request body: %s", err.Error())
	}
	return nil
}

func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperrors.Validation("password must be at most %d bytes", maxPasswordBytes)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func passwordMatches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
