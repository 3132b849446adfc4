package repository

import (
	"context"
	"errors"

	"devcamper/internal/query"
)

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a unique field already holds the value.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvalidID is returned for identifiers that cannot name any record.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidFilter is returned when a filter value cannot be cast to its field type.
	ErrInvalidFilter = errors.New("invalid filter value")
)

// Store is the persistence gateway for one entity type. T is the struct type;
// methods take and return *T, which must implement model.Record.
type Store[T any] interface {
	// Find returns every record matching spec, ordered and projected as requested.
	Find(ctx context.Context, spec query.Spec) ([]T, error)
	// FindOne returns the first record matching all conditions.
	FindOne(ctx context.Context, conds ...query.Condition) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, record *T) error
	// Save replaces the stored record that has the same id.
	Save(ctx context.Context, record *T) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}
