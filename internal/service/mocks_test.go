package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"devcamper/internal/events"
	"devcamper/internal/mailer"
	"devcamper/internal/query"
	"devcamper/internal/repository"
	"devcamper/internal/validation"
)

// MockStore is a mock implementation of repository.Store.
type MockStore[T any] struct {
	mock.Mock
}

func (m *MockStore[T]) Find(ctx context.Context, spec query.Spec) ([]T, error) {
	args := m.Called(ctx, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockStore[T]) FindOne(ctx context.Context, conds ...query.Condition) (*T, error) {
	args := m.Called(ctx, conds)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockStore[T]) FindByID(ctx context.Context, id string) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *MockStore[T]) Create(ctx context.Context, record *T) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockStore[T]) Save(ctx context.Context, record *T) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockStore[T]) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockStore[T]) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockRevocations is a mock implementation of auth.RevocationStore.
type MockRevocations struct {
	mock.Mock
}

func (m *MockRevocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) {
	m.Called(ctx, tokenID, ttl)
}

func (m *MockRevocations) IsRevoked(ctx context.Context, tokenID string) bool {
	return m.Called(ctx, tokenID).Bool(0)
}

// outbox records sent emails.
type outbox struct {
	sent []mailer.Email
	err  error
}

func (o *outbox) Send(_ context.Context, email mailer.Email) error {
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, email)
	return nil
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func nopNotifier() *events.Notifier {
	return events.NewNotifier(nopLogger(), nil)
}

func newValidator() StructValidator {
	return validation.New()
}

func newSQLiteStores(t *testing.T) *repository.Stores {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	stores, err := repository.NewGormStores(gormDB)
	require.NoError(t, err)
	return stores
}
