package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "devcamper/internal/errors"
	"devcamper/internal/model"
	"devcamper/internal/query"
)

func TestUserService(t *testing.T) {
	ctx := context.Background()
	stores := newSQLiteStores(t)
	svc := NewUserService(stores.Users, newValidator(), nopNotifier())
	admin := &model.User{ID: "9d7c5a3e-1b2f-4e6d-8c0a-7f5e3d1b9a24", Role: model.RoleAdmin}

	_, err := svc.Create(ctx, admin, UserInput{UserName: "eve", Password: "pw", Role: "root"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	created, err := svc.Create(ctx, admin, UserInput{UserName: "eve", Password: "pw", Role: model.RolePublisher})
	require.NoError(t, err)
	assert.Equal(t, model.RolePublisher, created.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("pw")))

	raw, err := json.Marshal(created)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")

	updated, err := svc.Update(ctx, admin, created.ID, json.RawMessage(`{"role":"admin","password":"changed"}`))
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.Password), []byte("changed")))

	_, err = svc.Update(ctx, admin, created.ID, json.RawMessage(`{"password":""}`))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	list, err := svc.List(ctx, query.Spec{Filters: []query.Condition{query.Eq("role", "admin")}})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "eve", list[0].UserName)

	require.NoError(t, svc.Delete(ctx, admin, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
