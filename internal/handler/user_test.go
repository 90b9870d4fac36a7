package handler_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelhub/backend/internal/domain"
	"github.com/travelhub/backend/internal/handler"
	"github.com/travelhub/backend/internal/service"
)

func userFixture() domain.User {
	return domain.User{
		ID:           uuid.New(),
		Email:        "ada@example.com",
		UserName:     "ada",
		DisplayName:  "Ada",
		PasswordHash: "$2a$10$secret",
		CreatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestRegister(t *testing.T) {
	u := userFixture()
	users := &mockUsers{register: func(_ context.Context, email, userName, displayName, password string) (domain.User, error) {
		assert.Equal(t, "ada@example.com", email)
		assert.Equal(t, "ada", userName)
		assert.Equal(t, "Ada", displayName)
		assert.Equal(t, "correct horse", password)
		return u, nil
	}}
	h := newHTTPHandler(handler.Services{Users: users})

	rec := call(t, h, uuid.Nil, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "ada@example.com", "user_name": "ada", "display_name": "Ada", "password": "correct horse",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	got := decode[handler.UserResponse](t, rec)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "ada@example.com", got.Email)
}

func TestRegister_invalidEmail(t *testing.T) {
	h := newHTTPHandler(handler.Services{Users: &mockUsers{}})

	rec := call(t, h, uuid.Nil, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "not-an-email", "user_name": "ada", "password": "correct horse",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLogin(t *testing.T) {
	u := userFixture()
	exp := time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)
	users := &mockUsers{login: func(_ context.Context, email, password string) (service.Session, error) {
		return service.Session{Token: "jwt", ExpiresAt: exp, User: u}, nil
	}}
	h := newHTTPHandler(handler.Services{Users: users})

	rec := call(t, h, uuid.Nil, http.MethodPost, "/api/auth/login", map[string]string{"email": u.Email, "password": "pw"})

	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[handler.SessionResponse](t, rec)
	assert.Equal(t, "jwt", got.Token)
	assert.Equal(t, "Bearer", got.TokenType)
	assert.True(t, exp.Equal(got.ExpiresAt))
	assert.Equal(t, u.ID, got.User.ID)
}

func TestLogin_badCredentials(t *testing.T) {
	users := &mockUsers{login: func(context.Context, string, string) (service.Session, error) {
		return service.Session{}, domain.ErrUnauthorized
	}}
	h := newHTTPHandler(handler.Services{Users: users})

	rec := call(t, h, uuid.Nil, http.MethodPost, "/api/auth/login", map[string]string{"email": "x@y.z", "password": "pw"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetMe(t *testing.T) {
	u := userFixture()
	users := &mockUsers{get: func(_ context.Context, id uuid.UUID) (domain.User, error) {
		require.Equal(t, u.ID, id)
		return u, nil
	}}
	h := newHTTPHandler(handler.Services{Users: users})

	rec := call(t, h, u.ID, http.MethodGet, "/api/users/me", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada", decode[handler.UserResponse](t, rec).UserName)
}

func TestSearchUsers_hidesEmailAndPages(t *testing.T) {
	u := userFixture()
	users := &mockUsers{search: func(_ context.Context, prefix string, p domain.PaginationParams) ([]domain.User, int64, error) {
		assert.Equal(t, "ad", prefix)
		assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 100}, p)
		return []domain.User{u}, 101, nil
	}}
	h := newHTTPHandler(handler.Services{Users: users})

	rec := call(t, h, uuid.New(), http.MethodGet, "/api/users?q=ad&page=2&limit=500", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[handler.Page[handler.UserResponse]](t, rec)
	require.Len(t, page.Data, 1)
	assert.Empty(t, page.Data[0].Email)
	assert.Equal(t, handler.Pagination{Page: 2, Limit: 100, Total: 101}, page.Pagination)
}
