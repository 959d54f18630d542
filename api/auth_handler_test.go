package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlib/backend/models"
)

func TestLoginSuccess(t *testing.T) {
	d, router := newTestRouter(t)
	seedAccount(t, d, "admin-1", "admin", "hunter22", models.RoleAdmin, models.StatusActive)

	w := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "admin",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "admin", resp.User.Username)
	assert.False(t, resp.MustChangePassword)

	// The issued token must open the admin surface.
	w = doJSON(t, router, http.MethodGet, "/admin/users/stats", resp.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginNeverLeaksPasswordHash(t *testing.T) {
	d, router := newTestRouter(t)
	seedAccount(t, d, "admin-1", "admin", "hunter22", models.RoleAdmin, models.StatusActive)

	w := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "admin",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password_hash")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestLoginBadCredentials(t *testing.T) {
	d, router := newTestRouter(t)
	seedAccount(t, d, "u1", "alice", "correct-horse", models.RoleUser, models.StatusActive)

	w := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Unknown usernames get the same answer as wrong passwords.
	w = doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "nobody",
		"password": "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginBannedAccount(t *testing.T) {
	d, router := newTestRouter(t)
	seedAccount(t, d, "u1", "mallory", "hunter22", models.RoleUser, models.StatusBanned)

	w := doJSON(t, router, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "mallory",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminRoutesRejectBadTokens(t *testing.T) {
	_, router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodGet, "/admin/users", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOAuthCallbackProviderError(t *testing.T) {
	_, router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/auth/callback?error=access_denied", "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?error=access_denied", w.Header().Get("Location"))
}

func TestOAuthCallbackUnconfigured(t *testing.T) {
	_, router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/auth/callback?code=abc", "", nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?error=oauth_not_configured", w.Header().Get("Location"))
}
