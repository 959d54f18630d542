package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/promptlib/backend/database"
	"github.com/promptlib/backend/models"
	"github.com/promptlib/backend/services"
)

const testSessionSecret = "promptlib-dev-secret"

func newTestRouter(t *testing.T) (database.Database, *chi.Mux) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open test database")

	d := database.New(db)
	require.NoError(t, d.Migrate(), "migrate test schema")

	return d, newRouter(d)
}

func testTokens() *services.TokenManager {
	return services.NewTokenManager(testSessionSecret, time.Hour)
}

func seedAccount(t *testing.T, d database.Database, id, username, password, role, status string) *models.Profile {
	t.Helper()
	hash, err := services.HashPassword(password)
	require.NoError(t, err)
	email := username + "@example.com"
	profile := &models.Profile{
		ID:           id,
		Username:     username,
		Email:        &email,
		Role:         role,
		Status:       status,
		PasswordHash: hash,
	}
	require.NoError(t, d.ProfileRepo().Add(profile))
	return profile
}

func adminToken(t *testing.T, d database.Database) string {
	t.Helper()
	admin := seedAccount(t, d, "admin-1", "admin", "hunter22", models.RoleAdmin, models.StatusActive)
	token, err := testTokens().Issue(admin)
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, router http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}
