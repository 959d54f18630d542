package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlib/backend/errs"
	"github.com/promptlib/backend/models"
)

func testProfile() *models.Profile {
	return &models.Profile{
		ID:       "admin-1",
		Username: "admin",
		Role:     models.RoleAdmin,
		Status:   models.StatusActive,
	}
}

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)

	token, err := m.Issue(testProfile())
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.Subject)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewTokenManager("test-secret", -time.Minute)

	token, err := m.Issue(testProfile())
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.True(t, errs.IsExpiredTokenError(err))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenManager("test-secret", time.Hour)
	verifier := NewTokenManager("other-secret", time.Hour)

	token, err := issuer.Issue(testProfile())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.True(t, errs.IsInvalidTokenError(err))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	_, err := m.Verify("not-a-token")
	assert.True(t, errs.IsInvalidTokenError(err))
}
