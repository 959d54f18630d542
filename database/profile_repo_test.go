package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/promptlib/backend/models"
)

func TestListProfilesFilters(t *testing.T) {
	d := newTestDatabase(t)
	seedProfile(t, d, "u1", "alice", models.RoleAdmin, models.StatusActive)
	seedProfile(t, d, "u2", "bob", models.RoleUser, models.StatusActive)
	seedProfile(t, d, "u3", "mallory", models.RoleUser, models.StatusBanned)

	page, err := d.ProfileRepo().List(ListProfilesParams{Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "alice", page.Users[0].Username)

	page, err = d.ProfileRepo().List(ListProfilesParams{Status: models.StatusBanned})
	require.NoError(t, err)
	require.Len(t, page.Users, 1)
	assert.Equal(t, "mallory", page.Users[0].Username)

	page, err = d.ProfileRepo().List(ListProfilesParams{Search: "ALI"})
	require.NoError(t, err)
	assert.Len(t, page.Users, 1)
}

func TestBanUnbanRoundTrip(t *testing.T) {
	d := newTestDatabase(t)
	seedProfile(t, d, "u1", "alice", models.RoleUser, models.StatusActive)

	require.NoError(t, d.ProfileRepo().SetStatus("u1", models.StatusBanned))
	profile, err := d.ProfileRepo().FindByID("u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusBanned, profile.Status)

	require.NoError(t, d.ProfileRepo().SetStatus("u1", models.StatusActive))
	profile, err = d.ProfileRepo().FindByID("u1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, profile.Status)
}

func TestSetStatusMissingProfile(t *testing.T) {
	d := newTestDatabase(t)
	err := d.ProfileRepo().SetStatus("ghost", models.StatusBanned)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProfileStats(t *testing.T) {
	d := newTestDatabase(t)
	seedProfile(t, d, "u1", "alice", models.RoleAdmin, models.StatusActive)
	seedProfile(t, d, "u2", "bob", models.RoleUser, models.StatusActive)
	seedProfile(t, d, "u3", "mallory", models.RoleUser, models.StatusBanned)

	stats, err := d.ProfileRepo().Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 2, stats.Active)
	assert.EqualValues(t, 1, stats.Admins)
	assert.EqualValues(t, 1, stats.Banned)
}

func TestFindByUsername(t *testing.T) {
	d := newTestDatabase(t)
	seedProfile(t, d, "u1", "alice", models.RoleUser, models.StatusActive)

	profile, err := d.ProfileRepo().FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.ID)

	_, err = d.ProfileRepo().FindByUsername("nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
