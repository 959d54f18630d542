package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promptlib/backend/models"
)

func TestLoadSettingsDefaults(t *testing.T) {
	d := newTestDatabase(t)

	settings, err := d.SettingsRepo().Load()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSiteSettings(), settings)
}

func TestSaveSettingsUpsert(t *testing.T) {
	d := newTestDatabase(t)

	settings := models.DefaultSiteSettings()
	settings.SiteName = "Prompt Garden"
	require.NoError(t, d.SettingsRepo().Save(settings))

	loaded, err := d.SettingsRepo().Load()
	require.NoError(t, err)
	assert.Equal(t, "Prompt Garden", loaded.SiteName)

	// Saving again updates the single row in place.
	settings.RequireApproval = true
	require.NoError(t, d.SettingsRepo().Save(settings))

	loaded, err = d.SettingsRepo().Load()
	require.NoError(t, err)
	assert.True(t, loaded.RequireApproval)

	var count int64
	require.NoError(t, d.SettingsRepo().GetDB().Model(&models.Setting{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
