package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/promptlib/backend/models"
)

func newTestDatabase(t *testing.T) Database {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "open test database")

	database := New(db)
	require.NoError(t, database.Migrate(), "migrate test schema")
	return database
}

func seedTag(t *testing.T, d Database, name, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Slug: slug, Color: "blue"}
	require.NoError(t, d.TagRepo().Add(tag))
	return tag
}

func seedPrompt(t *testing.T, d Database, title string, isPublic bool, tagIDs ...uint) *models.Prompt {
	t.Helper()
	prompt := &models.Prompt{
		Title:    title,
		Content:  "You are a helpful assistant. " + title,
		IsPublic: isPublic,
	}
	require.NoError(t, d.PromptRepo().CreateWithTags(prompt, tagIDs))
	return prompt
}

func seedProfile(t *testing.T, d Database, id, username, role, status string) *models.Profile {
	t.Helper()
	email := username + "@example.com"
	profile := &models.Profile{
		ID:       id,
		Username: username,
		Email:    &email,
		Role:     role,
		Status:   status,
	}
	require.NoError(t, d.ProfileRepo().Add(profile))
	return profile
}
