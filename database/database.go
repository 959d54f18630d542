package database

import (
	"gorm.io/gorm"

	"github.com/promptlib/backend/models"
)

type Database struct {
	promptRepo    *PromptRepo
	promptTagRepo *PromptTagRepo
	tagRepo       *TagRepo
	profileRepo   *ProfileRepo
	copyEventRepo *CopyEventRepo
	settingsRepo  *SettingsRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		promptRepo:    NewPromptRepo(db),
		promptTagRepo: NewPromptTagRepo(db),
		tagRepo:       NewTagRepo(db),
		profileRepo:   NewProfileRepo(db),
		copyEventRepo: NewCopyEventRepo(db),
		settingsRepo:  NewSettingsRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) PromptRepo() *PromptRepo {
	return d.promptRepo
}

func (d Database) PromptTagRepo() *PromptTagRepo {
	return d.promptTagRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) CopyEventRepo() *CopyEventRepo {
	return d.copyEventRepo
}

func (d Database) SettingsRepo() *SettingsRepo {
	return d.settingsRepo
}

// Migrate applies the schema for all models.
func (d Database) Migrate() error {
	return models.Migrate(d.promptRepo.db)
}
