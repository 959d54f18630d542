package database

import (
	"encoding/json"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/promptlib/backend/models"
)

type SettingsRepo struct {
	db *gorm.DB
}

func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *SettingsRepo) GetDB() *gorm.DB {
	return r.db
}

// Load returns the site settings, overlaying the stored blob on the
// defaults. A missing row or an unreadable blob yields the defaults.
func (r *SettingsRepo) Load() (models.SiteSettings, error) {
	settings := models.DefaultSiteSettings()

	var row models.Setting
	err := r.db.Where("id = ?", models.SettingRowID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return settings, nil
	}
	if err != nil {
		return settings, err
	}

	if len(row.Settings) > 0 {
		if err := json.Unmarshal(row.Settings, &settings); err != nil {
			return models.DefaultSiteSettings(), nil
		}
	}
	return settings, nil
}

// Save upserts the single settings row with the full blob.
func (r *SettingsRepo) Save(settings models.SiteSettings) error {
	blob, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	row := models.Setting{
		ID:       models.SettingRowID,
		Settings: datatypes.JSON(blob),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"settings"}),
	}).Create(&row).Error
}
