package database

import (
	"gorm.io/gorm"

	"github.com/promptlib/backend/models"
)

type PromptTagRepo struct {
	db *gorm.DB
}

func NewPromptTagRepo(db *gorm.DB) *PromptTagRepo {
	return &PromptTagRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *PromptTagRepo) GetDB() *gorm.DB {
	return r.db
}

// FindPromptIDs returns the ids of all prompts tagged with tagID.
func (r *PromptTagRepo) FindPromptIDs(tagID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.PromptTag{}).
		Where("tag_id = ?", tagID).
		Pluck("prompt_id", &ids).Error
	return ids, err
}

// CountByTag returns how many prompts reference tagID. Used as the
// delete guard for tags.
func (r *PromptTagRepo) CountByTag(tagID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.PromptTag{}).
		Where("tag_id = ?", tagID).
		Count(&count).Error
	return count, err
}

// ReplaceForPrompt swaps the full tag set of a prompt: all existing rows
// are deleted and the new set inserted within one transaction. An empty
// tagIDs clears the associations, and doing so twice is a no-op.
func (r *PromptTagRepo) ReplaceForPrompt(promptID uint, tagIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("prompt_id = ?", promptID).Delete(&models.PromptTag{}).Error; err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return nil
		}
		relations := make([]models.PromptTag, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			relations = append(relations, models.PromptTag{PromptID: promptID, TagID: tagID})
		}
		return tx.Create(&relations).Error
	})
}

// DeleteForPrompt removes every tag relation of a prompt.
func (r *PromptTagRepo) DeleteForPrompt(promptID uint) error {
	return r.db.Where("prompt_id = ?", promptID).Delete(&models.PromptTag{}).Error
}
