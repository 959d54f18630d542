package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/promptlib/backend/errs"
	"github.com/promptlib/backend/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *TagRepo) GetDB() *gorm.DB {
	return r.db
}

// FindAll returns all tags ordered by name.
func (r *TagRepo) FindAll() ([]*models.Tag, error) {
	tags := []*models.Tag{}
	err := r.db.Order("name").Find(&tags).Error
	return tags, err
}

// FindByID returns a tag by its id.
func (r *TagRepo) FindByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindBySlug returns a tag by its URL alias.
func (r *TagRepo) FindBySlug(slug string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Where("slug = ?", slug).First(&tag).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

// Add inserts a new tag after checking that neither its name nor its slug
// is already taken. The check is a separate query on purpose: it produces
// the precise conflict error the admin UI shows, while the unique indexes
// remain the backstop under concurrent writers.
func (r *TagRepo) Add(tag *models.Tag) error {
	if err := r.checkAvailable(tag.Name, tag.Slug, 0); err != nil {
		return err
	}
	return r.db.Create(tag).Error
}

// Update applies the supplied fields to a tag, re-running the uniqueness
// pre-checks while excluding the tag's own row.
func (r *TagRepo) Update(id uint, fields map[string]any) error {
	name, _ := fields["name"].(string)
	slug, _ := fields["slug"].(string)
	if err := r.checkAvailable(name, slug, id); err != nil {
		return err
	}

	result := r.db.Model(&models.Tag{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a tag. Callers must have verified the tag is unused; the
// handler performs that guard via PromptTagRepo.CountByTag.
func (r *TagRepo) Delete(id uint) error {
	return r.db.Delete(&models.Tag{}, id).Error
}

// ListWithStats returns every tag annotated with its prompt count, using
// one aggregate query.
func (r *TagRepo) ListWithStats() ([]*models.TagWithStats, error) {
	tags := []*models.TagWithStats{}
	err := r.db.Model(&models.Tag{}).
		Select("tags.*, COUNT(prompt_tags.tag_id) AS prompt_count").
		Joins("LEFT JOIN prompt_tags ON prompt_tags.tag_id = tags.id").
		Group("tags.id").
		Order("tags.name").
		Find(&tags).Error
	return tags, err
}

// Popular returns the most-used tags, busiest first.
func (r *TagRepo) Popular(limit int) ([]*models.TagWithStats, error) {
	if limit <= 0 {
		limit = 10
	}
	tags := []*models.TagWithStats{}
	err := r.db.Model(&models.Tag{}).
		Select("tags.*, COUNT(prompt_tags.tag_id) AS prompt_count").
		Joins("LEFT JOIN prompt_tags ON prompt_tags.tag_id = tags.id").
		Group("tags.id").
		Order("prompt_count DESC").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

func (r *TagRepo) checkAvailable(name, slug string, excludeID uint) error {
	if slug != "" {
		var existing models.Tag
		query := r.db.Select("id").Where("slug = ?", slug)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}
		err := query.First(&existing).Error
		if err == nil {
			return errs.NewSlugTakenError(slug)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if name != "" {
		var existing models.Tag
		query := r.db.Select("id").Where("name = ?", name)
		if excludeID != 0 {
			query = query.Where("id <> ?", excludeID)
		}
		err := query.First(&existing).Error
		if err == nil {
			return errs.NewTagNameTakenError(name)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}
