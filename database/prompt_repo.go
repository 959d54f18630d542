package database

import (
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/promptlib/backend/models"
)

// Sortable prompt columns. Anything else falls back to created_at.
var promptSortColumns = map[string]bool{
	"created_at": true,
	"title":      true,
	"view_count": true,
}

// ListPromptsParams controls filtering, sorting and pagination of the
// prompt listing. Pointer fields are optional filters.
type ListPromptsParams struct {
	Page      int
	Limit     int
	TagID     *uint
	Search    string
	SortBy    string
	SortOrder string
	IsPublic  *bool
}

// PromptPage is one page of the prompt listing.
type PromptPage struct {
	Prompts     []*models.Prompt `json:"prompts"`
	Total       int64            `json:"total"`
	TotalPages  int              `json:"totalPages"`
	CurrentPage int              `json:"currentPage"`
}

type PromptRepo struct {
	db *gorm.DB
}

func NewPromptRepo(db *gorm.DB) *PromptRepo {
	return &PromptRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *PromptRepo) GetDB() *gorm.DB {
	return r.db
}

// List returns one page of prompts with tags and author preloaded. When a
// tag filter matches no prompts the main query is skipped entirely.
func (r *PromptRepo) List(params ListPromptsParams) (*PromptPage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	var filteredPromptIDs []uint
	if params.TagID != nil {
		err := r.db.Model(&models.PromptTag{}).
			Where("tag_id = ?", *params.TagID).
			Pluck("prompt_id", &filteredPromptIDs).Error
		if err != nil {
			return nil, err
		}
		if len(filteredPromptIDs) == 0 {
			return &PromptPage{Prompts: []*models.Prompt{}, Total: 0, TotalPages: 0, CurrentPage: page}, nil
		}
	}

	query := r.db.Model(&models.Prompt{})

	if params.IsPublic != nil {
		query = query.Where("is_public = ?", *params.IsPublic)
	}
	if len(filteredPromptIDs) > 0 {
		query = query.Where("id IN ?", filteredPromptIDs)
	}
	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	sortBy := params.SortBy
	if !promptSortColumns[sortBy] {
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		sortOrder = "ASC"
	}

	prompts := []*models.Prompt{}
	err := query.
		Preload("Tags").
		Preload("Author").
		Order(sortBy + " " + sortOrder).
		Offset(offset).
		Limit(limit).
		Find(&prompts).Error
	if err != nil {
		return nil, err
	}

	return &PromptPage{
		Prompts:     prompts,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}

// FindByID returns a prompt with tags and author. publicOnly restricts the
// lookup to published prompts for the browsing surface.
func (r *PromptRepo) FindByID(id uint, publicOnly bool) (*models.Prompt, error) {
	query := r.db.Preload("Tags").Preload("Author")
	if publicOnly {
		query = query.Where("is_public = ?", true)
	}
	var prompt models.Prompt
	if err := query.First(&prompt, id).Error; err != nil {
		return nil, err
	}
	return &prompt, nil
}

// CreateWithTags inserts a prompt and its tag relations in one
// transaction, so a failed relation insert leaves no prompt row behind.
func (r *PromptRepo) CreateWithTags(prompt *models.Prompt, tagIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Author").Create(prompt).Error; err != nil {
			return err
		}
		if len(tagIDs) == 0 {
			return nil
		}
		relations := make([]models.PromptTag, 0, len(tagIDs))
		for _, tagID := range tagIDs {
			relations = append(relations, models.PromptTag{PromptID: prompt.ID, TagID: tagID})
		}
		return tx.Create(&relations).Error
	})
}

// Update applies the supplied fields to a prompt by id.
func (r *PromptRepo) Update(id uint, fields map[string]any) error {
	result := r.db.Model(&models.Prompt{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes a prompt row by id. Join rows and copy events are left to
// database-level cascade rules.
func (r *PromptRepo) Delete(id uint) error {
	return r.db.Delete(&models.Prompt{}, id).Error
}

// SetPublic flips the published flag.
func (r *PromptRepo) SetPublic(id uint, isPublic bool) error {
	return r.Update(id, map[string]any{"is_public": isPublic})
}

// IncrementViewCount bumps view_count with a database-side expression.
func (r *PromptRepo) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Prompt{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

// IncrementCopyCount bumps copy_count atomically.
func (r *PromptRepo) IncrementCopyCount(id uint) error {
	return r.db.Model(&models.Prompt{}).Where("id = ?", id).
		UpdateColumn("copy_count", gorm.Expr("copy_count + ?", 1)).Error
}

// ListPublic returns all public prompts ordered newest first, capped at
// limit. Used by the sitemap.
func (r *PromptRepo) ListPublic(limit int) ([]*models.Prompt, error) {
	prompts := []*models.Prompt{}
	err := r.db.Where("is_public = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&prompts).Error
	return prompts, err
}
