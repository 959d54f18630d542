package database

import (
	"math"
	"strings"

	"gorm.io/gorm"

	"github.com/promptlib/backend/models"
)

// ListProfilesParams filters and paginates the user listing.
type ListProfilesParams struct {
	Page   int
	Limit  int
	Role   string
	Status string
	Search string
}

// ProfilePage is one page of the user listing, newest accounts first.
type ProfilePage struct {
	Users       []*models.Profile `json:"users"`
	Total       int64             `json:"total"`
	TotalPages  int               `json:"totalPages"`
	CurrentPage int               `json:"currentPage"`
}

type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *ProfileRepo) GetDB() *gorm.DB {
	return r.db
}

// List returns one page of profiles ordered by creation time descending.
func (r *ProfileRepo) List(params ListProfilesParams) (*ProfilePage, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := r.db.Model(&models.Profile{})
	if params.Role != "" {
		query = query.Where("role = ?", params.Role)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		pattern := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	users := []*models.Profile{}
	err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	return &ProfilePage{
		Users:       users,
		Total:       total,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		CurrentPage: page,
	}, nil
}

// FindByID returns a profile by its UUID.
func (r *ProfileRepo) FindByID(id string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByUsername returns a profile by its username.
func (r *ProfileRepo) FindByUsername(username string) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("username = ?", username).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Add inserts a new profile.
func (r *ProfileRepo) Add(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

// Update applies the supplied fields to a profile by id.
func (r *ProfileRepo) Update(id string, fields map[string]any) error {
	result := r.db.Model(&models.Profile{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetStatus moves a profile between active and banned.
func (r *ProfileRepo) SetStatus(id string, status string) error {
	return r.Update(id, map[string]any{"status": status})
}

// Delete removes a profile row.
func (r *ProfileRepo) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&models.Profile{}).Error
}

// Stats aggregates profile counts for the admin dashboard.
func (r *ProfileRepo) Stats() (*models.UserStats, error) {
	var stats models.UserStats
	if err := r.db.Model(&models.Profile{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Profile{}).Where("status = ?", models.StatusActive).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Profile{}).Where("role = ?", models.RoleAdmin).Count(&stats.Admins).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Profile{}).Where("status = ?", models.StatusBanned).Count(&stats.Banned).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
