package database

import (
	"time"

	"gorm.io/gorm"

	"github.com/promptlib/backend/models"
)

type CopyEventRepo struct {
	db *gorm.DB
}

func NewCopyEventRepo(db *gorm.DB) *CopyEventRepo {
	return &CopyEventRepo{db}
}

// GetDB returns the underlying database connection for debugging purposes
func (r *CopyEventRepo) GetDB() *gorm.DB {
	return r.db
}

// Add appends one copy event. Events are never updated or deleted.
func (r *CopyEventRepo) Add(event *models.CopyEvent) error {
	return r.db.Create(event).Error
}

// Stats summarizes copy events over the trailing window: total rows,
// distinct signed-in users, and a per-day histogram keyed YYYY-MM-DD.
func (r *CopyEventRepo) Stats(promptID *uint, days int) (*models.CopyStats, error) {
	if days <= 0 {
		days = 30
	}
	events, err := r.window(promptID, days)
	if err != nil {
		return nil, err
	}

	uniqueUsers := map[string]struct{}{}
	dailyStats := map[string]int{}
	for _, event := range events {
		if event.UserID != nil && *event.UserID != "" {
			uniqueUsers[*event.UserID] = struct{}{}
		}
		day := event.CreatedAt.UTC().Format("2006-01-02")
		dailyStats[day]++
	}

	return &models.CopyStats{
		TotalCopies: int64(len(events)),
		UniqueUsers: len(uniqueUsers),
		DailyStats:  dailyStats,
		PromptID:    promptID,
		Days:        days,
	}, nil
}

// PopularPrompts returns the prompts with the most copies in the window,
// via a single aggregate joined against the prompts table.
func (r *CopyEventRepo) PopularPrompts(limit, days int) ([]*models.PopularPrompt, error) {
	if limit <= 0 {
		limit = 10
	}
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	popular := []*models.PopularPrompt{}
	err := r.db.Model(&models.CopyEvent{}).
		Select("copy_events.prompt_id, prompts.title, COUNT(copy_events.id) AS copy_count").
		Joins("JOIN prompts ON prompts.id = copy_events.prompt_id").
		Where("copy_events.created_at >= ?", since).
		Group("copy_events.prompt_id, prompts.title").
		Order("copy_count DESC").
		Limit(limit).
		Find(&popular).Error
	return popular, err
}

// ListWithPrompts returns windowed events newest first with their prompt
// preloaded, for the admin log view and its CSV export.
func (r *CopyEventRepo) ListWithPrompts(promptID *uint, days int) ([]*models.CopyEvent, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	query := r.db.Preload("Prompt").Where("created_at >= ?", since)
	if promptID != nil {
		query = query.Where("prompt_id = ?", *promptID)
	}

	events := []*models.CopyEvent{}
	err := query.Order("created_at DESC").Find(&events).Error
	return events, err
}

func (r *CopyEventRepo) window(promptID *uint, days int) ([]*models.CopyEvent, error) {
	since := time.Now().AddDate(0, 0, -days)
	query := r.db.Where("created_at >= ?", since)
	if promptID != nil {
		query = query.Where("prompt_id = ?", *promptID)
	}
	events := []*models.CopyEvent{}
	err := query.Order("created_at DESC").Find(&events).Error
	return events, err
}
