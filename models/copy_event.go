package models

import "time"

// CopyEvent is an append-only record of one copy-to-clipboard action
// against a prompt. UserID is nil for anonymous copies.
type CopyEvent struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	PromptID  uint      `json:"prompt_id" db:"prompt_id" gorm:"not null;index:idx_copy_event_prompt_id"`
	UserID    *string   `json:"user_id,omitempty" db:"user_id" gorm:"type:text;index:idx_copy_event_user_id"`
	IPAddress *string   `json:"ip_address,omitempty" db:"ip_address" gorm:"type:text"`
	UserAgent *string   `json:"user_agent,omitempty" db:"user_agent" gorm:"type:text"`
	Referrer  *string   `json:"referrer,omitempty" db:"referrer" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"index:idx_copy_event_created_at"`

	Prompt Prompt `json:"prompt,omitempty" gorm:"foreignKey:PromptID;references:ID"`
}

// CopyStats summarizes copy events over a trailing window
type CopyStats struct {
	TotalCopies int64          `json:"totalCopies"`
	UniqueUsers int            `json:"uniqueUsers"`
	DailyStats  map[string]int `json:"dailyStats"`
	PromptID    *uint          `json:"promptId,omitempty"`
	Days        int            `json:"days"`
}

// PopularPrompt pairs a prompt with its copy volume over a window
type PopularPrompt struct {
	PromptID  uint   `json:"prompt_id" gorm:"column:prompt_id"`
	Title     string `json:"title" gorm:"column:title"`
	CopyCount int64  `json:"copy_count" gorm:"column:copy_count"`
}
