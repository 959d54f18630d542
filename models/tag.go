package models

import "time"

// Tag represents a named category attachable to many prompts
type Tag struct {
	ID        uint      `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Slug      string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Color     string    `json:"color" db:"color" gorm:"type:text;not null;default:'blue'"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TagWithStats is a Tag annotated with how many prompts reference it
type TagWithStats struct {
	Tag
	PromptCount int `json:"prompt_count" gorm:"column:prompt_count"`
}
