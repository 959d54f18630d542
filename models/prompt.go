package models

import (
	"time"
)

// Prompt represents a stored AI prompt with its metadata and counters
type Prompt struct {
	ID            uint       `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	Title         string     `json:"title" db:"title" gorm:"type:text;not null"`
	Description   *string    `json:"description,omitempty" db:"description" gorm:"type:text"`
	Content       string     `json:"content" db:"content" gorm:"type:text;not null"`
	CoverImageURL *string    `json:"cover_image_url,omitempty" db:"cover_image_url" gorm:"type:text"`
	IsPublic      bool       `json:"is_public" db:"is_public" gorm:"not null"`
	IsFeatured    bool       `json:"is_featured" db:"is_featured" gorm:"not null;default:false"`
	AuthorID      *string    `json:"author_id,omitempty" db:"author_id" gorm:"type:text;index"`
	ViewCount     int        `json:"view_count" db:"view_count" gorm:"not null;default:0"`
	CopyCount     int        `json:"copy_count" db:"copy_count" gorm:"not null;default:0"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`

	Author *Profile `json:"author,omitempty" gorm:"foreignKey:AuthorID;references:ID"`
	Tags   []Tag    `json:"tags" gorm:"many2many:prompt_tags;joinForeignKey:PromptID;joinReferences:TagID"`
}
