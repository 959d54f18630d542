package models

import "time"

// Profile roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Profile statuses
const (
	StatusActive = "active"
	StatusBanned = "banned"
)

// Profile represents an application user record, keyed by a UUID that is
// either issued by the OAuth provider flow or generated when an admin
// creates the account directly.
type Profile struct {
	ID                 string    `json:"id" db:"id" gorm:"type:text;primaryKey"`
	Username           string    `json:"username" db:"username" gorm:"type:text;not null"`
	Email              *string   `json:"email,omitempty" db:"email" gorm:"type:text"`
	AvatarURL          *string   `json:"avatar_url,omitempty" db:"avatar_url" gorm:"type:text"`
	Role               string    `json:"role" db:"role" gorm:"type:text;not null;default:'user'"`
	Status             string    `json:"status" db:"status" gorm:"type:text;not null;default:'active'"`
	PasswordHash       string    `json:"-" db:"password_hash" gorm:"type:text"`
	MustChangePassword bool      `json:"must_change_password" db:"must_change_password" gorm:"not null;default:false"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// UserStats aggregates profile counts for the admin dashboard
type UserStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
	Admins int64 `json:"admins"`
	Banned int64 `json:"banned"`
}
