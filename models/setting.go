package models

import "gorm.io/datatypes"

// SettingRowID is the fixed primary key of the single settings row.
const SettingRowID = 1

// Setting holds the site-wide configuration blob. The table has exactly
// one row; reads fall back to defaults when it is absent.
type Setting struct {
	ID       uint           `json:"id" db:"id" gorm:"primaryKey"`
	Settings datatypes.JSON `json:"settings" db:"settings"`
}

// SiteSettings is the decoded shape of the settings blob
type SiteSettings struct {
	CopySuccessMessage     string `json:"copy_success_message" validate:"required,max=200"`
	SiteName               string `json:"site_name" validate:"required,max=100"`
	SiteDescription        string `json:"site_description" validate:"required,max=500"`
	AllowPublicSubmissions bool   `json:"allow_public_submissions"`
	RequireApproval        bool   `json:"require_approval"`
}

// DefaultSiteSettings returns the settings used before an admin has saved any.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		CopySuccessMessage:     "Copied! Paste it into your favorite model.",
		SiteName:               "PromptLib",
		SiteDescription:        "Discover high-quality AI prompts",
		AllowPublicSubmissions: false,
		RequireApproval:        false,
	}
}
