package models

// PromptTag is the join row between a prompt and a tag. Rows have no
// independent identity; the full set for a prompt is replaced on every
// tag-set update.
type PromptTag struct {
	PromptID uint `json:"prompt_id" db:"prompt_id" gorm:"primaryKey;autoIncrement:false;index:idx_prompt_tag_prompt_id"`
	TagID    uint `json:"tag_id" db:"tag_id" gorm:"primaryKey;autoIncrement:false;index:idx_prompt_tag_tag_id"`
}
