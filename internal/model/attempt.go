package model

import (
	"time"

	"gorm.io/datatypes"
)

// Attempt is the immutable record of one submitted answer. Each attempt
// consumes exactly one QuestionInstance; the unique index enforces that an
// instance is answered at most once. Append-only, never updated.
type Attempt struct {
	ID                 uint             `gorm:"primarykey" json:"id"`
	QuestionInstanceID uint             `json:"question_instance_id" gorm:"not null;uniqueIndex"`
	QuestionInstance   QuestionInstance `json:"question_instance,omitempty" gorm:"foreignKey:QuestionInstanceID"`
	UserID             uint             `json:"user_id" gorm:"not null;index"`

	// SelectedKeys is the JSON array of option keys the learner picked.
	SelectedKeys datatypes.JSON `json:"selected_keys" gorm:"not null"`
	IsCorrect    bool           `json:"is_correct" gorm:"not null"`
	SubmittedAt  time.Time      `json:"submitted_at" gorm:"autoCreateTime"`
	CreatedAt    time.Time      `json:"created_at"`
}
