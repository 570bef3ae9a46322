package model

import (
	"time"

	"gorm.io/datatypes"
)

// QuestionInstance is one materialized, deliverable copy of a question for a
// specific user and course. At most one instance per (user, course) is
// answerable at a time: creating a new instance supersedes the previous one,
// and submitting an attempt consumes it.
type QuestionInstance struct {
	ID    uint   `gorm:"primarykey" json:"id"`
	Token string `json:"token" gorm:"type:uuid;not null;uniqueIndex"`

	UserID     uint     `json:"user_id" gorm:"not null;index:idx_instances_user_course"`
	CourseID   uint     `json:"course_id" gorm:"not null;index:idx_instances_user_course"`
	Course     Course   `json:"-" gorm:"foreignKey:CourseID"`
	QuestionID uint     `json:"question_id" gorm:"not null;index"`
	Question   Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	TopicID    uint     `json:"topic_id" gorm:"not null"`

	// Variables holds the resolved variable values of a dynamic question
	// ([]InstanceVariable); empty for static variations. Options holds the
	// delivered option set in its shuffled display order ([]InstanceOption).
	Variables datatypes.JSON `json:"variables,omitempty"`
	Options   datatypes.JSON `json:"options" gorm:"not null"`

	SupersededAt *time.Time `json:"superseded_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// InstanceVariable is the JSON shape of one resolved variable stored on an
// instance.
type InstanceVariable struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// InstanceOption is the JSON shape of one delivered answer option. Keys are
// assigned positionally after shuffling; IsCorrect is never exposed to the
// learner-facing DTO.
type InstanceOption struct {
	Key       string `json:"key"`
	Text      string `json:"text"`
	IsCorrect bool   `json:"is_correct"`
}
