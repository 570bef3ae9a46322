package model

import (
	"time"

	"gorm.io/gorm"
)

// Topic levels, set at content-authoring time.
const (
	LevelFoundational = "Foundational"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// DefaultPrior is the initial mastery assumed for a learner who has never
// attempted a question on a topic.
const DefaultPrior = 0.25

type Topic struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Slug      string         `json:"slug" gorm:"not null;uniqueIndex"`
	Name      string         `json:"name" gorm:"not null"`
	Level     string         `json:"level" gorm:"not null;default:'Foundational'"` // "Foundational", "Intermediate", "Advanced"
	Prior     float64        `json:"prior" gorm:"not null;default:0.25"`           // immutable after creation
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
