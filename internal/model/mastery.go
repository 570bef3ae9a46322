package model

import (
	"time"
)

// Mastery is the per-user-per-topic proficiency estimate. Exactly one record
// exists per (user, topic) pair; it is created lazily on first contact and
// mutated on every attempt, never deleted while the user exists.
type Mastery struct {
	ID      uint  `gorm:"primarykey" json:"id"`
	UserID  uint  `json:"user_id" gorm:"not null;uniqueIndex:idx_masteries_user_topic"`
	TopicID uint  `json:"topic_id" gorm:"not null;uniqueIndex:idx_masteries_user_topic;index"`
	Topic   Topic `json:"topic,omitempty" gorm:"foreignKey:TopicID"`

	Level            float64    `json:"level" gorm:"not null"`
	ErrorMeter       int        `json:"error_meter" gorm:"not null;default:0"`
	Flagged          bool       `json:"flagged" gorm:"not null;default:false"`
	LastFlaggedAt    *time.Time `json:"last_flagged_at,omitempty"`
	WeeklyLevel      float64    `json:"weekly_level" gorm:"not null;default:0"`
	FortnightlyLevel float64    `json:"fortnightly_level" gorm:"not null;default:0"`
	LastActiveAt     time.Time  `json:"last_active_at"`

	// Version guards the read-modify-write cycle. Updates must match the
	// stored version or fail with a conflict.
	Version uint `json:"-" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
