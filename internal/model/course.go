package model

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Slug      string         `json:"slug" gorm:"not null;uniqueIndex"`
	Name      string         `json:"name" gorm:"not null"`
	Topics    []CourseTopic  `json:"topics,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// CourseTopic links a topic into a course. Position is the declaration order
// and breaks ties when several topics share the minimum mastery.
type CourseTopic struct {
	ID       uint  `gorm:"primarykey" json:"id"`
	CourseID uint  `json:"course_id" gorm:"not null;uniqueIndex:idx_course_topics_course_topic"`
	TopicID  uint  `json:"topic_id" gorm:"not null;uniqueIndex:idx_course_topics_course_topic"`
	Topic    Topic `json:"topic" gorm:"foreignKey:TopicID"`
	Position int   `json:"position" gorm:"not null"`
}
