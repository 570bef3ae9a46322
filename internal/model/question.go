package model

import (
	"time"

	"gorm.io/gorm"
)

// DynamicVariationID marks the single dynamic variant of a question group.
// Static variants use variation ids >= 1, unique within the group.
const DynamicVariationID = 0

// Question is a template identified by (GroupID, VariationID). Variation 0 is
// dynamic: variables and methods are evaluated at delivery time. Variations
// >= 1 are static with a fixed option set.
type Question struct {
	ID          uint `gorm:"primarykey" json:"id"`
	GroupID     uint `json:"group_id" gorm:"not null;uniqueIndex:idx_questions_group_variation"`
	VariationID int  `json:"variation_id" gorm:"not null;default:0;uniqueIndex:idx_questions_group_variation"`

	TopicID uint   `json:"topic_id" gorm:"not null;index"`
	Topic   Topic  `json:"topic,omitempty" gorm:"foreignKey:TopicID"`
	Title   string `json:"title" gorm:"not null"`
	Prompt  string `json:"prompt" gorm:"type:text;not null"`

	Variables []QuestionVariable `json:"variables,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Methods   []QuestionMethod   `json:"methods,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
	Options   []QuestionOption   `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsDynamic reports whether this question materializes through the evaluator.
func (q *Question) IsDynamic() bool {
	return q.VariationID == DynamicVariationID
}

// QuestionVariable is one authored variable of a dynamic question, in
// declaration order. A variable with Randomize set samples uniformly from
// [Min, Max] at Step granularity; otherwise it keeps Default.
type QuestionVariable struct {
	ID         uint `gorm:"primarykey" json:"id"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`

	Name          string   `json:"name" gorm:"not null"`
	Unit          string   `json:"unit"`
	Default       *float64 `json:"default,omitempty"`
	Min           *float64 `json:"min,omitempty"`
	Max           *float64 `json:"max,omitempty"`
	Step          *float64 `json:"step,omitempty"`
	DecimalPlaces *int     `json:"decimal_places,omitempty"`
	Randomize     bool     `json:"randomize" gorm:"not null;default:false"`
	IsFinalAnswer bool     `json:"is_final_answer" gorm:"not null;default:false"`
	Position      int      `json:"position" gorm:"not null"`
}

// QuestionMethod is one derivation step "lhs = rhs", applied in declaration
// order after all variables are resolved.
type QuestionMethod struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Expr       string `json:"expr" gorm:"type:text;not null"`
	Position   int    `json:"position" gorm:"not null"`
}

// QuestionOption is a pre-authored answer option of a static variation.
type QuestionOption struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"not null;default:false"`
	Position   int    `json:"position" gorm:"not null"`
}
