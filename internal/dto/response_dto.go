package dto

import "time"

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type TopicResponse struct {
	ID        uint      `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Level     string    `json:"level"`
	Prior     float64   `json:"prior"`
	CreatedAt time.Time `json:"created_at"`
}

type CourseTopicResponse struct {
	TopicSlug string `json:"topic_slug"`
	TopicName string `json:"topic_name"`
	Position  int    `json:"position"`
}

type CourseResponse struct {
	ID        uint                  `json:"id"`
	Slug      string                `json:"slug"`
	Name      string                `json:"name"`
	Topics    []CourseTopicResponse `json:"topics,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
}

type QuestionResponse struct {
	ID          uint      `json:"id"`
	GroupID     uint      `json:"group_id"`
	VariationID int       `json:"variation_id"`
	TopicID     uint      `json:"topic_id"`
	Title       string    `json:"title"`
	Prompt      string    `json:"prompt"`
	CreatedAt   time.Time `json:"created_at"`
}

// InstanceOptionResponse is one delivered answer option. Correctness is
// withheld until the attempt is submitted.
type InstanceOptionResponse struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// ResolvedVariableResponse is one resolved variable of a dynamic instance.
type ResolvedVariableResponse struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// QuestionInstanceResponse is a materialized question ready for delivery.
type QuestionInstanceResponse struct {
	Token       string                     `json:"token"`
	QuestionID  uint                       `json:"question_id"`
	GroupID     uint                       `json:"group_id"`
	VariationID int                        `json:"variation_id"`
	TopicSlug   string                     `json:"topic_slug"`
	TopicName   string                     `json:"topic_name"`
	Title       string                     `json:"title"`
	Prompt      string                     `json:"prompt"`
	Variables   []ResolvedVariableResponse `json:"variables,omitempty"`
	Options     []InstanceOptionResponse   `json:"options"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// MasterySnapshotResponse is the state of one (user, topic) mastery record
// after an update or read.
type MasterySnapshotResponse struct {
	TopicSlug        string     `json:"topic_slug"`
	TopicName        string     `json:"topic_name"`
	Level            float64    `json:"level"`
	ErrorMeter       int        `json:"error_meter"`
	Flagged          bool       `json:"flagged"`
	LastFlaggedAt    *time.Time `json:"last_flagged_at,omitempty"`
	WeeklyLevel      float64    `json:"weekly_level"`
	FortnightlyLevel float64    `json:"fortnightly_level"`
	LastActiveAt     time.Time  `json:"last_active_at"`
}

// AttemptResultResponse reports the graded attempt together with the updated
// mastery snapshot.
type AttemptResultResponse struct {
	AttemptID   uint                    `json:"attempt_id"`
	IsCorrect   bool                    `json:"is_correct"`
	CorrectKeys []string                `json:"correct_keys"`
	SubmittedAt time.Time               `json:"submitted_at"`
	Mastery     MasterySnapshotResponse `json:"mastery"`
}

// AnswerOptionResponse is one materialized option of an evaluator preview,
// including correctness (the preview is an authoring surface).
type AnswerOptionResponse struct {
	Text      string  `json:"text"`
	Value     float64 `json:"value"`
	IsCorrect bool    `json:"is_correct"`
}

// EvaluationResultResponse is the authoring preview of one evaluation pass.
type EvaluationResultResponse struct {
	Variables []ResolvedVariableResponse `json:"variables"`
	Answers   []AnswerOptionResponse     `json:"answers"`
}
