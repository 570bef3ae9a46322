package dto

// RecommendQuestionRequest asks for the next question for a learner in a
// course. ExcludedQuestionIDs avoids immediate repeats and temporarily
// retired content.
type RecommendQuestionRequest struct {
	UserID              uint   `json:"user_id" binding:"required"`
	ExcludedQuestionIDs []uint `json:"excluded_question_ids"`
}

// SubmitAttemptRequest submits the learner's selected option keys for the
// question instance identified by its delivery token.
type SubmitAttemptRequest struct {
	UserID        uint     `json:"user_id" binding:"required"`
	InstanceToken string   `json:"instance_token" binding:"required,uuid"`
	SelectedKeys  []string `json:"selected_keys" binding:"required,min=1"`
}

type CreateTopicRequest struct {
	Slug  string   `json:"slug" binding:"required"`
	Name  string   `json:"name" binding:"required"`
	Level string   `json:"level" binding:"required,oneof=Foundational Intermediate Advanced"`
	Prior *float64 `json:"prior" binding:"omitempty,gte=0,lte=1"` // defaults to 0.25
}

type CreateCourseRequest struct {
	Slug       string   `json:"slug" binding:"required"`
	Name       string   `json:"name" binding:"required"`
	TopicSlugs []string `json:"topic_slugs" binding:"required,min=1"` // declaration order
}

// VariableDefinitionRequest is one variable of a dynamic question.
type VariableDefinitionRequest struct {
	Name          string   `json:"name" binding:"required"`
	Unit          string   `json:"unit"`
	Default       *float64 `json:"default"`
	Min           *float64 `json:"min"`
	Max           *float64 `json:"max"`
	Step          *float64 `json:"step"`
	DecimalPlaces *int     `json:"decimal_places" binding:"omitempty,gte=0,lte=10"`
	Randomize     bool     `json:"randomize"`
	IsFinalAnswer bool     `json:"is_final_answer"`
}

// MethodDefinitionRequest is one derivation step "lhs = rhs".
type MethodDefinitionRequest struct {
	Expr string `json:"expr" binding:"required"`
}

// CreateDynamicQuestionRequest creates the variation-0 question of a new
// group (or of an existing group that has no dynamic variant yet).
type CreateDynamicQuestionRequest struct {
	TopicSlug string                      `json:"topic_slug" binding:"required"`
	GroupID   *uint                       `json:"group_id"` // omit to start a new group
	Title     string                      `json:"title" binding:"required"`
	Prompt    string                      `json:"prompt" binding:"required"`
	Variables []VariableDefinitionRequest `json:"variables" binding:"required,min=1,dive"`
	Methods   []MethodDefinitionRequest   `json:"methods" binding:"omitempty,dive"`
}

type StaticOptionRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
}

// CreateStaticVariationRequest adds a fixed-content variation to an existing
// group. The variation id is assigned by gap-filling.
type CreateStaticVariationRequest struct {
	GroupID   uint                  `json:"group_id" binding:"required"`
	TopicSlug string                `json:"topic_slug" binding:"required"`
	Title     string                `json:"title" binding:"required"`
	Prompt    string                `json:"prompt" binding:"required"`
	Options   []StaticOptionRequest `json:"options" binding:"required,min=2,dive"`
}

// EvaluatePreviewRequest dry-runs the evaluator for authoring feedback.
type EvaluatePreviewRequest struct {
	Variables []VariableDefinitionRequest `json:"variables" binding:"required,min=1,dive"`
	Methods   []MethodDefinitionRequest   `json:"methods" binding:"omitempty,dive"`
	Randomize bool                        `json:"randomize"`
}
