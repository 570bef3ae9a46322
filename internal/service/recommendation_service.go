package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/khaiwen/Loris/internal/dto"
	"github.com/khaiwen/Loris/internal/evaluator"
	"github.com/khaiwen/Loris/internal/model"
	"github.com/khaiwen/Loris/internal/repository"
	"github.com/rs/zerolog/log"
)

// ErrExhaustedContent signals that no eligible question remains in the
// course. The caller renders an empty state; no content is fabricated.
var ErrExhaustedContent = errors.New("no eligible question remaining in course")

// RecommendationService picks the next question for a learner: weakest topic
// first, then an eligible question within it, materialized through the
// evaluator when dynamic.
type RecommendationService interface {
	RecommendQuestion(userID uint, courseSlug string, excludedQuestionIDs []uint) (*dto.QuestionInstanceResponse, error)
}

type recommendationService struct {
	courseRepo     repository.CourseRepository
	questionRepo   repository.QuestionRepository
	instanceRepo   repository.QuestionInstanceRepository
	masteryService MasteryService
	eval           *evaluator.Evaluator
	rng            evaluator.Rand
}

func NewRecommendationService(
	courseRepo repository.CourseRepository,
	questionRepo repository.QuestionRepository,
	instanceRepo repository.QuestionInstanceRepository,
	masteryService MasteryService,
	eval *evaluator.Evaluator,
	rng evaluator.Rand,
) RecommendationService {
	return &recommendationService{
		courseRepo:     courseRepo,
		questionRepo:   questionRepo,
		instanceRepo:   instanceRepo,
		masteryService: masteryService,
		eval:           eval,
		rng:            rng,
	}
}

func (s *recommendationService) RecommendQuestion(userID uint, courseSlug string, excludedQuestionIDs []uint) (*dto.QuestionInstanceResponse, error) {
	course, err := s.courseRepo.FindBySlugWithTopics(courseSlug)
	if err != nil {
		return nil, fmt.Errorf("course not found with slug %q: %w", courseSlug, err)
	}
	if len(course.Topics) == 0 {
		return nil, ErrExhaustedContent
	}

	topics := make([]model.Topic, len(course.Topics))
	for i, ct := range course.Topics {
		topics[i] = ct.Topic
	}

	masteries, err := s.masteryService.EnsureForTopics(userID, topics)
	if err != nil {
		return nil, err
	}

	// Weakest topic first; ties keep the course declaration order (the
	// stable sort preserves it), so recommendations are reproducible.
	order := make([]int, len(topics))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return masteries[topics[order[a]].ID].Level < masteries[topics[order[b]].ID].Level
	})

	for _, idx := range order {
		topic := topics[idx]
		question, err := s.pickQuestion(topic.ID, userID, course.ID, excludedQuestionIDs)
		if err != nil {
			return nil, err
		}
		if question == nil {
			continue
		}
		log.Info().
			Uint("userID", userID).
			Str("course", courseSlug).
			Str("topic", topic.Slug).
			Float64("mastery", masteries[topic.ID].Level).
			Uint("questionID", question.ID).
			Msg("Recommending question from weakest topic")
		return s.materialize(userID, course.ID, &topic, question)
	}

	return nil, ErrExhaustedContent
}

// pickQuestion prefers a question the user has never attempted in this
// course; otherwise it falls back to the least-recently-served eligible one.
// Returns nil when the topic has no eligible question at all.
func (s *recommendationService) pickQuestion(topicID, userID, courseID uint, excludedIDs []uint) (*model.Question, error) {
	unattempted, err := s.questionRepo.FindUnattemptedByTopic(topicID, userID, courseID, excludedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query unattempted questions: %w", err)
	}
	if len(unattempted) > 0 {
		return &unattempted[0], nil
	}

	eligible, err := s.questionRepo.FindLeastRecentlyServedByTopic(topicID, userID, courseID, excludedIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible questions: %w", err)
	}
	if len(eligible) > 0 {
		return &eligible[0], nil
	}
	return nil, nil
}

// materialize produces and persists the QuestionInstance for delivery. An
// evaluator failure propagates as a recommendation failure; no substitute
// question is served in its place.
func (s *recommendationService) materialize(userID, courseID uint, topic *model.Topic, question *model.Question) (*dto.QuestionInstanceResponse, error) {
	var (
		options   []model.InstanceOption
		variables []model.InstanceVariable
	)

	if question.IsDynamic() {
		result, err := s.eval.Evaluate(modelDefinitions(question), modelMethods(question), true)
		if err != nil {
			log.Error().Err(err).Uint("questionID", question.ID).Msg("Evaluator failed to materialize dynamic question")
			return nil, fmt.Errorf("failed to materialize question %d: %w", question.ID, err)
		}
		for _, rv := range result.Variables {
			variables = append(variables, model.InstanceVariable{Name: rv.Name, Value: rv.Value, Unit: rv.Unit})
		}
		for _, opt := range result.Answers {
			options = append(options, model.InstanceOption{Text: opt.Text, IsCorrect: opt.IsCorrect})
		}
	} else {
		for _, opt := range question.Options {
			options = append(options, model.InstanceOption{Text: opt.Text, IsCorrect: opt.IsCorrect})
		}
	}
	if len(options) == 0 {
		return nil, fmt.Errorf("question %d materialized with no answer options", question.ID)
	}

	// Fresh uniform permutation on every materialization, then positional
	// keys so the stored order is the display order.
	s.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	for i := range options {
		options[i].Key = optionKey(i)
	}

	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("failed to encode options: %w", err)
	}
	var variablesJSON []byte
	if len(variables) > 0 {
		if variablesJSON, err = json.Marshal(variables); err != nil {
			return nil, fmt.Errorf("failed to encode variables: %w", err)
		}
	}

	instance := &model.QuestionInstance{
		Token:      uuid.NewString(),
		UserID:     userID,
		CourseID:   courseID,
		QuestionID: question.ID,
		TopicID:    topic.ID,
		Variables:  variablesJSON,
		Options:    optionsJSON,
	}
	if err := s.instanceRepo.CreateSuperseding(instance); err != nil {
		return nil, fmt.Errorf("failed to persist question instance: %w", err)
	}

	resp := &dto.QuestionInstanceResponse{
		Token:       instance.Token,
		QuestionID:  question.ID,
		GroupID:     question.GroupID,
		VariationID: question.VariationID,
		TopicSlug:   topic.Slug,
		TopicName:   topic.Name,
		Title:       question.Title,
		Prompt:      question.Prompt,
		CreatedAt:   instance.CreatedAt,
	}
	for _, v := range variables {
		resp.Variables = append(resp.Variables, dto.ResolvedVariableResponse{Name: v.Name, Value: v.Value, Unit: v.Unit})
	}
	for _, opt := range options {
		resp.Options = append(resp.Options, dto.InstanceOptionResponse{Key: opt.Key, Text: opt.Text})
	}
	return resp, nil
}

func optionKey(i int) string {
	if i < 26 {
		return string(rune('a' + i))
	}
	return strconv.Itoa(i + 1)
}

func modelDefinitions(q *model.Question) []evaluator.VariableDefinition {
	defs := make([]evaluator.VariableDefinition, len(q.Variables))
	for i, v := range q.Variables {
		defs[i] = evaluator.VariableDefinition{
			Name:          v.Name,
			Unit:          v.Unit,
			Default:       v.Default,
			Min:           v.Min,
			Max:           v.Max,
			Step:          v.Step,
			DecimalPlaces: v.DecimalPlaces,
			Randomize:     v.Randomize,
			IsFinalAnswer: v.IsFinalAnswer,
		}
	}
	return defs
}

func modelMethods(q *model.Question) []evaluator.MethodDefinition {
	methods := make([]evaluator.MethodDefinition, len(q.Methods))
	for i, m := range q.Methods {
		methods[i] = evaluator.MethodDefinition{Expr: m.Expr}
	}
	return methods
}
