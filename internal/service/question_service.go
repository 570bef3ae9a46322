package service

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/khaiwen/Loris/internal/dto"
	"github.com/khaiwen/Loris/internal/evaluator"
	"github.com/khaiwen/Loris/internal/model"
	"github.com/khaiwen/Loris/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// QuestionService covers question authoring: dynamic templates, static
// variations with gap-filled variation ids, and evaluator previews.
type QuestionService interface {
	CreateDynamicQuestion(req dto.CreateDynamicQuestionRequest) (*dto.QuestionResponse, error)
	CreateStaticVariation(req dto.CreateStaticVariationRequest) (*dto.QuestionResponse, error)
	GetQuestion(id uint) (*dto.QuestionResponse, error)
	ListQuestions(topicSlug string) ([]dto.QuestionResponse, error)
	// RetireQuestion soft-deletes a question so it stops being recommended.
	// Delivered instances and recorded attempts keep their history.
	RetireQuestion(id uint) error
	// PreviewEvaluation dry-runs the evaluator on authored definitions so
	// malformed methods surface before the question is saved.
	PreviewEvaluation(req dto.EvaluatePreviewRequest) (*dto.EvaluationResultResponse, error)
}

type questionService struct {
	questionRepo repository.QuestionRepository
	topicRepo    repository.TopicRepository
	eval         *evaluator.Evaluator
}

func NewQuestionService(
	questionRepo repository.QuestionRepository,
	topicRepo    repository.TopicRepository,
	eval *evaluator.Evaluator,
) QuestionService {
	return &questionService{questionRepo: questionRepo, topicRepo: topicRepo, eval: eval}
}

func (s *questionService) CreateDynamicQuestion(req dto.CreateDynamicQuestionRequest) (*dto.QuestionResponse, error) {
	topic, err := s.topicRepo.FindBySlug(req.TopicSlug)
	if err != nil {
		return nil, fmt.Errorf("topic not found with slug %q: %w", req.TopicSlug, err)
	}

	var groupID uint
	if req.GroupID != nil {
		// A group carries at most one dynamic variation.
		if _, err := s.questionRepo.FindDynamicByGroup(*req.GroupID); err == nil {
			return nil, fmt.Errorf("question group %d already has a dynamic variation", *req.GroupID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		groupID = *req.GroupID
	}

	defs, methods := requestDefinitions(req.Variables, req.Methods)

	// Dry-run without randomization so authoring errors surface now rather
	// than at delivery time.
	result, err := s.eval.Evaluate(defs, methods, false)
	if err != nil {
		return nil, fmt.Errorf("question definition failed evaluation: %w", err)
	}
	if len(result.Answers) == 0 {
		return nil, fmt.Errorf("dynamic question must declare at least one final-answer variable")
	}

	question := model.Question{
		GroupID:     groupID,
		VariationID: model.DynamicVariationID,
		TopicID:     topic.ID,
		Title:       req.Title,
		Prompt:      req.Prompt,
	}
	for i, v := range req.Variables {
		question.Variables = append(question.Variables, model.QuestionVariable{
			Name:          v.Name,
			Unit:          v.Unit,
			Default:       v.Default,
			Min:           v.Min,
			Max:           v.Max,
			Step:          v.Step,
			DecimalPlaces: v.DecimalPlaces,
			Randomize:     v.Randomize,
			IsFinalAnswer: v.IsFinalAnswer,
			Position:      i,
		})
	}
	for i, m := range req.Methods {
		question.Methods = append(question.Methods, model.QuestionMethod{Expr: m.Expr, Position: i})
	}

	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Str("topic", req.TopicSlug).Msg("Failed to create dynamic question")
		return nil, err
	}

	var resp dto.QuestionResponse
	copier.Copy(&resp, &question)
	return &resp, nil
}

func (s *questionService) CreateStaticVariation(req dto.CreateStaticVariationRequest) (*dto.QuestionResponse, error) {
	topic, err := s.topicRepo.FindBySlug(req.TopicSlug)
	if err != nil {
		return nil, fmt.Errorf("topic not found with slug %q: %w", req.TopicSlug, err)
	}

	existing, err := s.questionRepo.ExistingVariationIDs(req.GroupID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, fmt.Errorf("question group %d does not exist", req.GroupID)
	}

	hasCorrect := false
	for _, opt := range req.Options {
		if opt.IsCorrect {
			hasCorrect = true
			break
		}
	}
	if !hasCorrect {
		return nil, fmt.Errorf("static variation must have at least one correct option")
	}

	question := model.Question{
		GroupID:     req.GroupID,
		VariationID: nextVariationID(existing),
		TopicID:     topic.ID,
		Title:       req.Title,
		Prompt:      req.Prompt,
	}
	for i, opt := range req.Options {
		question.Options = append(question.Options, model.QuestionOption{
			Text:      opt.Text,
			IsCorrect: opt.IsCorrect,
			Position:  i,
		})
	}

	if err := s.questionRepo.Create(&question); err != nil {
		log.Error().Err(err).Uint("groupID", req.GroupID).Msg("Failed to create static variation")
		return nil, err
	}

	var resp dto.QuestionResponse
	copier.Copy(&resp, &question)
	return &resp, nil
}

// nextVariationID gap-fills: the smallest id >= 1 not yet used in the group.
func nextVariationID(existing []int) int {
	next := 1
	for _, id := range existing {
		if id < next {
			continue
		}
		if id == next {
			next++
			continue
		}
		break
	}
	return next
}

func (s *questionService) GetQuestion(id uint) (*dto.QuestionResponse, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	var resp dto.QuestionResponse
	copier.Copy(&resp, question)
	return &resp, nil
}

func (s *questionService) ListQuestions(topicSlug string) ([]dto.QuestionResponse, error) {
	topic, err := s.topicRepo.FindBySlug(topicSlug)
	if err != nil {
		return nil, fmt.Errorf("topic not found with slug %q: %w", topicSlug, err)
	}
	questions, err := s.questionRepo.FindAllByTopic(topic.ID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.QuestionResponse, len(questions))
	for i := range questions {
		copier.Copy(&resp[i], &questions[i])
	}
	return resp, nil
}

func (s *questionService) RetireQuestion(id uint) error {
	if err := s.questionRepo.Delete(id); err != nil {
		return err
	}
	log.Info().Uint("questionID", id).Msg("Question retired")
	return nil
}

func (s *questionService) PreviewEvaluation(req dto.EvaluatePreviewRequest) (*dto.EvaluationResultResponse, error) {
	defs, methods := requestDefinitions(req.Variables, req.Methods)
	result, err := s.eval.Evaluate(defs, methods, req.Randomize)
	if err != nil {
		return nil, err
	}

	resp := &dto.EvaluationResultResponse{}
	for _, rv := range result.Variables {
		resp.Variables = append(resp.Variables, dto.ResolvedVariableResponse{Name: rv.Name, Value: rv.Value, Unit: rv.Unit})
	}
	for _, opt := range result.Answers {
		resp.Answers = append(resp.Answers, dto.AnswerOptionResponse{Text: opt.Text, Value: opt.Value, IsCorrect: opt.IsCorrect})
	}
	return resp, nil
}

func requestDefinitions(vars []dto.VariableDefinitionRequest, methods []dto.MethodDefinitionRequest) ([]evaluator.VariableDefinition, []evaluator.MethodDefinition) {
	defs := make([]evaluator.VariableDefinition, len(vars))
	for i, v := range vars {
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
	mdefs := make([]evaluator.MethodDefinition, len(methods))
	for i, m := range methods {
		mdefs[i] = evaluator.MethodDefinition{Expr: m.Expr}
	}
	return defs, mdefs
}
