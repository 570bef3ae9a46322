package service

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/khaiwen/Loris/internal/dto"
	"github.com/khaiwen/Loris/internal/model"
	"github.com/khaiwen/Loris/internal/repository"
	"github.com/rs/zerolog/log"
)

// AttemptService grades a submitted answer against its question instance,
// records the immutable attempt, and feeds the outcome into the mastery
// model.
type AttemptService interface {
	SubmitAttempt(req dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error)
}

type attemptService struct {
	instanceRepo   repository.QuestionInstanceRepository
	attemptRepo    repository.AttemptRepository
	masteryService MasteryService
}

func NewAttemptService(
	instanceRepo repository.QuestionInstanceRepository,
	attemptRepo repository.AttemptRepository,
	masteryService MasteryService,
) AttemptService {
	return &attemptService{
		instanceRepo:   instanceRepo,
		attemptRepo:    attemptRepo,
		masteryService: masteryService,
	}
}

func (s *attemptService) SubmitAttempt(req dto.SubmitAttemptRequest) (*dto.AttemptResultResponse, error) {
	instance, err := s.instanceRepo.FindAnswerableByToken(req.InstanceToken)
	if err != nil {
		return nil, fmt.Errorf("question instance %s is not answerable: %w", req.InstanceToken, err)
	}
	if instance.UserID != req.UserID {
		return nil, fmt.Errorf("question instance %s does not belong to user %d", req.InstanceToken, req.UserID)
	}

	var options []model.InstanceOption
	if err := json.Unmarshal(instance.Options, &options); err != nil {
		return nil, fmt.Errorf("failed to decode stored options for instance %d: %w", instance.ID, err)
	}

	valid := make(map[string]bool, len(options))
	correctKeys := make([]string, 0, len(options))
	for _, opt := range options {
		valid[opt.Key] = true
		if opt.IsCorrect {
			correctKeys = append(correctKeys, opt.Key)
		}
	}

	selected := make(map[string]bool, len(req.SelectedKeys))
	for _, key := range req.SelectedKeys {
		if !valid[key] {
			return nil, fmt.Errorf("unknown option key %q for instance %s", key, req.InstanceToken)
		}
		selected[key] = true
	}

	// Correct iff the selected set matches the correct set exactly: every
	// correct key chosen, no incorrect key chosen.
	isCorrect := len(selected) == len(correctKeys)
	if isCorrect {
		for _, key := range correctKeys {
			if !selected[key] {
				isCorrect = false
				break
			}
		}
	}

	selectedJSON, err := json.Marshal(req.SelectedKeys)
	if err != nil {
		return nil, fmt.Errorf("failed to encode selected keys: %w", err)
	}

	attempt := &model.Attempt{
		QuestionInstanceID: instance.ID,
		UserID:             req.UserID,
		SelectedKeys:       selectedJSON,
		IsCorrect:          isCorrect,
		SubmittedAt:        time.Now(),
	}
	if err := s.attemptRepo.CreateConsuming(attempt); err != nil {
		return nil, fmt.Errorf("failed to record attempt: %w", err)
	}

	topicSlug := instance.Question.Topic.Slug
	snapshot, err := s.masteryService.RecordAttempt(req.UserID, topicSlug, isCorrect)
	if err != nil {
		// The attempt itself is recorded; a mastery failure here is a real
		// defect to surface, not to mask.
		log.Error().Err(err).Uint("attemptID", attempt.ID).Str("topic", topicSlug).Msg("Attempt recorded but mastery update failed")
		return nil, fmt.Errorf("attempt recorded but mastery update failed: %w", err)
	}

	sort.Strings(correctKeys)
	return &dto.AttemptResultResponse{
		AttemptID:   attempt.ID,
		IsCorrect:   isCorrect,
		CorrectKeys: correctKeys,
		SubmittedAt: attempt.SubmittedAt,
		Mastery:     *snapshot,
	}, nil
}
