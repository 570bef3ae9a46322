package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/khaiwen/Loris/config"
	"github.com/khaiwen/Loris/internal/dto"
	"github.com/khaiwen/Loris/internal/model"
	"github.com/khaiwen/Loris/internal/repository"
	"github.com/rs/zerolog/log"
)

// Time constants of the rolling mastery aggregates.
const (
	weeklyWindow      = 7 * 24 * time.Hour
	fortnightlyWindow = 14 * 24 * time.Hour
)

// MasteryService maintains the per-user-per-topic mastery estimate and
// updates it from attempt outcomes.
type MasteryService interface {
	// RecordAttempt applies one boolean outcome to the user's mastery of a
	// topic. The update is a read-modify-write against the stored record;
	// a lost optimistic update is retried internally with a fresh read.
	RecordAttempt(userID uint, topicSlug string, correct bool) (*dto.MasterySnapshotResponse, error)
	GetMastery(userID uint, topicSlug string) (*dto.MasterySnapshotResponse, error)
	// GetCourseMasteries returns the user's mastery for every topic of a
	// course, lazily initializing records from the topic prior.
	GetCourseMasteries(userID uint, courseSlug string) ([]dto.MasterySnapshotResponse, error)
	// EnsureForTopics lazily initializes and returns the user's mastery
	// records for the given topics, keyed by topic id.
	EnsureForTopics(userID uint, topics []model.Topic) (map[uint]*model.Mastery, error)
}

type masteryService struct {
	masteryRepo repository.MasteryRepository
	topicRepo   repository.TopicRepository
	courseRepo  repository.CourseRepository
	cfg         config.Engine
	now         func() time.Time
}

func NewMasteryService(
	masteryRepo repository.MasteryRepository,
	topicRepo repository.TopicRepository,
	courseRepo repository.CourseRepository,
	cfg *config.Config,
) MasteryService {
	return &masteryService{
		masteryRepo: masteryRepo,
		topicRepo:   topicRepo,
		courseRepo:  courseRepo,
		cfg:         cfg.Engine,
		now:         time.Now,
	}
}

func (s *masteryService) RecordAttempt(userID uint, topicSlug string, correct bool) (*dto.MasterySnapshotResponse, error) {
	topic, err := s.topicRepo.FindBySlug(topicSlug)
	if err != nil {
		return nil, fmt.Errorf("topic not found with slug %q: %w", topicSlug, err)
	}

	for attempt := 0; attempt <= s.cfg.ConflictRetries; attempt++ {
		mastery, err := s.ensure(userID, topic)
		if err != nil {
			return nil, err
		}

		s.applyOutcome(mastery, correct)

		err = s.masteryRepo.UpdateVersioned(mastery)
		if errors.Is(err, repository.ErrVersionConflict) {
			log.Info().
				Uint("userID", userID).
				Str("topic", topicSlug).
				Int("retry", attempt+1).
				Msg("Mastery update lost its base state, retrying with fresh read")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to persist mastery update: %w", err)
		}

		snapshot := toMasterySnapshot(mastery, topic)
		return &snapshot, nil
	}

	return nil, fmt.Errorf("mastery update for user %d topic %q exhausted %d retries", userID, topicSlug, s.cfg.ConflictRetries)
}

// applyOutcome is the bounded incremental update rule: a correct attempt
// closes a fraction of the remaining gap to 1, an incorrect one removes a
// fraction of the current value. Starting from a prior in [0,1] the level
// can never leave [0,1].
func (s *masteryService) applyOutcome(m *model.Mastery, correct bool) {
	now := s.now()

	if correct {
		m.Level += s.cfg.MasteryGainFactor * (1 - m.Level)
		m.ErrorMeter = 0
	} else {
		m.Level -= s.cfg.MasteryLossFactor * m.Level
		m.ErrorMeter++
		if m.ErrorMeter >= s.cfg.FlagErrorThreshold {
			m.Flagged = true
			flaggedAt := now
			m.LastFlaggedAt = &flaggedAt
		}
	}

	// Rolling aggregates decay toward the new level, weighted by how long
	// the learner was inactive.
	elapsed := now.Sub(m.LastActiveAt)
	if elapsed < 0 {
		elapsed = 0
	}
	m.WeeklyLevel = decayToward(m.WeeklyLevel, m.Level, elapsed, weeklyWindow)
	m.FortnightlyLevel = decayToward(m.FortnightlyLevel, m.Level, elapsed, fortnightlyWindow)
	m.LastActiveAt = now
}

func decayToward(old, target float64, elapsed time.Duration, window time.Duration) float64 {
	w := math.Exp(-elapsed.Hours() / window.Hours())
	return w*old + (1-w)*target
}

// ensure returns the user's mastery record for a topic, creating it from the
// topic prior on first contact. A concurrent creation of the same record is
// resolved by re-reading.
func (s *masteryService) ensure(userID uint, topic *model.Topic) (*model.Mastery, error) {
	mastery, err := s.masteryRepo.FindByUserAndTopic(userID, topic.ID)
	if err == nil {
		return mastery, nil
	}

	fresh := &model.Mastery{
		UserID:           userID,
		TopicID:          topic.ID,
		Level:            topic.Prior,
		WeeklyLevel:      topic.Prior,
		FortnightlyLevel: topic.Prior,
		LastActiveAt:     s.now(),
	}
	if createErr := s.masteryRepo.Create(fresh); createErr != nil {
		// Another request may have initialized the record first.
		if existing, findErr := s.masteryRepo.FindByUserAndTopic(userID, topic.ID); findErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to initialize mastery for user %d topic %d: %w", userID, topic.ID, createErr)
	}
	return fresh, nil
}

func (s *masteryService) GetMastery(userID uint, topicSlug string) (*dto.MasterySnapshotResponse, error) {
	topic, err := s.topicRepo.FindBySlug(topicSlug)
	if err != nil {
		return nil, fmt.Errorf("topic not found with slug %q: %w", topicSlug, err)
	}
	mastery, err := s.ensure(userID, topic)
	if err != nil {
		return nil, err
	}
	snapshot := toMasterySnapshot(mastery, topic)
	return &snapshot, nil
}

func (s *masteryService) GetCourseMasteries(userID uint, courseSlug string) ([]dto.MasterySnapshotResponse, error) {
	course, err := s.courseRepo.FindBySlugWithTopics(courseSlug)
	if err != nil {
		return nil, fmt.Errorf("course not found with slug %q: %w", courseSlug, err)
	}

	snapshots := make([]dto.MasterySnapshotResponse, 0, len(course.Topics))
	for i := range course.Topics {
		topic := course.Topics[i].Topic
		mastery, err := s.ensure(userID, &topic)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, toMasterySnapshot(mastery, &topic))
	}
	return snapshots, nil
}

func (s *masteryService) EnsureForTopics(userID uint, topics []model.Topic) (map[uint]*model.Mastery, error) {
	result := make(map[uint]*model.Mastery, len(topics))
	for i := range topics {
		mastery, err := s.ensure(userID, &topics[i])
		if err != nil {
			return nil, err
		}
		result[topics[i].ID] = mastery
	}
	return result, nil
}

func toMasterySnapshot(m *model.Mastery, topic *model.Topic) dto.MasterySnapshotResponse {
	return dto.MasterySnapshotResponse{
		TopicSlug:        topic.Slug,
		TopicName:        topic.Name,
		Level:            m.Level,
		ErrorMeter:       m.ErrorMeter,
		Flagged:          m.Flagged,
		LastFlaggedAt:    m.LastFlaggedAt,
		WeeklyLevel:      m.WeeklyLevel,
		FortnightlyLevel: m.FortnightlyLevel,
		LastActiveAt:     m.LastActiveAt,
	}
}
