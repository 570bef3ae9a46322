package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/khaiwen/Loris/config"
	"github.com/khaiwen/Loris/internal/dto"
	"github.com/khaiwen/Loris/internal/model"
	"github.com/khaiwen/Loris/internal/repository"
	"gorm.io/gorm"
)

type fakeTopicRepo struct {
	topics map[string]*model.Topic
}

func (r *fakeTopicRepo) Create(topic *model.Topic) error { r.topics[topic.Slug] = topic; return nil }

func (r *fakeTopicRepo) FindByID(id uint) (*model.Topic, error) {
	for _, t := range r.topics {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTopicRepo) FindBySlug(slug string) (*model.Topic, error) {
	if t, ok := r.topics[slug]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTopicRepo) FindAll() ([]model.Topic, error) {
	var out []model.Topic
	for _, t := range r.topics {
		out = append(out, *t)
	}
	return out, nil
}

// fakeMasteryRepo mimics the optimistic versioning of the real repository.
// Reads return copies so a stale in-memory record really is stale.
type fakeMasteryRepo struct {
	records     map[string]*model.Mastery
	nextID      uint
	updateCalls int

	// conflictNext forces the next UpdateVersioned calls to lose the version
	// race by bumping the stored version first.
	conflictNext int
}

func newFakeMasteryRepo() *fakeMasteryRepo {
	return &fakeMasteryRepo{records: make(map[string]*model.Mastery), nextID: 1}
}

func masteryKey(userID, topicID uint) string { return fmt.Sprintf("%d:%d", userID, topicID) }

func (r *fakeMasteryRepo) Create(m *model.Mastery) error {
	key := masteryKey(m.UserID, m.TopicID)
	if _, exists := r.records[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	m.ID = r.nextID
	r.nextID++
	stored := *m
	r.records[key] = &stored
	return nil
}

func (r *fakeMasteryRepo) FindByUserAndTopic(userID, topicID uint) (*model.Mastery, error) {
	if stored, ok := r.records[masteryKey(userID, topicID)]; ok {
		snapshot := *stored
		return &snapshot, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeMasteryRepo) FindByUserAndTopics(userID uint, topicIDs []uint) ([]model.Mastery, error) {
	var out []model.Mastery
	for _, id := range topicIDs {
		if stored, ok := r.records[masteryKey(userID, id)]; ok {
			out = append(out, *stored)
		}
	}
	return out, nil
}

func (r *fakeMasteryRepo) UpdateVersioned(m *model.Mastery) error {
	r.updateCalls++
	stored, ok := r.records[masteryKey(m.UserID, m.TopicID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if r.conflictNext > 0 {
		r.conflictNext--
		stored.Version++
		return repository.ErrVersionConflict
	}
	if stored.Version != m.Version {
		return repository.ErrVersionConflict
	}
	next := *m
	next.Version = m.Version + 1
	*stored = next
	m.Version++
	return nil
}

func testEngineConfig() config.Engine {
	return config.Engine{
		MasteryGainFactor:  0.35,
		MasteryLossFactor:  0.30,
		FlagErrorThreshold: 3,
		ConflictRetries:    3,
	}
}

func newTestMasteryService(clock *time.Time) (*masteryService, *fakeTopicRepo, *fakeMasteryRepo) {
	topicRepo := &fakeTopicRepo{topics: map[string]*model.Topic{
		"ohms-law": {ID: 1, Slug: "ohms-law", Name: "Ohm's Law", Level: model.LevelFoundational, Prior: 0.25},
	}}
	masteryRepo := newFakeMasteryRepo()
	svc := &masteryService{
		masteryRepo: masteryRepo,
		topicRepo:   topicRepo,
		cfg:         testEngineConfig(),
		now:         func() time.Time { return *clock },
	}
	return svc, topicRepo, masteryRepo
}

func TestRecordAttemptCorrectOutcomes(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestMasteryService(&now)

	snapshot, err := svc.RecordAttempt(42, "ohms-law", true)
	if err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	// Starting from the 0.25 prior, one correct attempt closes 35% of the gap.
	want := 0.25 + 0.35*(1-0.25)
	if diff := snapshot.Level - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Level = %v, want %v", snapshot.Level, want)
	}
	if snapshot.ErrorMeter != 0 {
		t.Errorf("ErrorMeter = %d, want 0", snapshot.ErrorMeter)
	}

	prev := snapshot.Level
	for i := 0; i < 50; i++ {
		snapshot, err = svc.RecordAttempt(42, "ohms-law", true)
		if err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
		if snapshot.Level < prev {
			t.Fatalf("Level decreased on a correct attempt: %v -> %v", prev, snapshot.Level)
		}
		if snapshot.Level > 1 {
			t.Fatalf("Level %v exceeded 1", snapshot.Level)
		}
		prev = snapshot.Level
	}
}

func TestRecordAttemptIncorrectOutcomes(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestMasteryService(&now)

	snapshot, err := svc.RecordAttempt(42, "ohms-law", false)
	if err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	want := 0.25 - 0.30*0.25
	if diff := snapshot.Level - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Level = %v, want %v", snapshot.Level, want)
	}
	if snapshot.ErrorMeter != 1 {
		t.Errorf("ErrorMeter = %d, want 1", snapshot.ErrorMeter)
	}
	if snapshot.Flagged {
		t.Error("flagged after a single error")
	}

	prev := snapshot.Level
	for i := 0; i < 50; i++ {
		snapshot, err = svc.RecordAttempt(42, "ohms-law", false)
		if err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
		if snapshot.Level > prev {
			t.Fatalf("Level increased on an incorrect attempt: %v -> %v", prev, snapshot.Level)
		}
		if snapshot.Level < 0 {
			t.Fatalf("Level %v dropped below 0", snapshot.Level)
		}
		prev = snapshot.Level
	}
}

func TestRecordAttemptFlagsAtThreshold(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestMasteryService(&now)

	var snapshot *dto.MasterySnapshotResponse
	for i := 0; i < 3; i++ {
		s, err := svc.RecordAttempt(42, "ohms-law", false)
		if err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
		if i < 2 && s.Flagged {
			t.Fatalf("flagged after %d errors, threshold is 3", i+1)
		}
		snapshot = s
	}
	if !snapshot.Flagged {
		t.Fatal("not flagged after 3 consecutive errors")
	}
	if snapshot.LastFlaggedAt == nil || !snapshot.LastFlaggedAt.Equal(now) {
		t.Errorf("LastFlaggedAt = %v, want %v", snapshot.LastFlaggedAt, now)
	}

	// A correct attempt resets the meter but the flag stays for review.
	s, err := svc.RecordAttempt(42, "ohms-law", true)
	if err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if s.ErrorMeter != 0 {
		t.Errorf("ErrorMeter = %d after a correct attempt, want 0", s.ErrorMeter)
	}
	if !s.Flagged {
		t.Error("flag cleared by a correct attempt; it should persist until reviewed")
	}
}

func TestRecordAttemptRollingAggregatesDecay(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestMasteryService(&now)

	first, err := svc.RecordAttempt(42, "ohms-law", true)
	if err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	// No time has passed since initialization, so the aggregates hold the
	// prior.
	if first.WeeklyLevel != 0.25 {
		t.Errorf("WeeklyLevel = %v immediately after init, want 0.25", first.WeeklyLevel)
	}

	// After a long absence the aggregates converge to the current level.
	now = now.Add(90 * 24 * time.Hour)
	second, err := svc.RecordAttempt(42, "ohms-law", true)
	if err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if diff := second.WeeklyLevel - second.Level; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("WeeklyLevel = %v after 90 days idle, want close to Level %v", second.WeeklyLevel, second.Level)
	}
	if diff := second.FortnightlyLevel - second.Level; diff > 1e-3 || diff < -1e-3 {
		t.Errorf("FortnightlyLevel = %v after 90 days idle, want close to Level %v", second.FortnightlyLevel, second.Level)
	}

	// The fortnightly aggregate forgets slower than the weekly one.
	now = now.Add(3 * 24 * time.Hour)
	third, err := svc.RecordAttempt(42, "ohms-law", false)
	if err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if third.FortnightlyLevel <= third.WeeklyLevel {
		t.Errorf("FortnightlyLevel %v should stay above WeeklyLevel %v after a drop", third.FortnightlyLevel, third.WeeklyLevel)
	}
}

func TestRecordAttemptRetriesOnVersionConflict(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, _, masteryRepo := newTestMasteryService(&now)

	// Seed the record, then make the next update lose the race once.
	if _, err := svc.GetMastery(42, "ohms-law"); err != nil {
		t.Fatalf("GetMastery returned error: %v", err)
	}
	masteryRepo.conflictNext = 1
	masteryRepo.updateCalls = 0

	snapshot, err := svc.RecordAttempt(42, "ohms-law", true)
	if err != nil {
		t.Fatalf("RecordAttempt returned error after retryable conflict: %v", err)
	}
	if masteryRepo.updateCalls != 2 {
		t.Errorf("updateCalls = %d, want 2 (one conflict, one success)", masteryRepo.updateCalls)
	}
	want := 0.25 + 0.35*(1-0.25)
	if diff := snapshot.Level - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Level = %v after retry, want %v", snapshot.Level, want)
	}
}

func TestRecordAttemptGivesUpAfterRetryBudget(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, _, masteryRepo := newTestMasteryService(&now)

	if _, err := svc.GetMastery(42, "ohms-law"); err != nil {
		t.Fatalf("GetMastery returned error: %v", err)
	}
	masteryRepo.conflictNext = 100

	if _, err := svc.RecordAttempt(42, "ohms-law", true); err == nil {
		t.Fatal("RecordAttempt succeeded despite persistent version conflicts")
	}
}

func TestGetMasteryInitializesFromPrior(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc, _, _ := newTestMasteryService(&now)

	snapshot, err := svc.GetMastery(42, "ohms-law")
	if err != nil {
		t.Fatalf("GetMastery returned error: %v", err)
	}
	if snapshot.Level != 0.25 {
		t.Errorf("Level = %v on first contact, want the 0.25 prior", snapshot.Level)
	}
	if snapshot.WeeklyLevel != 0.25 || snapshot.FortnightlyLevel != 0.25 {
		t.Errorf("aggregates = (%v, %v), want both initialized to the prior", snapshot.WeeklyLevel, snapshot.FortnightlyLevel)
	}
	if snapshot.TopicSlug != "ohms-law" {
		t.Errorf("TopicSlug = %q, want %q", snapshot.TopicSlug, "ohms-law")
	}

	if _, err := svc.GetMastery(42, "no-such-topic"); err == nil {
		t.Error("GetMastery succeeded for an unknown topic")
	}
}
