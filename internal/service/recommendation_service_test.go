package service

import (
	"encoding/json"
	"errors"
	"math/rand"
	"testing"

	"github.com/khaiwen/Loris/internal/dto"
	"github.com/khaiwen/Loris/internal/evaluator"
	"github.com/khaiwen/Loris/internal/model"
	"gorm.io/gorm"
)

type fakeCourseRepo struct {
	courses map[string]*model.Course
}

func (r *fakeCourseRepo) Create(course *model.Course) error {
	r.courses[course.Slug] = course
	return nil
}

func (r *fakeCourseRepo) FindBySlug(slug string) (*model.Course, error) {
	return r.FindBySlugWithTopics(slug)
}

func (r *fakeCourseRepo) FindBySlugWithTopics(slug string) (*model.Course, error) {
	if c, ok := r.courses[slug]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeQuestionRepo struct {
	unattempted map[uint][]model.Question
	served      map[uint][]model.Question

	lastExcluded []uint
}

func (r *fakeQuestionRepo) Create(q *model.Question) error { return nil }

func (r *fakeQuestionRepo) FindByID(id uint) (*model.Question, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuestionRepo) FindDynamicByGroup(groupID uint) (*model.Question, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeQuestionRepo) ExistingVariationIDs(groupID uint) ([]int, error) { return nil, nil }

func (r *fakeQuestionRepo) FindAllByTopic(topicID uint) ([]model.Question, error) {
	return r.unattempted[topicID], nil
}

func (r *fakeQuestionRepo) Delete(id uint) error { return nil }

func filterExcluded(questions []model.Question, excludedIDs []uint) []model.Question {
	excluded := make(map[uint]bool, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = true
	}
	var out []model.Question
	for _, q := range questions {
		if !excluded[q.ID] {
			out = append(out, q)
		}
	}
	return out
}

func (r *fakeQuestionRepo) FindUnattemptedByTopic(topicID, userID, courseID uint, excludedIDs []uint) ([]model.Question, error) {
	r.lastExcluded = excludedIDs
	return filterExcluded(r.unattempted[topicID], excludedIDs), nil
}

func (r *fakeQuestionRepo) FindLeastRecentlyServedByTopic(topicID, userID, courseID uint, excludedIDs []uint) ([]model.Question, error) {
	return filterExcluded(r.served[topicID], excludedIDs), nil
}

type fakeInstanceRepo struct {
	created []*model.QuestionInstance
	byToken map[string]*model.QuestionInstance
	nextID  uint
}

func newFakeInstanceRepo() *fakeInstanceRepo {
	return &fakeInstanceRepo{byToken: make(map[string]*model.QuestionInstance), nextID: 1}
}

func (r *fakeInstanceRepo) CreateSuperseding(instance *model.QuestionInstance) error {
	for _, prev := range r.created {
		if prev.UserID == instance.UserID && prev.CourseID == instance.CourseID && prev.SupersededAt == nil {
			superseded := instance.CreatedAt
			prev.SupersededAt = &superseded
		}
	}
	instance.ID = r.nextID
	r.nextID++
	r.created = append(r.created, instance)
	r.byToken[instance.Token] = instance
	return nil
}

func (r *fakeInstanceRepo) FindAnswerableByToken(token string) (*model.QuestionInstance, error) {
	instance, ok := r.byToken[token]
	if !ok || instance.SupersededAt != nil {
		return nil, gorm.ErrRecordNotFound
	}
	return instance, nil
}

// stubMasteryService serves fixed levels keyed by topic id; recommendation
// only calls EnsureForTopics.
type stubMasteryService struct {
	levels map[uint]float64
}

func (s *stubMasteryService) RecordAttempt(userID uint, topicSlug string, correct bool) (*dto.MasterySnapshotResponse, error) {
	return &dto.MasterySnapshotResponse{TopicSlug: topicSlug}, nil
}

func (s *stubMasteryService) GetMastery(userID uint, topicSlug string) (*dto.MasterySnapshotResponse, error) {
	return &dto.MasterySnapshotResponse{TopicSlug: topicSlug}, nil
}

func (s *stubMasteryService) GetCourseMasteries(userID uint, courseSlug string) ([]dto.MasterySnapshotResponse, error) {
	return nil, nil
}

func (s *stubMasteryService) EnsureForTopics(userID uint, topics []model.Topic) (map[uint]*model.Mastery, error) {
	out := make(map[uint]*model.Mastery, len(topics))
	for _, t := range topics {
		out[t.ID] = &model.Mastery{UserID: userID, TopicID: t.ID, Level: s.levels[t.ID]}
	}
	return out, nil
}

func staticQuestion(id, groupID, topicID uint, correct string, wrong ...string) model.Question {
	q := model.Question{
		ID:          id,
		GroupID:     groupID,
		VariationID: 1,
		TopicID:     topicID,
		Title:       "static",
		Prompt:      "pick one",
		Options: []model.QuestionOption{
			{Text: correct, IsCorrect: true, Position: 0},
		},
	}
	for i, w := range wrong {
		q.Options = append(q.Options, model.QuestionOption{Text: w, Position: i + 1})
	}
	return q
}

func threeTopicCourse() *model.Course {
	return &model.Course{
		ID:   1,
		Slug: "circuits-101",
		Name: "Circuits 101",
		Topics: []model.CourseTopic{
			{CourseID: 1, TopicID: 10, Position: 0, Topic: model.Topic{ID: 10, Slug: "series", Name: "Series Circuits"}},
			{CourseID: 1, TopicID: 20, Position: 1, Topic: model.Topic{ID: 20, Slug: "parallel", Name: "Parallel Circuits"}},
			{CourseID: 1, TopicID: 30, Position: 2, Topic: model.Topic{ID: 30, Slug: "power", Name: "Power"}},
		},
	}
}

func newTestRecommendationService(course *model.Course, questionRepo *fakeQuestionRepo, levels map[uint]float64) (RecommendationService, *fakeInstanceRepo) {
	courseRepo := &fakeCourseRepo{courses: map[string]*model.Course{course.Slug: course}}
	instanceRepo := newFakeInstanceRepo()
	rng := rand.New(rand.NewSource(3))
	svc := NewRecommendationService(
		courseRepo,
		questionRepo,
		instanceRepo,
		&stubMasteryService{levels: levels},
		evaluator.New(evaluator.DefaultConfig(), rng),
		rng,
	)
	return svc, instanceRepo
}

func TestRecommendQuestionPicksWeakestTopic(t *testing.T) {
	questionRepo := &fakeQuestionRepo{
		unattempted: map[uint][]model.Question{
			10: {staticQuestion(101, 101, 10, "1 A", "2 A", "3 A")},
			20: {staticQuestion(201, 201, 20, "4 V", "5 V", "6 V")},
			30: {staticQuestion(301, 301, 30, "7 W", "8 W", "9 W")},
		},
	}
	svc, instanceRepo := newTestRecommendationService(threeTopicCourse(), questionRepo, map[uint]float64{
		10: 0.9, 20: 0.2, 30: 0.5,
	})

	resp, err := svc.RecommendQuestion(42, "circuits-101", nil)
	if err != nil {
		t.Fatalf("RecommendQuestion returned error: %v", err)
	}
	if resp.TopicSlug != "parallel" {
		t.Errorf("recommended from topic %q, want the weakest %q", resp.TopicSlug, "parallel")
	}
	if resp.QuestionID != 201 {
		t.Errorf("QuestionID = %d, want 201", resp.QuestionID)
	}
	if len(instanceRepo.created) != 1 {
		t.Fatalf("persisted %d instances, want 1", len(instanceRepo.created))
	}
	if instanceRepo.created[0].TopicID != 20 {
		t.Errorf("persisted instance TopicID = %d, want 20", instanceRepo.created[0].TopicID)
	}
}

func TestRecommendQuestionTieKeepsDeclarationOrder(t *testing.T) {
	questionRepo := &fakeQuestionRepo{
		unattempted: map[uint][]model.Question{
			10: {staticQuestion(101, 101, 10, "1 A", "2 A")},
			20: {staticQuestion(201, 201, 20, "4 V", "5 V")},
			30: {staticQuestion(301, 301, 30, "7 W", "8 W")},
		},
	}
	svc, _ := newTestRecommendationService(threeTopicCourse(), questionRepo, map[uint]float64{
		10: 0.4, 20: 0.4, 30: 0.4,
	})

	resp, err := svc.RecommendQuestion(42, "circuits-101", nil)
	if err != nil {
		t.Fatalf("RecommendQuestion returned error: %v", err)
	}
	if resp.TopicSlug != "series" {
		t.Errorf("recommended from topic %q, want first-declared %q on a tie", resp.TopicSlug, "series")
	}
}

func TestRecommendQuestionFallsBackWhenWeakestExhausted(t *testing.T) {
	questionRepo := &fakeQuestionRepo{
		unattempted: map[uint][]model.Question{
			20: {staticQuestion(201, 201, 20, "4 V", "5 V")},
			30: {staticQuestion(301, 301, 30, "7 W", "8 W")},
		},
	}
	svc, _ := newTestRecommendationService(threeTopicCourse(), questionRepo, map[uint]float64{
		10: 0.9, 20: 0.2, 30: 0.5,
	})

	// The weakest topic's only question is excluded, so the next-weakest
	// eligible topic serves instead.
	resp, err := svc.RecommendQuestion(42, "circuits-101", []uint{201})
	if err != nil {
		t.Fatalf("RecommendQuestion returned error: %v", err)
	}
	if resp.TopicSlug != "power" {
		t.Errorf("recommended from topic %q, want fallback %q", resp.TopicSlug, "power")
	}
	if len(questionRepo.lastExcluded) != 1 || questionRepo.lastExcluded[0] != 201 {
		t.Errorf("excluded ids %v not passed through to the repository", questionRepo.lastExcluded)
	}
}

func TestRecommendQuestionExhaustedCourse(t *testing.T) {
	questionRepo := &fakeQuestionRepo{}
	svc, _ := newTestRecommendationService(threeTopicCourse(), questionRepo, map[uint]float64{
		10: 0.9, 20: 0.2, 30: 0.5,
	})

	_, err := svc.RecommendQuestion(42, "circuits-101", nil)
	if !errors.Is(err, ErrExhaustedContent) {
		t.Fatalf("error = %v, want ErrExhaustedContent", err)
	}
}

func TestRecommendQuestionEvaluatorFailurePropagates(t *testing.T) {
	def := func(v float64) *float64 { return &v }
	broken := model.Question{
		ID: 401, GroupID: 401, VariationID: model.DynamicVariationID, TopicID: 20,
		Title: "broken", Prompt: "divide",
		Variables: []model.QuestionVariable{
			{Name: "a", Default: def(1), Position: 0},
			{Name: "b", Default: def(0), Position: 1},
			{Name: "q", IsFinalAnswer: true, Position: 2},
		},
		Methods: []model.QuestionMethod{{Expr: "q = a / b", Position: 0}},
	}
	questionRepo := &fakeQuestionRepo{
		unattempted: map[uint][]model.Question{20: {broken}},
	}
	svc, instanceRepo := newTestRecommendationService(threeTopicCourse(), questionRepo, map[uint]float64{
		10: 0.9, 20: 0.2, 30: 0.5,
	})

	_, err := svc.RecommendQuestion(42, "circuits-101", nil)
	if err == nil {
		t.Fatal("RecommendQuestion succeeded with a broken dynamic question")
	}
	if errors.Is(err, ErrExhaustedContent) {
		t.Fatal("evaluator failure was masked as exhausted content")
	}
	var evalErr *evaluator.EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("error %v does not wrap an *EvaluationError", err)
	}
	if len(instanceRepo.created) != 0 {
		t.Errorf("persisted %d instances despite evaluation failure, want 0", len(instanceRepo.created))
	}
}

func TestRecommendQuestionShuffledOptionsKeepContent(t *testing.T) {
	questionRepo := &fakeQuestionRepo{
		unattempted: map[uint][]model.Question{
			20: {staticQuestion(201, 201, 20, "correct", "wrong1", "wrong2", "wrong3")},
		},
	}
	svc, instanceRepo := newTestRecommendationService(threeTopicCourse(), questionRepo, map[uint]float64{
		10: 0.9, 20: 0.2, 30: 0.5,
	})

	resp, err := svc.RecommendQuestion(42, "circuits-101", nil)
	if err != nil {
		t.Fatalf("RecommendQuestion returned error: %v", err)
	}

	wantKeys := []string{"a", "b", "c", "d"}
	texts := make(map[string]bool)
	for i, opt := range resp.Options {
		if opt.Key != wantKeys[i] {
			t.Errorf("option %d key = %q, want %q", i, opt.Key, wantKeys[i])
		}
		texts[opt.Text] = true
	}
	for _, want := range []string{"correct", "wrong1", "wrong2", "wrong3"} {
		if !texts[want] {
			t.Errorf("option text %q missing after shuffle", want)
		}
	}

	// Correctness lives only in the stored instance, never in the response.
	var stored []model.InstanceOption
	if err := json.Unmarshal(instanceRepo.created[0].Options, &stored); err != nil {
		t.Fatalf("failed to decode stored options: %v", err)
	}
	correctCount := 0
	for _, opt := range stored {
		if opt.IsCorrect {
			correctCount++
			if opt.Text != "correct" {
				t.Errorf("stored correct option text = %q, want %q", opt.Text, "correct")
			}
		}
	}
	if correctCount != 1 {
		t.Errorf("stored %d correct options, want 1", correctCount)
	}
}

func TestRecommendQuestionDynamicMaterialization(t *testing.T) {
	def := func(v float64) *float64 { return &v }
	dp := 1
	dynamic := model.Question{
		ID: 501, GroupID: 501, VariationID: model.DynamicVariationID, TopicID: 20,
		Title: "ohms law", Prompt: "find the resistance",
		Variables: []model.QuestionVariable{
			{Name: "voltage", Default: def(20), Unit: "V", Position: 0},
			{Name: "current", Default: def(2), Unit: "A", Position: 1},
			{Name: "resistance", Unit: "Ohm", DecimalPlaces: &dp, IsFinalAnswer: true, Position: 2},
		},
		Methods: []model.QuestionMethod{{Expr: "resistance = voltage / current", Position: 0}},
	}
	questionRepo := &fakeQuestionRepo{
		unattempted: map[uint][]model.Question{20: {dynamic}},
	}
	svc, instanceRepo := newTestRecommendationService(threeTopicCourse(), questionRepo, map[uint]float64{
		10: 0.9, 20: 0.2, 30: 0.5,
	})

	resp, err := svc.RecommendQuestion(42, "circuits-101", nil)
	if err != nil {
		t.Fatalf("RecommendQuestion returned error: %v", err)
	}

	if len(resp.Variables) == 0 {
		t.Fatal("dynamic instance delivered without resolved variables")
	}
	wantOptions := evaluator.DefaultConfig().DistractorCount + 1
	if len(resp.Options) != wantOptions {
		t.Errorf("delivered %d options, want %d", len(resp.Options), wantOptions)
	}
	if resp.Token == "" {
		t.Error("instance token is empty")
	}

	// A second recommendation supersedes the first instance.
	if _, err := svc.RecommendQuestion(42, "circuits-101", nil); err != nil {
		t.Fatalf("second RecommendQuestion returned error: %v", err)
	}
	if instanceRepo.created[0].SupersededAt == nil {
		t.Error("first instance was not superseded by the second recommendation")
	}
}
