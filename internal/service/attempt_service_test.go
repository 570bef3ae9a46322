package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/khaiwen/Loris/internal/dto"
	"github.com/khaiwen/Loris/internal/model"
)

type fakeAttemptRepo struct {
	instanceRepo *fakeInstanceRepo
	attempts     []*model.Attempt
}

func (r *fakeAttemptRepo) CreateConsuming(attempt *model.Attempt) error {
	attempt.ID = uint(len(r.attempts) + 1)
	r.attempts = append(r.attempts, attempt)
	for _, instance := range r.instanceRepo.created {
		if instance.ID == attempt.QuestionInstanceID {
			consumed := attempt.SubmittedAt
			instance.SupersededAt = &consumed
		}
	}
	return nil
}

func (r *fakeAttemptRepo) FindAllByUser(userID uint) ([]model.Attempt, error) {
	var out []model.Attempt
	for _, a := range r.attempts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

// recordingMasteryService captures the outcomes fed into the mastery model.
type recordingMasteryService struct {
	stubMasteryService
	recordedSlug    string
	recordedCorrect bool
	calls           int
}

func (s *recordingMasteryService) RecordAttempt(userID uint, topicSlug string, correct bool) (*dto.MasterySnapshotResponse, error) {
	s.calls++
	s.recordedSlug = topicSlug
	s.recordedCorrect = correct
	return &dto.MasterySnapshotResponse{TopicSlug: topicSlug, Level: 0.5}, nil
}

func multiSelectInstance(t *testing.T, repo *fakeInstanceRepo, userID uint) *model.QuestionInstance {
	t.Helper()
	options := []model.InstanceOption{
		{Key: "a", Text: "10 Ohm", IsCorrect: true},
		{Key: "b", Text: "20 Ohm"},
		{Key: "c", Text: "5 Ohm", IsCorrect: true},
		{Key: "d", Text: "40 Ohm"},
	}
	optionsJSON, err := json.Marshal(options)
	if err != nil {
		t.Fatalf("failed to encode options: %v", err)
	}
	instance := &model.QuestionInstance{
		Token:      "e7a4c2de-61a4-4b5c-9f3d-8a2f1b0c4d5e",
		UserID:     userID,
		CourseID:   1,
		QuestionID: 201,
		TopicID:    20,
		Options:    optionsJSON,
		CreatedAt:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		Question: model.Question{
			ID: 201, TopicID: 20,
			Topic: model.Topic{ID: 20, Slug: "parallel", Name: "Parallel Circuits"},
		},
	}
	if err := repo.CreateSuperseding(instance); err != nil {
		t.Fatalf("failed to seed instance: %v", err)
	}
	return instance
}

func newTestAttemptService(t *testing.T) (AttemptService, *fakeInstanceRepo, *fakeAttemptRepo, *recordingMasteryService) {
	t.Helper()
	instanceRepo := newFakeInstanceRepo()
	attemptRepo := &fakeAttemptRepo{instanceRepo: instanceRepo}
	mastery := &recordingMasteryService{}
	svc := NewAttemptService(instanceRepo, attemptRepo, mastery)
	return svc, instanceRepo, attemptRepo, mastery
}

func TestSubmitAttemptGrading(t *testing.T) {
	tests := []struct {
		name        string
		selected    []string
		wantCorrect bool
	}{
		{"both correct keys", []string{"a", "c"}, true},
		{"order does not matter", []string{"c", "a"}, true},
		{"one correct one incorrect", []string{"a", "b"}, false},
		{"subset of correct keys", []string{"a"}, false},
		{"superset with extra key", []string{"a", "c", "b"}, false},
		{"only incorrect keys", []string{"b", "d"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, instanceRepo, _, mastery := newTestAttemptService(t)
			instance := multiSelectInstance(t, instanceRepo, 42)

			result, err := svc.SubmitAttempt(dto.SubmitAttemptRequest{
				UserID:        42,
				InstanceToken: instance.Token,
				SelectedKeys:  tt.selected,
			})
			if err != nil {
				t.Fatalf("SubmitAttempt returned error: %v", err)
			}
			if result.IsCorrect != tt.wantCorrect {
				t.Errorf("IsCorrect = %v for %v, want %v", result.IsCorrect, tt.selected, tt.wantCorrect)
			}
			if len(result.CorrectKeys) != 2 || result.CorrectKeys[0] != "a" || result.CorrectKeys[1] != "c" {
				t.Errorf("CorrectKeys = %v, want [a c]", result.CorrectKeys)
			}
			if mastery.calls != 1 || mastery.recordedCorrect != tt.wantCorrect || mastery.recordedSlug != "parallel" {
				t.Errorf("mastery update (%d calls, slug %q, correct %v) does not match the outcome",
					mastery.calls, mastery.recordedSlug, mastery.recordedCorrect)
			}
		})
	}
}

func TestSubmitAttemptConsumesInstance(t *testing.T) {
	svc, instanceRepo, attemptRepo, _ := newTestAttemptService(t)
	instance := multiSelectInstance(t, instanceRepo, 42)

	req := dto.SubmitAttemptRequest{UserID: 42, InstanceToken: instance.Token, SelectedKeys: []string{"a", "c"}}
	if _, err := svc.SubmitAttempt(req); err != nil {
		t.Fatalf("SubmitAttempt returned error: %v", err)
	}
	if len(attemptRepo.attempts) != 1 {
		t.Fatalf("recorded %d attempts, want 1", len(attemptRepo.attempts))
	}

	// The instance is consumed; the same token cannot be answered twice.
	if _, err := svc.SubmitAttempt(req); err == nil {
		t.Fatal("second SubmitAttempt against the same instance succeeded")
	}
	if len(attemptRepo.attempts) != 1 {
		t.Errorf("recorded %d attempts after replay, want still 1", len(attemptRepo.attempts))
	}
}

func TestSubmitAttemptRejectsBadRequests(t *testing.T) {
	svc, instanceRepo, _, mastery := newTestAttemptService(t)
	instance := multiSelectInstance(t, instanceRepo, 42)

	tests := []struct {
		name string
		req  dto.SubmitAttemptRequest
	}{
		{"unknown token", dto.SubmitAttemptRequest{UserID: 42, InstanceToken: "00000000-0000-0000-0000-000000000000", SelectedKeys: []string{"a"}}},
		{"wrong user", dto.SubmitAttemptRequest{UserID: 7, InstanceToken: instance.Token, SelectedKeys: []string{"a"}}},
		{"unknown option key", dto.SubmitAttemptRequest{UserID: 42, InstanceToken: instance.Token, SelectedKeys: []string{"z"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.SubmitAttempt(tt.req); err == nil {
				t.Error("SubmitAttempt succeeded, want error")
			}
		})
	}
	if mastery.calls != 0 {
		t.Errorf("mastery updated %d times by rejected submissions, want 0", mastery.calls)
	}
}
