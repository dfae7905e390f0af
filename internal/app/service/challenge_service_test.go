package service

import (
	"context"
	"errors"
	"testing"

	"syntax/internal/common"
	"syntax/internal/domain/model"
)

func validCreateRequest() CreateChallengeRequest {
	return CreateChallengeRequest{
		Title:             "Sum of Two",
		Description:       "Add two numbers.",
		Difficulty:        model.DifficultyEasy,
		FunctionSignature: "add",
		Languages:         []string{"python", "javascript"},
		XPReward:          50,
		TestCases: []model.TestCase{
			{Input: "[1, 2]", Output: "3"},
			{Input: "[5, 5]", Output: "10", Hidden: true},
		},
	}
}

func TestCreateChallenge(t *testing.T) {
	repo := &fakeChallengeRepo{}
	svc := NewChallengeService(repo)

	challenge, err := svc.CreateChallenge(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if challenge.ID == "" {
		t.Error("challenge id not set")
	}
	if !challenge.IsActive {
		t.Error("new challenge should be active")
	}
	if len(repo.created) != 1 || repo.created[0] != challenge {
		t.Fatalf("expected one persisted challenge, got %d", len(repo.created))
	}
	if len(repo.created[0].TestCases) != 2 {
		t.Errorf("test cases = %d, want 2", len(repo.created[0].TestCases))
	}
}

func TestCreateChallengeValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateChallengeRequest)
		wantErr error
	}{
		{"missing title", func(r *CreateChallengeRequest) { r.Title = "" }, common.ErrBadRequest},
		{"missing description", func(r *CreateChallengeRequest) { r.Description = "" }, common.ErrBadRequest},
		{"missing signature", func(r *CreateChallengeRequest) { r.FunctionSignature = "" }, common.ErrBadRequest},
		{"no test cases", func(r *CreateChallengeRequest) { r.TestCases = nil }, common.ErrBadRequest},
		{"no languages", func(r *CreateChallengeRequest) { r.Languages = nil }, common.ErrBadRequest},
		{"zero xp reward", func(r *CreateChallengeRequest) { r.XPReward = 0 }, common.ErrBadRequest},
		{"unknown language", func(r *CreateChallengeRequest) { r.Languages = []string{"python", "ruby"} }, common.ErrUnsupportedLanguage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeChallengeRepo{}
			svc := NewChallengeService(repo)

			req := validCreateRequest()
			tc.mutate(&req)

			_, err := svc.CreateChallenge(context.Background(), req)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error = %v, want %v", err, tc.wantErr)
			}
			if len(repo.created) != 0 {
				t.Error("invalid request was persisted")
			}
		})
	}
}

func TestGetChallengeHiddenVisibility(t *testing.T) {
	repo := &fakeChallengeRepo{challenge: testChallenge()}
	svc := NewChallengeService(repo)

	userView, err := svc.GetChallenge(context.Background(), "ch-1", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(userView.TestCases) != 1 || userView.TestCases[0].Hidden {
		t.Errorf("user view test cases = %+v, want visible only", userView.TestCases)
	}

	repo.challenge = testChallenge()
	staffView, err := svc.GetChallenge(context.Background(), "ch-1", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(staffView.TestCases) != 2 {
		t.Errorf("staff view test cases = %d, want 2", len(staffView.TestCases))
	}
}
