package service

import (
	"context"
	"testing"
	"time"

	"syntax/internal/common"
	"syntax/internal/domain/model"

	"go.uber.org/zap"
)

type fakeBadgeRepo struct {
	badges  map[string]*model.Badge
	granted map[string]bool
}

func newFakeBadgeRepo(titles ...string) *fakeBadgeRepo {
	repo := &fakeBadgeRepo{
		badges:  make(map[string]*model.Badge),
		granted: make(map[string]bool),
	}
	for i, title := range titles {
		repo.badges[title] = &model.Badge{
			ID:       "badge-" + string(rune('a'+i)),
			Title:    title,
			IsActive: true,
		}
	}
	return repo
}

func (f *fakeBadgeRepo) FindActiveByTitle(_ context.Context, title string) (*model.Badge, error) {
	badge, ok := f.badges[title]
	if !ok || !badge.IsActive {
		return nil, common.ErrNotFound
	}
	return badge, nil
}

func (f *fakeBadgeRepo) Grant(_ context.Context, userID, badgeID string) (bool, error) {
	key := userID + "/" + badgeID
	if f.granted[key] {
		return false, nil
	}
	f.granted[key] = true
	return true, nil
}

func (f *fakeBadgeRepo) ListByUser(context.Context, string) ([]model.UserBadge, error) {
	return nil, nil
}

func badgeFixture(repo *fakeBadgeRepo, subs *fakeSubmissionRepo) *BadgeService {
	return NewBadgeService(repo, subs, zap.NewNop())
}

// A daytime submission outside every badge window.
func neutralSubmission() *model.Submission {
	return &model.Submission{
		ID:              "sub-1",
		UserID:          "user-1",
		ChallengeID:     "ch-1",
		IsCompleted:     false,
		PassedTestCases: 1,
		TotalTestCases:  2,
		Runtime:         120,
		CreatedAt:       time.Date(2026, 6, 1, 14, 30, 0, 0, time.UTC),
	}
}

func TestFastSolverThreshold(t *testing.T) {
	tests := []struct {
		name    string
		runtime float64
		want    bool
	}{
		{"well under threshold", 4.2, true},
		{"exactly at threshold", 30.0, true},
		{"just over threshold", 30.001, false},
		{"zero runtime excluded", 0, false},
		{"slow solve", 95, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeBadgeRepo(BadgeFastSolver)
			svc := badgeFixture(repo, &fakeSubmissionRepo{})

			sub := neutralSubmission()
			sub.Runtime = tc.runtime

			granted := svc.EvaluateSubmission(context.Background(), sub)
			got := len(granted) == 1 && granted[0] == BadgeFastSolver
			if got != tc.want {
				t.Errorf("granted = %v, want grant=%v", granted, tc.want)
			}
		})
	}
}

func TestMidnightCoderWindow(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"midnight", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"middle of window", time.Date(2026, 6, 1, 1, 45, 10, 0, time.UTC), true},
		{"just before close", time.Date(2026, 6, 1, 2, 59, 59, 0, time.UTC), true},
		{"window end inclusive", time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC), true},
		{"just past close", time.Date(2026, 6, 1, 3, 0, 1, 0, time.UTC), false},
		{"early morning", time.Date(2026, 6, 1, 6, 0, 0, 0, time.UTC), false},
		{"late evening", time.Date(2026, 6, 1, 23, 59, 0, 0, time.UTC), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeBadgeRepo(BadgeMidnightCoder)
			svc := badgeFixture(repo, &fakeSubmissionRepo{})

			sub := neutralSubmission()
			sub.CreatedAt = tc.at

			granted := svc.EvaluateSubmission(context.Background(), sub)
			got := len(granted) == 1 && granted[0] == BadgeMidnightCoder
			if got != tc.want {
				t.Errorf("granted = %v at %s, want grant=%v", granted, tc.at, tc.want)
			}
		})
	}
}

func TestDebuggingMaster(t *testing.T) {
	tests := []struct {
		name           string
		completed      bool
		passed, total  int
		earlierFailure bool
		want           bool
	}{
		{"full pass after earlier failure", true, 2, 2, true, true},
		{"full pass on first try", true, 2, 2, false, false},
		{"partial pass after earlier failure", false, 1, 2, true, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeBadgeRepo(BadgeDebuggingMaster)
			svc := badgeFixture(repo, &fakeSubmissionRepo{earlierFailure: tc.earlierFailure})

			sub := neutralSubmission()
			sub.IsCompleted = tc.completed
			sub.PassedTestCases = tc.passed
			sub.TotalTestCases = tc.total

			granted := svc.EvaluateSubmission(context.Background(), sub)
			got := len(granted) == 1 && granted[0] == BadgeDebuggingMaster
			if got != tc.want {
				t.Errorf("granted = %v, want grant=%v", granted, tc.want)
			}
		})
	}
}

func TestBadgeGrantIdempotent(t *testing.T) {
	repo := newFakeBadgeRepo(BadgeFastSolver)
	svc := badgeFixture(repo, &fakeSubmissionRepo{})

	sub := neutralSubmission()
	sub.Runtime = 10

	first := svc.EvaluateSubmission(context.Background(), sub)
	if len(first) != 1 {
		t.Fatalf("first evaluation granted %v", first)
	}
	second := svc.EvaluateSubmission(context.Background(), sub)
	if len(second) != 0 {
		t.Errorf("second evaluation granted %v, want none", second)
	}
}

func TestInactiveBadgeSkipped(t *testing.T) {
	repo := newFakeBadgeRepo(BadgeFastSolver)
	repo.badges[BadgeFastSolver].IsActive = false
	svc := badgeFixture(repo, &fakeSubmissionRepo{})

	sub := neutralSubmission()
	sub.Runtime = 10

	granted := svc.EvaluateSubmission(context.Background(), sub)
	if len(granted) != 0 {
		t.Errorf("inactive badge granted: %v", granted)
	}
}

func TestMultipleBadgesInOneEvaluation(t *testing.T) {
	repo := newFakeBadgeRepo(BadgeFastSolver, BadgeMidnightCoder, BadgeDebuggingMaster)
	svc := badgeFixture(repo, &fakeSubmissionRepo{earlierFailure: true})

	sub := neutralSubmission()
	sub.IsCompleted = true
	sub.PassedTestCases = 2
	sub.TotalTestCases = 2
	sub.Runtime = 12
	sub.CreatedAt = time.Date(2026, 6, 1, 1, 15, 0, 0, time.UTC)

	granted := svc.EvaluateSubmission(context.Background(), sub)
	if len(granted) != 3 {
		t.Fatalf("granted = %v, want all three", granted)
	}
	// Rule order is fixed.
	want := []string{BadgeFastSolver, BadgeMidnightCoder, BadgeDebuggingMaster}
	for i, title := range want {
		if granted[i] != title {
			t.Errorf("granted[%d] = %q, want %q", i, granted[i], title)
		}
	}
}
