package service

import (
	"context"
	"errors"

	"syntax/internal/common"
	"syntax/internal/domain/model"
	"syntax/internal/domain/repository"

	"go.uber.org/zap"
)

const (
	BadgeFastSolver      = "Fast Solver"
	BadgeMidnightCoder   = "Midnight Coder"
	BadgeDebuggingMaster = "Debugging Master"

	// fastSolveThresholdSeconds is the full-pass runtime bound for the
	// speed badge.
	fastSolveThresholdSeconds = 30.0
	// The off-hours window is 00:00 through 03:00 inclusive.
	overnightEndHour = 3
)

// BadgeRule is one independent post-submission predicate. Rules are
// evaluated in a fixed order; each grant is idempotent through the
// unique (user, badge) constraint.
type BadgeRule struct {
	BadgeTitle string
	Evaluate   func(ctx context.Context, sub *model.Submission) (bool, error)
}

type BadgeService struct {
	badgeRepo      repository.BadgeRepository
	submissionRepo repository.SubmissionRepository
	logger         *zap.Logger
	rules          []BadgeRule
}

func NewBadgeService(
	badgeRepo repository.BadgeRepository,
	submissionRepo repository.SubmissionRepository,
	logger *zap.Logger,
) *BadgeService {
	s := &BadgeService{
		badgeRepo:      badgeRepo,
		submissionRepo: submissionRepo,
		logger:         logger,
	}
	s.rules = []BadgeRule{
		{BadgeTitle: BadgeFastSolver, Evaluate: s.fastSolve},
		{BadgeTitle: BadgeMidnightCoder, Evaluate: s.offHours},
		{BadgeTitle: BadgeDebuggingMaster, Evaluate: s.recoveredFromFailure},
	}
	return s
}

// EvaluateSubmission runs every rule against the submission and grants
// the matching badges. A failing rule is logged and skipped; badge
// evaluation never fails the grading call. Returns the titles granted
// for the first time.
func (s *BadgeService) EvaluateSubmission(ctx context.Context, sub *model.Submission) []string {
	var granted []string
	for _, rule := range s.rules {
		matched, err := rule.Evaluate(ctx, sub)
		if err != nil {
			s.logger.Warn("badge rule evaluation failed",
				zap.String("badge", rule.BadgeTitle),
				zap.String("submission_id", sub.ID),
				zap.Error(err),
			)
			continue
		}
		if !matched {
			continue
		}

		badge, err := s.badgeRepo.FindActiveByTitle(ctx, rule.BadgeTitle)
		if err != nil {
			if !errors.Is(err, common.ErrNotFound) {
				s.logger.Warn("badge lookup failed",
					zap.String("badge", rule.BadgeTitle), zap.Error(err))
			}
			// Unknown or inactive badge: rule is skipped entirely.
			continue
		}

		inserted, err := s.badgeRepo.Grant(ctx, sub.UserID, badge.ID)
		if err != nil {
			s.logger.Warn("badge grant failed",
				zap.String("badge", rule.BadgeTitle), zap.Error(err))
			continue
		}
		if inserted {
			granted = append(granted, badge.Title)
			s.logger.Info("badge granted",
				zap.String("user_id", sub.UserID),
				zap.String("badge", badge.Title),
			)
		}
	}
	return granted
}

func (s *BadgeService) ListUserBadges(ctx context.Context, userID string) ([]model.UserBadge, error) {
	return s.badgeRepo.ListByUser(ctx, userID)
}

func (s *BadgeService) fastSolve(_ context.Context, sub *model.Submission) (bool, error) {
	return sub.Runtime > 0 && sub.Runtime <= fastSolveThresholdSeconds, nil
}

func (s *BadgeService) offHours(_ context.Context, sub *model.Submission) (bool, error) {
	t := sub.CreatedAt
	if t.Hour() < overnightEndHour {
		return true, nil
	}
	return t.Hour() == overnightEndHour && t.Minute() == 0 && t.Second() == 0, nil
}

func (s *BadgeService) recoveredFromFailure(ctx context.Context, sub *model.Submission) (bool, error) {
	if !sub.IsCompleted || sub.PassedTestCases != sub.TotalTestCases {
		return false, nil
	}
	return s.submissionRepo.HasEarlierFailure(ctx, sub.UserID, sub.ChallengeID, sub.CreatedAt)
}
