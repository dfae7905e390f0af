package service

import (
	"context"
	"database/sql"
	"time"

	"syntax/internal/common"
	"syntax/internal/domain/model"
	"syntax/internal/domain/repository"

	"go.uber.org/zap"
)

// RewardOutcome reports what the ledger decided for one submission.
type RewardOutcome struct {
	XPAwarded        int
	AlreadyCompleted bool
}

// RewardService owns the persistence of graded submissions and the
// exactly-once issuance of XP and streak updates. The first-completion
// check and the award run in one transaction, serialized per user by a
// row lock, so concurrent submissions cannot double-award.
type RewardService struct {
	userRepo       repository.UserRepository
	submissionRepo repository.SubmissionRepository
	db             *sql.DB
	logger         *zap.Logger
}

func NewRewardService(
	userRepo repository.UserRepository,
	submissionRepo repository.SubmissionRepository,
	db *sql.DB,
	logger *zap.Logger,
) *RewardService {
	return &RewardService{
		userRepo:       userRepo,
		submissionRepo: submissionRepo,
		db:             db,
		logger:         logger,
	}
}

// FinalizeSubmission persists the submission and, if this is the user's
// first completion of the challenge, grants the challenge's XP reward
// and updates streak state. The submission's XPAwarded field is set
// before the insert so the record is immutable afterwards.
func (s *RewardService) FinalizeSubmission(ctx context.Context, sub *model.Submission, challenge *model.Challenge) (*RewardOutcome, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	outcome := &RewardOutcome{}

	if sub.IsCompleted {
		// Lock the user row first; this serializes the check-then-act
		// for concurrent submissions by the same user.
		user, err := s.userRepo.FindForUpdate(ctx, tx, sub.UserID)
		if err != nil {
			return nil, common.Errorf("failed to lock user %s: %w", sub.UserID, err)
		}

		already, err := s.submissionRepo.HasCompletedTx(ctx, tx, sub.UserID, sub.ChallengeID)
		if err != nil {
			return nil, common.Errorf("failed to check prior completion: %w", err)
		}
		outcome.AlreadyCompleted = already

		if !already {
			outcome.XPAwarded = challenge.XPReward
			current, longest := NextStreak(user.CurrentStreak, user.LongestStreak, user.LastSolvedDate, sub.CreatedAt)
			err := s.userRepo.UpdateProgress(ctx, tx, user.ID,
				user.XP+challenge.XPReward, current, longest, dateOf(sub.CreatedAt))
			if err != nil {
				return nil, common.Errorf("failed to update user progress: %w", err)
			}
			s.logger.Info("xp awarded",
				zap.String("user_id", user.ID),
				zap.String("challenge_id", sub.ChallengeID),
				zap.Int("xp", challenge.XPReward),
				zap.Int("current_streak", current),
			)
		}
	}

	sub.XPAwarded = outcome.XPAwarded
	if err := s.submissionRepo.Create(ctx, tx, sub); err != nil {
		return nil, common.Errorf("failed to persist submission: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit reward transaction: %w", err)
	}
	return outcome, nil
}

// NextStreak computes the streak values after a completion at now.
// Same-day completions leave the streak untouched, a completion exactly
// one day after the last solve extends it, anything else resets it to 1.
// The longest streak is the running maximum and never decreases.
func NextStreak(current, longest int, lastSolved *time.Time, now time.Time) (int, int) {
	today := dateOf(now)

	switch {
	case lastSolved == nil:
		current = 1
	case dateOf(*lastSolved).Equal(today):
		// already counted today
	case dateOf(*lastSolved).Equal(today.AddDate(0, 0, -1)):
		current++
	default:
		current = 1
	}

	if current > longest {
		longest = current
	}
	return current, longest
}

func dateOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
