package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"syntax/internal/domain/model"
)

type SubmissionRepository interface {
	// Create inserts the finished submission record. tx may be nil for
	// a standalone insert.
	Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error
	ListByUserChallenge(ctx context.Context, userID, challengeID string, limit, offset int) ([]model.Submission, error)
	CountByUserChallenge(ctx context.Context, userID, challengeID string) (int, error)
	// HasCompleted reports whether the user already has a completed
	// submission for the challenge.
	HasCompleted(ctx context.Context, userID, challengeID string) (bool, error)
	// HasCompletedTx is the transactional variant used inside the
	// reward check-then-act; the caller must hold the user row lock.
	HasCompletedTx(ctx context.Context, tx *sql.Tx, userID, challengeID string) (bool, error)
	// HasEarlierFailure reports whether an earlier submission for the
	// same challenge by the same user failed.
	HasEarlierFailure(ctx context.Context, userID, challengeID string, before time.Time) (bool, error)
	// CountSolvedChallenges counts distinct challenges the user has
	// completed at least once.
	CountSolvedChallenges(ctx context.Context, userID string) (int, error)
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, tx *sql.Tx, sub *model.Submission) error {
	query := `INSERT INTO submissions
	          (id, user_id, challenge_id, code, language, is_completed,
	           passed_test_cases, total_test_cases, runtime, xp_awarded, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	args := []interface{}{
		sub.ID, sub.UserID, sub.ChallengeID, sub.Code, sub.Language, sub.IsCompleted,
		sub.PassedTestCases, sub.TotalTestCases, sub.Runtime, sub.XPAwarded, sub.CreatedAt,
	}

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) ListByUserChallenge(ctx context.Context, userID, challengeID string, limit, offset int) ([]model.Submission, error) {
	query := `SELECT id, user_id, challenge_id, code, language, is_completed,
	                 passed_test_cases, total_test_cases, runtime, xp_awarded, created_at
	          FROM submissions
	          WHERE user_id = $1 AND challenge_id = $2
	          ORDER BY created_at DESC
	          LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, userID, challengeID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.ListByUserChallenge: %w", err)
	}
	defer rows.Close()

	var subs []model.Submission
	for rows.Next() {
		var sub model.Submission
		if err := rows.Scan(
			&sub.ID, &sub.UserID, &sub.ChallengeID, &sub.Code, &sub.Language,
			&sub.IsCompleted, &sub.PassedTestCases, &sub.TotalTestCases,
			&sub.Runtime, &sub.XPAwarded, &sub.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.ListByUserChallenge: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *pgSubmissionRepository) CountByUserChallenge(ctx context.Context, userID, challengeID string) (int, error) {
	query := `SELECT COUNT(*) FROM submissions WHERE user_id = $1 AND challenge_id = $2`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID, challengeID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.CountByUserChallenge: %w", err)
	}
	return count, nil
}

func (r *pgSubmissionRepository) HasCompleted(ctx context.Context, userID, challengeID string) (bool, error) {
	query := `SELECT EXISTS(
	            SELECT 1 FROM submissions
	            WHERE user_id = $1 AND challenge_id = $2 AND is_completed = TRUE)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, challengeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgSubmissionRepository.HasCompleted: %w", err)
	}
	return exists, nil
}

func (r *pgSubmissionRepository) HasCompletedTx(ctx context.Context, tx *sql.Tx, userID, challengeID string) (bool, error) {
	query := `SELECT EXISTS(
	            SELECT 1 FROM submissions
	            WHERE user_id = $1 AND challenge_id = $2 AND is_completed = TRUE)`
	var exists bool
	if err := tx.QueryRowContext(ctx, query, userID, challengeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgSubmissionRepository.HasCompletedTx: %w", err)
	}
	return exists, nil
}

func (r *pgSubmissionRepository) CountSolvedChallenges(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(DISTINCT challenge_id) FROM submissions
	          WHERE user_id = $1 AND is_completed = TRUE`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("pgSubmissionRepository.CountSolvedChallenges: %w", err)
	}
	return count, nil
}

func (r *pgSubmissionRepository) HasEarlierFailure(ctx context.Context, userID, challengeID string, before time.Time) (bool, error) {
	query := `SELECT EXISTS(
	            SELECT 1 FROM submissions
	            WHERE user_id = $1 AND challenge_id = $2
	              AND is_completed = FALSE AND created_at < $3)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, userID, challengeID, before).Scan(&exists); err != nil {
		return false, fmt.Errorf("pgSubmissionRepository.HasEarlierFailure: %w", err)
	}
	return exists, nil
}
