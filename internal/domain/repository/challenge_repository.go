package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"syntax/internal/common"
	"syntax/internal/domain/model"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgconn"
)

type ChallengeRepository interface {
	FindByID(ctx context.Context, id string) (*model.Challenge, error)
	ListActive(ctx context.Context) ([]model.Challenge, error)
	Create(ctx context.Context, challenge *model.Challenge) error
}

type pgChallengeRepository struct {
	db *sql.DB
}

func NewPgChallengeRepository(db *sql.DB) ChallengeRepository {
	return &pgChallengeRepository{db: db}
}

const challengeColumns = `id, title, slug, description, instructions, difficulty,
	test_cases, function_signature, languages, xp_reward, is_active, created_at`

func (r *pgChallengeRepository) FindByID(ctx context.Context, id string) (*model.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges WHERE id = $1`
	challenge, err := scanChallenge(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgChallengeRepository.FindByID: %w", err)
	}
	return challenge, nil
}

func (r *pgChallengeRepository) ListActive(ctx context.Context) ([]model.Challenge, error) {
	query := `SELECT ` + challengeColumns + ` FROM challenges
	          WHERE is_active = TRUE ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgChallengeRepository.ListActive: %w", err)
	}
	defer rows.Close()

	var challenges []model.Challenge
	for rows.Next() {
		challenge, err := scanChallenge(rows)
		if err != nil {
			return nil, fmt.Errorf("pgChallengeRepository.ListActive: %w", err)
		}
		challenges = append(challenges, *challenge)
	}
	return challenges, rows.Err()
}

func (r *pgChallengeRepository) Create(ctx context.Context, challenge *model.Challenge) error {
	challenge.Slug = slug.Make(challenge.Title)

	testCases, err := json.Marshal(challenge.TestCases)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Create: marshal test cases: %w", err)
	}
	languages, err := json.Marshal(challenge.Languages)
	if err != nil {
		return fmt.Errorf("pgChallengeRepository.Create: marshal languages: %w", err)
	}

	query := `INSERT INTO challenges
	          (id, title, slug, description, instructions, difficulty, test_cases,
	           function_signature, languages, xp_reward, is_active)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = r.db.ExecContext(ctx, query,
		challenge.ID, challenge.Title, challenge.Slug, challenge.Description,
		challenge.Instructions, challenge.Difficulty, testCases,
		challenge.FunctionSignature, languages, challenge.XPReward, challenge.IsActive,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("challenge with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgChallengeRepository.Create: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanChallenge(row rowScanner) (*model.Challenge, error) {
	challenge := &model.Challenge{}
	var testCases, languages []byte
	err := row.Scan(
		&challenge.ID, &challenge.Title, &challenge.Slug, &challenge.Description,
		&challenge.Instructions, &challenge.Difficulty, &testCases,
		&challenge.FunctionSignature, &languages, &challenge.XPReward,
		&challenge.IsActive, &challenge.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(testCases, &challenge.TestCases); err != nil {
		return nil, fmt.Errorf("unmarshal test cases: %w", err)
	}
	if err := json.Unmarshal(languages, &challenge.Languages); err != nil {
		return nil, fmt.Errorf("unmarshal languages: %w", err)
	}
	return challenge, nil
}
