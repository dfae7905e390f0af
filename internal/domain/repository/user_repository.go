package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"syntax/internal/common"
	"syntax/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	// FindForUpdate loads the user row with a row lock, serializing
	// concurrent reward updates for the same user.
	FindForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.User, error)
	// UpdateProgress writes the XP/streak aggregate. Must run in the
	// same transaction as the first-completion check.
	UpdateProgress(ctx context.Context, tx *sql.Tx, id string, xp, currentStreak, longestStreak int, lastSolvedDate time.Time) error
}

type pgUserRepository struct {
	db *sql.DB
}

func NewPgUserRepository(db *sql.DB) UserRepository {
	return &pgUserRepository{db: db}
}

const userColumns = `id, username, email, hashed_password, role, xp,
	current_streak, longest_streak, last_solved_date, created_at, updated_at`

func (r *pgUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `INSERT INTO users (id, username, email, hashed_password, role)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Username, user.Email, user.HashedPassword, user.Role)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("user with given username or email already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgUserRepository.Create: %w", err)
	}
	return nil
}

func (r *pgUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email, "FindByEmail")
}

func (r *pgUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username, "FindByUsername")
}

func (r *pgUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id, "FindByID")
}

func (r *pgUserRepository) findOne(ctx context.Context, query, arg, method string) (*model.User, error) {
	user := &model.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.Role,
		&user.XP, &user.CurrentStreak, &user.LongestStreak, &user.LastSolvedDate,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.%s: %w", method, err)
	}
	return user, nil
}

func (r *pgUserRepository) FindForUpdate(ctx context.Context, tx *sql.Tx, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	user := &model.User{}
	err := tx.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Email, &user.HashedPassword, &user.Role,
		&user.XP, &user.CurrentStreak, &user.LongestStreak, &user.LastSolvedDate,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgUserRepository.FindForUpdate: %w", err)
	}
	return user, nil
}

func (r *pgUserRepository) UpdateProgress(ctx context.Context, tx *sql.Tx, id string, xp, currentStreak, longestStreak int, lastSolvedDate time.Time) error {
	query := `UPDATE users
	          SET xp = $2, current_streak = $3, longest_streak = $4,
	              last_solved_date = $5, updated_at = NOW()
	          WHERE id = $1`
	_, err := tx.ExecContext(ctx, query, id, xp, currentStreak, longestStreak, lastSolvedDate)
	if err != nil {
		return fmt.Errorf("pgUserRepository.UpdateProgress: %w", err)
	}
	return nil
}
