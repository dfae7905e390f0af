package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"syntax/internal/common"
	"syntax/internal/domain/model"

	"github.com/google/uuid"
)

type BadgeRepository interface {
	// FindActiveByTitle returns ErrNotFound for unknown or inactive
	// badges; rule evaluation skips those.
	FindActiveByTitle(ctx context.Context, title string) (*model.Badge, error)
	// Grant inserts a (user, badge) grant. Returns false when the pair
	// already exists; the unique constraint makes grants idempotent.
	Grant(ctx context.Context, userID, badgeID string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.UserBadge, error)
}

type pgBadgeRepository struct {
	db *sql.DB
}

func NewPgBadgeRepository(db *sql.DB) BadgeRepository {
	return &pgBadgeRepository{db: db}
}

func (r *pgBadgeRepository) FindActiveByTitle(ctx context.Context, title string) (*model.Badge, error) {
	query := `SELECT id, title, description, is_active, created_at
	          FROM badges WHERE LOWER(title) = LOWER($1) AND is_active = TRUE`
	badge := &model.Badge{}
	err := r.db.QueryRowContext(ctx, query, title).Scan(
		&badge.ID, &badge.Title, &badge.Description, &badge.IsActive, &badge.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgBadgeRepository.FindActiveByTitle: %w", err)
	}
	return badge, nil
}

func (r *pgBadgeRepository) Grant(ctx context.Context, userID, badgeID string) (bool, error) {
	query := `INSERT INTO user_badges (id, user_id, badge_id)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (user_id, badge_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, uuid.NewString(), userID, badgeID)
	if err != nil {
		return false, fmt.Errorf("pgBadgeRepository.Grant: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("pgBadgeRepository.Grant: %w", err)
	}
	return affected > 0, nil
}

func (r *pgBadgeRepository) ListByUser(ctx context.Context, userID string) ([]model.UserBadge, error) {
	query := `SELECT ub.id, ub.user_id, ub.badge_id, b.title, ub.awarded_at
	          FROM user_badges ub
	          JOIN badges b ON b.id = ub.badge_id
	          WHERE ub.user_id = $1
	          ORDER BY ub.awarded_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgBadgeRepository.ListByUser: %w", err)
	}
	defer rows.Close()

	var grants []model.UserBadge
	for rows.Next() {
		var grant model.UserBadge
		if err := rows.Scan(&grant.ID, &grant.UserID, &grant.BadgeID, &grant.BadgeTitle, &grant.AwardedAt); err != nil {
			return nil, fmt.Errorf("pgBadgeRepository.ListByUser: %w", err)
		}
		grants = append(grants, grant)
	}
	return grants, rows.Err()
}
