package model

import "time"

// Badge is a named achievement rule in the catalog. Inactive badges
// are skipped during evaluation.
type Badge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserBadge is a unique (user, badge) grant. The uniqueness constraint
// is what makes badge evaluation idempotent.
type UserBadge struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	BadgeID    string    `json:"badge_id"`
	BadgeTitle string    `json:"badge_title,omitempty"`
	AwardedAt  time.Time `json:"awarded_at"`
}
