package model

import "time"

// Submission is an append-only record of one graded attempt.
// It is created once, after the full judging pass, and never mutated.
type Submission struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	ChallengeID     string    `json:"challenge_id"`
	Code            string    `json:"code"`
	Language        string    `json:"language"`
	IsCompleted     bool      `json:"is_completed"`
	PassedTestCases int       `json:"passed_test_cases"`
	TotalTestCases  int       `json:"total_test_cases"`
	Runtime         float64   `json:"runtime"` // wall-clock seconds for the full judging pass
	XPAwarded       int       `json:"xp_awarded"`
	CreatedAt       time.Time `json:"created_at"`
}
