package model

import "time"

type ChallengeDifficulty string

const (
	DifficultyEasy   ChallengeDifficulty = "easy"
	DifficultyMedium ChallengeDifficulty = "medium"
	DifficultyHard   ChallengeDifficulty = "hard"
)

// TestCase input is a JSON-encoded value (string/number/list/bool).
// Hidden cases are only evaluated at submit time and never shown raw.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Hidden bool   `json:"hidden"`
}

type Challenge struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Slug              string              `json:"slug"`
	Description       string              `json:"description"`
	Instructions      string              `json:"instructions,omitempty"`
	Difficulty        ChallengeDifficulty `json:"difficulty"`
	TestCases         []TestCase          `json:"test_cases,omitempty"`
	FunctionSignature string              `json:"function_signature"`
	Languages         []string            `json:"languages"`
	XPReward          int                 `json:"xp_reward"`
	IsActive          bool                `json:"is_active"`
	CreatedAt         time.Time           `json:"created_at"`
}

// SupportsLanguage reports whether the challenge accepts submissions
// in the given language.
func (c *Challenge) SupportsLanguage(language string) bool {
	for _, l := range c.Languages {
		if l == language {
			return true
		}
	}
	return false
}

// VisibleTestCases returns the cases shown to users before submitting.
func (c *Challenge) VisibleTestCases() []TestCase {
	var visible []TestCase
	for _, tc := range c.TestCases {
		if !tc.Hidden {
			visible = append(visible, tc)
		}
	}
	return visible
}
