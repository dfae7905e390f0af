package service

import (
	"context"
	"fmt"

	"syntax/internal/common"
	"syntax/internal/domain/model"
	"syntax/internal/domain/repository"
	"syntax/internal/judge"

	"github.com/google/uuid"
)

// ChallengeService is the surface over the challenge catalog: reads
// for everyone, creation for admins. Moderation workflows live outside
// this core.
type ChallengeService struct {
	challengeRepo repository.ChallengeRepository
}

func NewChallengeService(challengeRepo repository.ChallengeRepository) *ChallengeService {
	return &ChallengeService{challengeRepo: challengeRepo}
}

type CreateChallengeRequest struct {
	Title             string                    `json:"title"`
	Description       string                    `json:"description"`
	Instructions      string                    `json:"instructions"`
	Difficulty        model.ChallengeDifficulty `json:"difficulty"`
	TestCases         []model.TestCase          `json:"test_cases"`
	FunctionSignature string                    `json:"function_signature"`
	Languages         []string                  `json:"languages"`
	XPReward          int                       `json:"xp_reward"`
}

// CreateChallenge validates and persists a new catalog entry. The slug
// is derived from the title in the repository.
func (s *ChallengeService) CreateChallenge(ctx context.Context, req CreateChallengeRequest) (*model.Challenge, error) {
	if req.Title == "" || req.Description == "" || req.FunctionSignature == "" ||
		len(req.TestCases) == 0 || len(req.Languages) == 0 || req.XPReward <= 0 {
		return nil, common.Errorf("missing required fields for challenge creation: %w", common.ErrBadRequest)
	}
	for _, lang := range req.Languages {
		if !judge.Supports(lang) {
			return nil, fmt.Errorf("language %q: %w", lang, common.ErrUnsupportedLanguage)
		}
	}

	challenge := &model.Challenge{
		ID:                uuid.NewString(),
		Title:             req.Title,
		Description:       req.Description,
		Instructions:      req.Instructions,
		Difficulty:        req.Difficulty,
		TestCases:         req.TestCases,
		FunctionSignature: req.FunctionSignature,
		Languages:         req.Languages,
		XPReward:          req.XPReward,
		IsActive:          true,
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return nil, err
	}
	return challenge, nil
}

func (s *ChallengeService) ListActive(ctx context.Context) ([]model.Challenge, error) {
	challenges, err := s.challengeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	for i := range challenges {
		challenges[i].TestCases = challenges[i].VisibleTestCases()
	}
	return challenges, nil
}

// GetChallenge returns the challenge. Hidden test cases are stripped
// unless includeHidden is set; only staff callers see them raw.
func (s *ChallengeService) GetChallenge(ctx context.Context, id string, includeHidden bool) (*model.Challenge, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !includeHidden {
		challenge.TestCases = challenge.VisibleTestCases()
	}
	return challenge, nil
}
