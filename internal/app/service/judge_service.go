package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"syntax/internal/common"
	"syntax/internal/domain/model"
	"syntax/internal/domain/repository"
	"syntax/internal/judge"
	"syntax/internal/platform/executor"
	"syntax/internal/platform/notify"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// CodeExecutor is the boundary to the external sandboxed execution
// service.
type CodeExecutor interface {
	Execute(ctx context.Context, language, filename, source string) (*executor.Result, error)
}

// RewardLedger persists graded submissions and issues XP exactly once
// per first completion.
type RewardLedger interface {
	FinalizeSubmission(ctx context.Context, sub *model.Submission, challenge *model.Challenge) (*RewardOutcome, error)
}

// BadgeGranter runs the badge rules after a graded submission.
type BadgeGranter interface {
	EvaluateSubmission(ctx context.Context, sub *model.Submission) []string
}

// CompletionNotifier delivers the fire-and-forget completion event.
type CompletionNotifier interface {
	PublishCompletion(ctx context.Context, event notify.CompletionEvent)
}

// JudgeService orchestrates the full grading pass for one submission:
// per test case, format the input, wrap the user's code into a runnable
// program, execute it remotely and compare outputs. Execution calls
// fan out under a bounded semaphore and results are reassembled in
// authored order so the numbered trace stays stable.
type JudgeService struct {
	challengeRepo  repository.ChallengeRepository
	submissionRepo repository.SubmissionRepository
	executor       CodeExecutor
	rewards        RewardLedger
	badges         BadgeGranter
	notifier       CompletionNotifier
	concurrency    int64
	logger         *zap.Logger
}

func NewJudgeService(
	challengeRepo repository.ChallengeRepository,
	submissionRepo repository.SubmissionRepository,
	codeExecutor CodeExecutor,
	rewards RewardLedger,
	badges BadgeGranter,
	notifier CompletionNotifier,
	concurrency int,
	logger *zap.Logger,
) *JudgeService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &JudgeService{
		challengeRepo:  challengeRepo,
		submissionRepo: submissionRepo,
		executor:       codeExecutor,
		rewards:        rewards,
		badges:         badges,
		notifier:       notifier,
		concurrency:    int64(concurrency),
		logger:         logger,
	}
}

type SubmitRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
	Language    string `json:"language"`
}

type RunSummary struct {
	Passed int `json:"passed"`
	Total  int `json:"total"`
}

type RunResult struct {
	Trace   []model.TraceEntry `json:"trace"`
	Summary RunSummary         `json:"summary"`
}

type GradeSummary struct {
	Passed           int  `json:"passed"`
	Total            int  `json:"total"`
	IsCompleted      bool `json:"is_completed"`
	XPAwarded        int  `json:"xp_awarded"`
	AlreadyCompleted bool `json:"already_completed"`
	AttemptCount     int  `json:"attempt_count"`
}

type GradeResult struct {
	Trace   []model.TraceEntry `json:"trace"`
	Summary GradeSummary       `json:"summary"`
}

// RunSubmission grades the visible test cases only. Nothing is
// persisted and no reward is issued.
func (s *JudgeService) RunSubmission(ctx context.Context, req SubmitRequest) (*RunResult, error) {
	challenge, err := s.loadChallenge(ctx, req.ChallengeID, req.Language)
	if err != nil {
		return nil, err
	}

	cases := challenge.VisibleTestCases()
	outcomes := s.judgeCases(ctx, challenge, cases, req.Code, req.Language)
	trace, passed := buildTrace(outcomes)

	return &RunResult{
		Trace:   trace,
		Summary: RunSummary{Passed: passed, Total: len(cases)},
	}, nil
}

// GradeSubmission grades the full test-case set, persists exactly one
// Submission record and forwards first-time completions to the reward
// ledger. The prior-completion lookup happens before grading so the
// award decision is order-independent of this submission's own result.
func (s *JudgeService) GradeSubmission(ctx context.Context, userID string, req SubmitRequest) (*GradeResult, error) {
	challenge, err := s.loadChallenge(ctx, req.ChallengeID, req.Language)
	if err != nil {
		return nil, err
	}

	alreadyCompleted, err := s.submissionRepo.HasCompleted(ctx, userID, challenge.ID)
	if err != nil {
		return nil, common.Errorf("failed to check prior completion: %w", err)
	}
	attempts, err := s.submissionRepo.CountByUserChallenge(ctx, userID, challenge.ID)
	if err != nil {
		return nil, common.Errorf("failed to count attempts: %w", err)
	}

	start := time.Now()
	outcomes := s.judgeCases(ctx, challenge, challenge.TestCases, req.Code, req.Language)
	runtime := time.Since(start).Seconds()

	trace, passed := buildTrace(outcomes)
	total := len(challenge.TestCases)

	sub := &model.Submission{
		ID:              uuid.NewString(),
		UserID:          userID,
		ChallengeID:     challenge.ID,
		Code:            req.Code,
		Language:        req.Language,
		IsCompleted:     passed == total,
		PassedTestCases: passed,
		TotalTestCases:  total,
		Runtime:         runtime,
		CreatedAt:       time.Now().UTC(),
	}

	outcome, err := s.rewards.FinalizeSubmission(ctx, sub, challenge)
	if err != nil {
		return nil, err
	}

	s.badges.EvaluateSubmission(ctx, sub)

	if sub.IsCompleted && !outcome.AlreadyCompleted {
		// Best-effort; a lost event never affects the grade. The event
		// must survive caller disconnects, hence WithoutCancel.
		s.notifier.PublishCompletion(context.WithoutCancel(ctx), notify.CompletionEvent{
			UserID:      userID,
			ChallengeID: challenge.ID,
			XPAwarded:   outcome.XPAwarded,
			CompletedAt: sub.CreatedAt,
		})
	}

	s.logger.Info("submission graded",
		zap.String("submission_id", sub.ID),
		zap.String("user_id", userID),
		zap.String("challenge_id", challenge.ID),
		zap.Int("passed", passed),
		zap.Int("total", total),
		zap.Bool("completed", sub.IsCompleted),
		zap.Int("xp_awarded", outcome.XPAwarded),
	)

	return &GradeResult{
		Trace: trace,
		Summary: GradeSummary{
			Passed:           passed,
			Total:            total,
			IsCompleted:      sub.IsCompleted,
			XPAwarded:        outcome.XPAwarded,
			AlreadyCompleted: alreadyCompleted || outcome.AlreadyCompleted,
			AttemptCount:     attempts + 1,
		},
	}, nil
}

// SubmissionHistory returns the user's append-only attempt history for
// one challenge.
func (s *JudgeService) SubmissionHistory(ctx context.Context, userID, challengeID string, limit, offset int) ([]model.Submission, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.submissionRepo.ListByUserChallenge(ctx, userID, challengeID, limit, offset)
}

// loadChallenge rejects invalid requests before any execution attempt:
// unsupported language, missing or inactive challenge, language outside
// the challenge's supported set.
func (s *JudgeService) loadChallenge(ctx context.Context, challengeID, language string) (*model.Challenge, error) {
	if !judge.Supports(language) {
		return nil, fmt.Errorf("language %q: %w", language, common.ErrUnsupportedLanguage)
	}

	challenge, err := s.challengeRepo.FindByID(ctx, challengeID)
	if err != nil {
		return nil, common.Errorf("challenge %s: %w", challengeID, err)
	}
	if !challenge.IsActive {
		return nil, fmt.Errorf("challenge %s is not active: %w", challenge.ID, common.ErrValidation)
	}
	if !challenge.SupportsLanguage(language) {
		return nil, fmt.Errorf("challenge does not support language %q: %w", language, common.ErrValidation)
	}
	return challenge, nil
}

// caseOutcome is the result of grading one test case, in authored order.
type caseOutcome struct {
	index    int // 1-based
	hidden   bool
	input    string
	expected string
	passed   bool
	actual   string
	execErr  string // non-empty means the case never produced a comparable output
}

func (s *JudgeService) judgeCases(ctx context.Context, challenge *model.Challenge, cases []model.TestCase, code, language string) []caseOutcome {
	sem := semaphore.NewWeighted(s.concurrency)
	var wg sync.WaitGroup
	outcomes := make([]caseOutcome, len(cases))

	for i, tc := range cases {
		if err := sem.Acquire(ctx, 1); err != nil {
			outcomes[i] = caseOutcome{
				index:    i + 1,
				hidden:   tc.Hidden,
				input:    tc.Input,
				expected: tc.Output,
				execErr:  err.Error(),
			}
			continue
		}
		wg.Add(1)
		go func(i int, tc model.TestCase) {
			defer wg.Done()
			defer sem.Release(1)
			outcomes[i] = s.judgeCase(ctx, challenge, tc, i+1, code, language)
		}(i, tc)
	}

	wg.Wait()
	return outcomes
}

func (s *JudgeService) judgeCase(ctx context.Context, challenge *model.Challenge, tc model.TestCase, index int, code, language string) caseOutcome {
	outcome := caseOutcome{
		index:    index,
		hidden:   tc.Hidden,
		input:    tc.Input,
		expected: tc.Output,
	}

	args := judge.FormatArgs(tc.Input, language)
	program, err := judge.BuildProgram(language, challenge.FunctionSignature, args, code)
	if err != nil {
		outcome.execErr = err.Error()
		return outcome
	}

	result, err := s.executor.Execute(ctx, language, program.Filename, program.Source)
	if err != nil {
		s.logger.Warn("execution call failed",
			zap.String("challenge_id", challenge.ID),
			zap.Int("test_case", index),
			zap.Error(err),
		)
		outcome.execErr = err.Error()
		return outcome
	}

	switch {
	case result.CompileError != "":
		outcome.execErr = result.CompileError
	case result.Stderr != "":
		outcome.execErr = result.Stderr
	default:
		outcome.actual = strings.TrimSpace(result.Stdout)
		outcome.passed = judge.OutputsMatch(result.Stdout, tc.Output)
	}
	return outcome
}

// buildTrace turns per-case outcomes into the console trace. Hidden
// cases carry no details; the closing entry is always the summary line.
func buildTrace(outcomes []caseOutcome) ([]model.TraceEntry, int) {
	trace := make([]model.TraceEntry, 0, len(outcomes)+1)
	passed := 0

	for _, o := range outcomes {
		entry := model.TraceEntry{
			Index:  o.index,
			Hidden: o.hidden,
		}

		marker := ""
		if o.hidden {
			marker = " (hidden)"
		}

		switch {
		case o.passed:
			passed++
			entry.Type = model.TraceSuccess
			entry.Message = fmt.Sprintf("Test case %d%s passed", o.index, marker)
		case o.execErr != "":
			entry.Type = model.TraceError
			entry.Message = fmt.Sprintf("Test case %d%s failed", o.index, marker)
			if !o.hidden {
				execErr := o.execErr
				entry.Details = &model.TraceDetails{Input: o.input, Error: &execErr}
			}
		default:
			entry.Type = model.TraceError
			entry.Message = fmt.Sprintf("Test case %d%s failed", o.index, marker)
			if !o.hidden {
				expected, actual := o.expected, o.actual
				entry.Details = &model.TraceDetails{Input: o.input, Expected: &expected, Actual: &actual}
			}
		}
		trace = append(trace, entry)
	}

	trace = append(trace, model.TraceEntry{
		Type:    model.TraceInfo,
		Message: fmt.Sprintf("%d/%d test cases passed", passed, len(outcomes)),
	})
	return trace, passed
}
