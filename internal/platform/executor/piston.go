// Package executor is the client for the external sandboxed execution
// service. The wire format follows the Piston execute API.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"syntax/internal/common"

	"go.uber.org/zap"
)

// Result is the outcome of one compile-and-run call. CompileError is
// distinct from a runtime Stderr: a non-empty CompileError means the
// program never ran.
type Result struct {
	Stdout       string
	Stderr       string
	CompileError string
}

type executeRequest struct {
	Language string        `json:"language"`
	Version  string        `json:"version"`
	Files    []executeFile `json:"files"`
}

type executeFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type outputBlock struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

type executeResponse struct {
	Run     outputBlock  `json:"run"`
	Compile *outputBlock `json:"compile,omitempty"`
}

type Client struct {
	url        string
	httpClient *http.Client
	maxRetries int
	logger     *zap.Logger
}

func NewClient(url string, timeout time.Duration, maxRetries int, logger *zap.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Execute sends one program to the execution service. Transport
// failures are retried with backoff up to maxRetries; a response from
// the service, whatever the program did, is returned as-is. Errors
// from Execute mean the service was unreachable and are reported as an
// ERROR outcome for the single test case, never as a submission-wide
// failure.
func (c *Client) Execute(ctx context.Context, language, filename, source string) (*Result, error) {
	body, err := json.Marshal(executeRequest{
		Language: language,
		Version:  "*",
		Files:    []executeFile{{Name: filename, Content: source}},
	})
	if err != nil {
		return nil, fmt.Errorf("executor: marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("retrying execution call",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
		}

		result, err := c.doExecute(ctx, body)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}

	return nil, fmt.Errorf("execution service unreachable after %d attempts: %w: %w",
		c.maxRetries+1, common.ErrServiceUnavailable, lastErr)
}

func (c *Client) doExecute(ctx context.Context, body []byte) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("executor: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executor: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("executor: unexpected status %d: %s", resp.StatusCode, string(payload))
	}

	var decoded executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("executor: decode response: %w", err)
	}

	result := &Result{
		Stdout: decoded.Run.Stdout,
		Stderr: decoded.Run.Stderr,
	}
	if decoded.Compile != nil {
		result.CompileError = decoded.Compile.Stderr
	}
	return result, nil
}
