// Package reporter runs the reporter node: a scheduled fetch of the latest
// closed-bucket price, submitted through the same path external reporters use.
package reporter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/btcfi/oracle-aggregator/pkg/server/aggregator"
)

// Submitter delivers a price submission to an aggregation engine, local or
// remote.
type Submitter interface {
	Submit(ctx context.Context, sub aggregator.Submission) error
}

// EngineSubmitter submits directly to an in-process engine.
type EngineSubmitter struct {
	engine *aggregator.Engine
}

// NewEngineSubmitter wraps an in-process engine.
func NewEngineSubmitter(engine *aggregator.Engine) *EngineSubmitter {
	return &EngineSubmitter{engine: engine}
}

// Submit appends the submission to the local engine.
func (s *EngineSubmitter) Submit(_ context.Context, sub aggregator.Submission) error {
	s.engine.Submit(sub)
	return nil
}

// HTTPSubmitter submits to a remote aggregation server.
type HTTPSubmitter struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSubmitter creates a submitter posting to the given server base URL.
func NewHTTPSubmitter(baseURL string, timeout time.Duration) *HTTPSubmitter {
	return &HTTPSubmitter{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// submitResult is the subset of the server response the submitter cares about.
type submitResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Submit posts the submission to the server's price endpoint.
func (s *HTTPSubmitter) Submit(ctx context.Context, sub aggregator.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	url := s.baseURL + "/v1/prices"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: server returned %d: %s", ErrSubmitRejected, resp.StatusCode, string(raw))
	}

	var result submitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", ErrSubmitRejected, result.Message)
	}
	return nil
}
