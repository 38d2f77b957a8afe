// Package poller is a small client for the analyses API: submit a job,
// then poll its status until it reaches a terminal state.
package poller

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/anikamehra/resumelens/pkg/models"
)

// SubmitRequest is the body of POST /api/v1/analyses.
type SubmitRequest struct {
	Variant        string           `json:"variant,omitempty"`
	ResumeText     string           `json:"resume_text"`
	JobDescription string           `json:"job_description,omitempty"`
	Params         models.JobParams `json:"parameters,omitempty"`
}

// JobStatus is one snapshot of a job as reported by the API. Analysis is
// set only when Status is "completed".
type JobStatus struct {
	JobID     string           `json:"job_id"`
	Status    string           `json:"status"`
	Variant   string           `json:"variant"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
	Error     *string          `json:"error,omitempty"`
	Analysis  *models.Analysis `json:"analysis,omitempty"`
}

// Terminal reports whether this snapshot is final.
func (s *JobStatus) Terminal() bool {
	return s.Status == models.JobStatusCompleted || s.Status == models.JobStatusFailed
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

// Client talks to the analyses API.
type Client struct {
	http *resty.Client
}

// NewClient creates a Client for the given base URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(apiKey).
			SetHeader("Content-Type", "application/json"),
	}
}

// Submit enqueues a job and returns its id.
func (c *Client) Submit(ctx context.Context, req SubmitRequest) (uuid.UUID, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		Post("/api/v1/analyses")
	if err != nil {
		return uuid.Nil, fmt.Errorf("submitting job: %w", err)
	}
	if resp.IsError() {
		return uuid.Nil, apiError(resp)
	}

	var body struct {
		Data struct {
			JobID string `json:"job_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return uuid.Nil, fmt.Errorf("decoding submit response: %w", err)
	}
	return uuid.Parse(body.Data.JobID)
}

// Status fetches one status snapshot.
func (c *Client) Status(ctx context.Context, jobID uuid.UUID) (*JobStatus, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/api/v1/analyses/" + jobID.String())
	if err != nil {
		return nil, fmt.Errorf("fetching job status: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}

	var body struct {
		Data JobStatus `json:"data"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("decoding status response: %w", err)
	}
	return &body.Data, nil
}

func apiError(resp *resty.Response) error {
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(resp.Body(), &body)
	return &APIError{
		StatusCode: resp.StatusCode(),
		Code:       body.Error.Code,
		Message:    body.Error.Message,
	}
}
