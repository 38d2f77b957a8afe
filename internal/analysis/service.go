// Package analysis is the application service behind the public API:
// validating and enqueueing jobs, and assembling status responses.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anikamehra/resumelens/internal/cache"
	"github.com/anikamehra/resumelens/internal/queue"
	"github.com/anikamehra/resumelens/internal/store"
	"github.com/anikamehra/resumelens/pkg/models"
)

// Input size limits, in bytes. Oversized inputs are rejected up front
// rather than burned through the AI provider.
const (
	MaxResumeBytes         = 50_000
	MaxJobDescriptionBytes = 20_000
)

// ErrValidation wraps all input validation failures.
var ErrValidation = errors.New("invalid input")

// SubmitParams holds a validated-to-be submission.
type SubmitParams struct {
	OwnerID        uuid.UUID
	Variant        string
	ResumeText     string
	JobDescription string
	Params         models.JobParams
}

// StatusResult pairs a job with its analysis. Analysis is non-nil only
// when the job is completed.
type StatusResult struct {
	Job      *models.Job
	Analysis *models.Analysis
}

// Service orchestrates job submission and status reads.
type Service struct {
	store store.Store
	queue queue.Queue
	cache cache.Cache
}

func NewService(st store.Store, q queue.Queue, ca cache.Cache) *Service {
	return &Service{store: st, queue: q, cache: ca}
}

// Submit validates the input, records a queued job, and triggers the
// worker. The job row is the source of truth: if the trigger publish
// fails the job stays queued and the submission still succeeds.
func (s *Service) Submit(ctx context.Context, p SubmitParams) (*models.Job, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:             uuid.New(),
		OwnerID:        p.OwnerID,
		Variant:        p.Variant,
		ResumeText:     p.ResumeText,
		JobDescription: p.JobDescription,
		Params:         p.Params,
		Status:         models.JobStatusQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("creating job: %w", err)
	}

	if err := s.queue.Publish(ctx, job.ID); err != nil {
		slog.Error("failed to publish job trigger; job remains queued",
			"job_id", job.ID, "error", err)
	}

	return job, nil
}

// Status loads a job scoped to its owner and, for completed jobs, its
// analysis. Reads through the cache; a completed job whose analysis row is
// missing is reported as failed without touching the database.
func (s *Service) Status(ctx context.Context, jobID, ownerID uuid.UUID) (*StatusResult, error) {
	job, err := s.store.GetOwnedJob(ctx, jobID, ownerID)
	if err != nil {
		return nil, err
	}

	// Queued and processing jobs have nothing more to report yet; failed
	// jobs already carry their error on the row.
	if !job.Terminal() || job.Status == models.JobStatusFailed {
		return &StatusResult{Job: job}, nil
	}

	analysis, err := s.loadAnalysis(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Error("INCONSISTENT STATE: job completed but analysis missing", "job_id", jobID)
			msg := "analysis result unavailable"
			failed := *job
			failed.Status = models.JobStatusFailed
			failed.Error = &msg
			return &StatusResult{Job: &failed}, nil
		}
		return nil, fmt.Errorf("loading analysis for job %s: %w", jobID, err)
	}

	return &StatusResult{Job: job, Analysis: analysis}, nil
}

func (s *Service) loadAnalysis(ctx context.Context, jobID uuid.UUID) (*models.Analysis, error) {
	key := cache.AnalysisKey(jobID)

	if payload, found, err := s.cache.Get(ctx, key); err == nil && found {
		var analysis models.Analysis
		if err := json.Unmarshal(payload, &analysis); err == nil {
			return &analysis, nil
		}
		// Corrupt entry; fall through to the store and overwrite it.
		_ = s.cache.Delete(ctx, key)
	}

	analysis, err := s.store.GetAnalysisByJobID(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(analysis); err == nil {
		if err := s.cache.Set(ctx, key, payload, cache.AnalysisTTL); err != nil {
			slog.Warn("failed to cache analysis", "job_id", jobID, "error", err)
		}
	}

	return analysis, nil
}

func validate(p SubmitParams) error {
	if p.OwnerID == uuid.Nil {
		return fmt.Errorf("%w: owner is required", ErrValidation)
	}
	if p.Variant != models.VariantMatch && p.Variant != models.VariantRoast {
		return fmt.Errorf("%w: variant must be %q or %q", ErrValidation,
			models.VariantMatch, models.VariantRoast)
	}
	if p.ResumeText == "" {
		return fmt.Errorf("%w: resume_text is required", ErrValidation)
	}
	if len(p.ResumeText) > MaxResumeBytes {
		return fmt.Errorf("%w: resume_text exceeds %d bytes", ErrValidation, MaxResumeBytes)
	}
	if p.Variant == models.VariantMatch && p.JobDescription == "" {
		return fmt.Errorf("%w: job_description is required for match jobs", ErrValidation)
	}
	if len(p.JobDescription) > MaxJobDescriptionBytes {
		return fmt.Errorf("%w: job_description exceeds %d bytes", ErrValidation, MaxJobDescriptionBytes)
	}
	return nil
}
