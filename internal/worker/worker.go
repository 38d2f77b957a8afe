// Package worker executes queued analysis jobs: claim, fan out the AI
// calls, aggregate, persist the result, and move the job to a terminal
// state.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/anikamehra/resumelens/internal/ai"
	"github.com/anikamehra/resumelens/internal/cache"
	"github.com/anikamehra/resumelens/internal/scoring"
	"github.com/anikamehra/resumelens/internal/store"
	"github.com/anikamehra/resumelens/pkg/models"
)

// Worker processes one job end to end.
type Worker struct {
	store    store.Store
	cache    cache.Cache
	provider models.Provider
	timeout  time.Duration
}

// NewWorker creates a Worker. timeout bounds the whole fan-out of AI calls
// for one job.
func NewWorker(st store.Store, ca cache.Cache, provider models.Provider, timeout time.Duration) *Worker {
	return &Worker{
		store:    st,
		cache:    ca,
		provider: provider,
		timeout:  timeout,
	}
}

// matchResults collects the outputs of a match job's fan-out. Each field is
// written by exactly one goroutine before Wait returns.
type matchResults struct {
	keywords        *models.KeywordMatch
	skills          *models.SkillsMatch
	format          *models.FormatCheck
	recommendations []models.Recommendation
	sections        []models.SectionScore

	usages [5]models.Usage
}

type roastResults struct {
	roast    *models.RoastFeedback
	sections []models.SectionScore

	usages [2]models.Usage
}

// Process runs one delivered job id to completion. The trigger queue is
// at-least-once, so a job that is missing or already claimed is a no-op,
// not an error.
func (w *Worker) Process(ctx context.Context, jobID uuid.UUID) error {
	job, err := w.store.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Warn("dropping trigger for unknown job", "job_id", jobID)
			return nil
		}
		return fmt.Errorf("loading job %s: %w", jobID, err)
	}

	if err := w.store.ClaimJob(ctx, jobID); err != nil {
		if errors.Is(err, store.ErrNotClaimable) {
			slog.Debug("job already claimed, skipping duplicate trigger",
				"job_id", jobID, "status", job.Status)
			return nil
		}
		return fmt.Errorf("claiming job %s: %w", jobID, err)
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic while processing job", "error", r, "job_id", jobID)
			w.failJob(ctx, jobID, fmt.Sprintf("panic: %v", r))
		}
	}()

	slog.Info("processing job", "job_id", jobID, "variant", job.Variant,
		"provider", w.provider.Name())

	start := time.Now()

	analysis, err := w.analyze(ctx, job)
	if err != nil {
		slog.Warn("analysis failed", "job_id", jobID, "error", err)
		w.failJob(ctx, jobID, err.Error())
		return nil
	}

	analysis.ID = uuid.New()
	analysis.JobID = jobID
	analysis.Provider = w.provider.Name()
	analysis.Model = w.provider.Model()
	analysis.ProcessingMs = time.Since(start).Milliseconds()
	analysis.CreatedAt = time.Now().UTC()

	// Past this point the job must not be marked failed: the AI work
	// succeeded, and a retry would re-bill it. A store write failure leaves
	// the job in processing and gets surfaced loudly instead.
	if err := w.store.CreateAnalysis(ctx, analysis); err != nil {
		slog.Error("INCONSISTENT STATE: analysis computed but not stored; job stays in processing",
			"job_id", jobID, "error", err)
		return fmt.Errorf("storing analysis for job %s: %w", jobID, err)
	}

	if err := w.store.CompleteJob(ctx, jobID); err != nil {
		slog.Error("INCONSISTENT STATE: analysis stored but job not marked completed",
			"job_id", jobID, "error", err)
		return fmt.Errorf("completing job %s: %w", jobID, err)
	}

	w.cacheAnalysis(ctx, analysis)

	slog.Info("job completed", "job_id", jobID,
		"overall_score", analysis.OverallScore,
		"processing_ms", analysis.ProcessingMs,
		"tokens_used", analysis.TokensUsed)
	return nil
}

// analyze fans out the AI calls for the job's variant and aggregates their
// outputs into an Analysis. Any single call failing cancels the siblings
// and fails the whole job; there are no partial results.
func (w *Worker) analyze(ctx context.Context, job *models.Job) (*models.Analysis, error) {
	callCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	in := models.AnalysisInput{
		ResumeText:     job.ResumeText,
		JobDescription: job.JobDescription,
		Params:         job.Params,
	}

	switch job.Variant {
	case models.VariantMatch:
		return w.analyzeMatch(callCtx, in)
	case models.VariantRoast:
		return w.analyzeRoast(callCtx, in)
	default:
		return nil, fmt.Errorf("unknown job variant %q", job.Variant)
	}
}

func (w *Worker) analyzeMatch(ctx context.Context, in models.AnalysisInput) (*models.Analysis, error) {
	var res matchResults

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		res.keywords, res.usages[0], err = w.provider.MatchKeywords(gctx, in)
		return wrapCallErr("keywords", err)
	})
	g.Go(func() (err error) {
		res.skills, res.usages[1], err = w.provider.MatchSkills(gctx, in)
		return wrapCallErr("skills", err)
	})
	g.Go(func() (err error) {
		res.format, res.usages[2], err = w.provider.CheckFormat(gctx, in)
		return wrapCallErr("format", err)
	})
	g.Go(func() (err error) {
		res.recommendations, res.usages[3], err = w.provider.Recommend(gctx, in)
		return wrapCallErr("recommendations", err)
	})
	g.Go(func() (err error) {
		res.sections, res.usages[4], err = w.provider.ScoreSections(gctx, in)
		return wrapCallErr("sections", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sectionScores := make([]int, 0, len(res.sections))
	for _, s := range res.sections {
		sectionScores = append(sectionScores, s.Score)
	}
	overall := scoring.Overall([]int{
		res.keywords.Score,
		res.skills.Score,
		res.format.Score,
		scoring.Overall(sectionScores),
	})

	var usage models.Usage
	for _, u := range res.usages {
		usage.Add(u)
	}

	return &models.Analysis{
		OverallScore:    overall,
		Keywords:        res.keywords,
		Skills:          res.skills,
		Format:          res.format,
		Recommendations: res.recommendations,
		Sections:        res.sections,
		TokensUsed:      usage.TotalTokens,
	}, nil
}

func (w *Worker) analyzeRoast(ctx context.Context, in models.AnalysisInput) (*models.Analysis, error) {
	var res roastResults

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		res.roast, res.usages[0], err = w.provider.Roast(gctx, in)
		return wrapCallErr("roast", err)
	})
	g.Go(func() (err error) {
		res.sections, res.usages[1], err = w.provider.ScoreSections(gctx, in)
		return wrapCallErr("sections", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sectionScores := make([]int, 0, len(res.sections))
	for _, s := range res.sections {
		sectionScores = append(sectionScores, s.Score)
	}
	overall := scoring.Overall([]int{
		res.roast.MarketReadiness,
		scoring.Overall(sectionScores),
	})

	var usage models.Usage
	for _, u := range res.usages {
		usage.Add(u)
	}

	return &models.Analysis{
		OverallScore: overall,
		Sections:     res.sections,
		Roast:        res.roast,
		TokensUsed:   usage.TotalTokens,
	}, nil
}

// failJob moves the job to failed. Terminal states are guarded in the
// store, so a lost race here is harmless.
func (w *Worker) failJob(ctx context.Context, jobID uuid.UUID, msg string) {
	if err := w.store.FailJob(ctx, jobID, msg); err != nil {
		slog.Error("failed to mark job as failed", "job_id", jobID, "error", err)
	}
}

// cacheAnalysis writes the completed payload through to the cache. Cache
// failures never affect the job outcome.
func (w *Worker) cacheAnalysis(ctx context.Context, analysis *models.Analysis) {
	payload, err := json.Marshal(analysis)
	if err != nil {
		slog.Warn("failed to marshal analysis for cache", "job_id", analysis.JobID, "error", err)
		return
	}
	if err := w.cache.Set(ctx, cache.AnalysisKey(analysis.JobID), payload, cache.AnalysisTTL); err != nil {
		slog.Warn("failed to cache analysis", "job_id", analysis.JobID, "error", err)
	}
}

func wrapCallErr(call string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s call: %w", call, ai.ErrInferenceTimeout)
	}
	return fmt.Errorf("%s call: %w", call, err)
}
