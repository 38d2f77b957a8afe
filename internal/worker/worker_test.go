package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anikamehra/resumelens/internal/ai"
	"github.com/anikamehra/resumelens/internal/ai/mock"
	"github.com/anikamehra/resumelens/internal/store"
	"github.com/anikamehra/resumelens/internal/worker"
	"github.com/anikamehra/resumelens/pkg/models"
)

// fakeStore is an in-memory store.Store for worker tests.
type fakeStore struct {
	mu sync.Mutex

	jobs     map[uuid.UUID]*models.Job
	analyses map[uuid.UUID]*models.Analysis

	createAnalysisErr error
	completeErr       error
}

func newFakeStore(jobs ...*models.Job) *fakeStore {
	s := &fakeStore{
		jobs:     make(map[uuid.UUID]*models.Job),
		analyses: make(map[uuid.UUID]*models.Analysis),
	}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *fakeStore) Ping(context.Context) error { return nil }

func (s *fakeStore) GetAPIKeyByPrefix(context.Context, string) ([]*models.APIKey, error) {
	return nil, store.ErrNotFound
}

func (s *fakeStore) UpdateAPIKeyLastUsed(context.Context, uuid.UUID) error { return nil }

func (s *fakeStore) CreateJob(_ context.Context, job *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
	return nil
}

func (s *fakeStore) GetJob(_ context.Context, id uuid.UUID) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *job
	return &cp, nil
}

func (s *fakeStore) GetOwnedJob(ctx context.Context, id, ownerID uuid.UUID) (*models.Job, error) {
	job, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.OwnerID != ownerID {
		return nil, store.ErrNotFound
	}
	return job, nil
}

func (s *fakeStore) ClaimJob(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status != models.JobStatusQueued {
		return store.ErrNotClaimable
	}
	job.Status = models.JobStatusProcessing
	return nil
}

func (s *fakeStore) CompleteJob(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.completeErr != nil {
		return s.completeErr
	}
	job, ok := s.jobs[id]
	if !ok || job.Status != models.JobStatusProcessing {
		return store.ErrNotFound
	}
	job.Status = models.JobStatusCompleted
	return nil
}

func (s *fakeStore) FailJob(_ context.Context, id uuid.UUID, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return store.ErrNotFound
	}
	if job.Status == models.JobStatusCompleted || job.Status == models.JobStatusFailed {
		return nil
	}
	job.Status = models.JobStatusFailed
	job.Error = &msg
	return nil
}

func (s *fakeStore) CreateAnalysis(_ context.Context, analysis *models.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createAnalysisErr != nil {
		return s.createAnalysisErr
	}
	if _, exists := s.analyses[analysis.JobID]; exists {
		return store.ErrDuplicateKey
	}
	s.analyses[analysis.JobID] = analysis
	return nil
}

func (s *fakeStore) GetAnalysisByJobID(_ context.Context, jobID uuid.UUID) (*models.Analysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.analyses[jobID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return a, nil
}

func (s *fakeStore) jobStatus(id uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id].Status
}

func (s *fakeStore) jobError(id uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.jobs[id].Error == nil {
		return ""
	}
	return *s.jobs[id].Error
}

// fakeCache is an in-memory cache.Cache.
type fakeCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string][]byte)}
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }

func (c *fakeCache) IncrWithExpiry(context.Context, string, time.Duration) (int64, error) {
	return 1, nil
}

func queuedJob(variant string) *models.Job {
	return &models.Job{
		ID:             uuid.New(),
		OwnerID:        uuid.New(),
		Variant:        variant,
		ResumeText:     "Five years of backend Go.",
		JobDescription: "Backend engineer: Go, Postgres.",
		Status:         models.JobStatusQueued,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
}

func TestProcess_UnknownJobIsNoOp(t *testing.T) {
	st := newFakeStore()
	w := worker.NewWorker(st, newFakeCache(), mock.NewMockProvider(), time.Second)

	err := w.Process(context.Background(), uuid.New())
	assert.NoError(t, err)
}

func TestProcess_MatchSuccess(t *testing.T) {
	job := queuedJob(models.VariantMatch)
	st := newFakeStore(job)
	ca := newFakeCache()
	w := worker.NewWorker(st, ca, mock.NewMockProvider(), time.Second)

	err := w.Process(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusCompleted, st.jobStatus(job.ID))

	analysis, err := st.GetAnalysisByJobID(context.Background(), job.ID)
	require.NoError(t, err)
	// Mock defaults: keywords 80, skills 70, format 60, sections mean 80.
	assert.Equal(t, 73, analysis.OverallScore)
	assert.NotNil(t, analysis.Keywords)
	assert.NotNil(t, analysis.Skills)
	assert.NotNil(t, analysis.Format)
	assert.NotEmpty(t, analysis.Recommendations)
	assert.NotEmpty(t, analysis.Sections)
	assert.Nil(t, analysis.Roast)
	assert.Equal(t, "mock", analysis.Provider)
	assert.Equal(t, "mock-v1", analysis.Model)
	assert.Equal(t, 5*160, analysis.TokensUsed)

	// Write-through: completed payload is cached.
	assert.Len(t, ca.data, 1)
}

func TestProcess_RoastSuccess(t *testing.T) {
	job := queuedJob(models.VariantRoast)
	st := newFakeStore(job)
	w := worker.NewWorker(st, newFakeCache(), mock.NewMockProvider(), time.Second)

	err := w.Process(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusCompleted, st.jobStatus(job.ID))

	analysis, err := st.GetAnalysisByJobID(context.Background(), job.ID)
	require.NoError(t, err)
	// Mock defaults: market readiness 55, sections mean 80. Both dimensions
	// feed the overall score, same as the match variant.
	assert.Equal(t, 68, analysis.OverallScore)
	assert.NotNil(t, analysis.Roast)
	assert.NotEmpty(t, analysis.Sections)
	assert.Nil(t, analysis.Keywords)
	assert.Equal(t, 2*160, analysis.TokensUsed)
}

func TestProcess_DuplicateTriggerIsNoOp(t *testing.T) {
	job := queuedJob(models.VariantMatch)
	st := newFakeStore(job)
	w := worker.NewWorker(st, newFakeCache(), mock.NewMockProvider(), time.Second)

	require.NoError(t, w.Process(context.Background(), job.ID))
	require.NoError(t, w.Process(context.Background(), job.ID))

	assert.Equal(t, models.JobStatusCompleted, st.jobStatus(job.ID))
	assert.Len(t, st.analyses, 1)
}

func TestProcess_ProviderFailureFailsJob(t *testing.T) {
	job := queuedJob(models.VariantMatch)
	st := newFakeStore(job)
	w := worker.NewWorker(st, newFakeCache(), mock.NewFailingProvider(ai.ErrProviderUnavailable), time.Second)

	err := w.Process(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusFailed, st.jobStatus(job.ID))
	assert.Contains(t, st.jobError(job.ID), "ai provider unavailable")
	assert.Empty(t, st.analyses)
}

func TestProcess_TimeoutFailsJob(t *testing.T) {
	job := queuedJob(models.VariantRoast)
	st := newFakeStore(job)
	w := worker.NewWorker(st, newFakeCache(), mock.NewTimeoutProvider(), 50*time.Millisecond)

	err := w.Process(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusFailed, st.jobStatus(job.ID))
	assert.Contains(t, st.jobError(job.ID), "ai inference timeout")
}

func TestProcess_OneFailureCancelsSiblings(t *testing.T) {
	job := queuedJob(models.VariantMatch)
	st := newFakeStore(job)

	provider := mock.NewMockProvider()
	provider.MatchKeywordsFunc = func(context.Context, models.AnalysisInput) (*models.KeywordMatch, models.Usage, error) {
		return nil, models.Usage{}, errors.New("model exploded")
	}
	provider.ScoreSectionsFunc = func(ctx context.Context, _ models.AnalysisInput) ([]models.SectionScore, models.Usage, error) {
		// Blocks until the sibling's failure cancels the group context.
		<-ctx.Done()
		return nil, models.Usage{}, ctx.Err()
	}

	w := worker.NewWorker(st, newFakeCache(), provider, 10*time.Second)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Process(context.Background(), job.ID)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("fan-out did not cancel siblings after a call failed")
	}

	assert.Equal(t, models.JobStatusFailed, st.jobStatus(job.ID))
	assert.Contains(t, st.jobError(job.ID), "model exploded")
}

func TestProcess_PanicRecovered(t *testing.T) {
	job := queuedJob(models.VariantRoast)
	st := newFakeStore(job)

	provider := mock.NewMockProvider()
	provider.RoastFunc = func(context.Context, models.AnalysisInput) (*models.RoastFeedback, models.Usage, error) {
		panic("boom")
	}

	w := worker.NewWorker(st, newFakeCache(), provider, time.Second)

	assert.NotPanics(t, func() {
		_ = w.Process(context.Background(), job.ID)
	})
	assert.Equal(t, models.JobStatusFailed, st.jobStatus(job.ID))
	assert.Contains(t, st.jobError(job.ID), "panic")
}

func TestProcess_StoreWriteFailureLeavesProcessing(t *testing.T) {
	job := queuedJob(models.VariantMatch)
	st := newFakeStore(job)
	st.createAnalysisErr = errors.New("connection reset")

	w := worker.NewWorker(st, newFakeCache(), mock.NewMockProvider(), time.Second)

	err := w.Process(context.Background(), job.ID)
	require.Error(t, err)

	// Succeeded analysis must not be thrown away by marking the job failed.
	assert.Equal(t, models.JobStatusProcessing, st.jobStatus(job.ID))
	assert.Empty(t, st.jobError(job.ID))
}

func TestProcess_UnknownVariantFailsJob(t *testing.T) {
	job := queuedJob("interview")
	st := newFakeStore(job)
	w := worker.NewWorker(st, newFakeCache(), mock.NewMockProvider(), time.Second)

	err := w.Process(context.Background(), job.ID)
	require.NoError(t, err)

	assert.Equal(t, models.JobStatusFailed, st.jobStatus(job.ID))
	assert.Contains(t, st.jobError(job.ID), "unknown job variant")
}
