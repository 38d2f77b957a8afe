package store

import (
	"context"
	"errors"

	"github.com/anikamehra/resumelens/pkg/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// ErrNotClaimable is returned by ClaimJob when the job is not currently
// queued. Duplicate trigger deliveries hit this and must treat it as a no-op.
var ErrNotClaimable = errors.New("job is not claimable")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error

	CreateJob(ctx context.Context, job *models.Job) error
	// GetJob loads a job without owner scoping; worker use only.
	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	// GetOwnedJob loads a job scoped to an owner. A job owned by someone
	// else is indistinguishable from a missing one (ErrNotFound).
	GetOwnedJob(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.Job, error)
	// ClaimJob atomically transitions queued -> processing. Returns
	// ErrNotClaimable if the job is in any other state.
	ClaimJob(ctx context.Context, id uuid.UUID) error
	// CompleteJob transitions processing -> completed.
	CompleteJob(ctx context.Context, id uuid.UUID) error
	// FailJob transitions any non-terminal state -> failed with a message.
	FailJob(ctx context.Context, id uuid.UUID, errMsg string) error

	CreateAnalysis(ctx context.Context, analysis *models.Analysis) error
	GetAnalysisByJobID(ctx context.Context, jobID uuid.UUID) (*models.Analysis, error)
}
