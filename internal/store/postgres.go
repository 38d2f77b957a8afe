package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/anikamehra/resumelens/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, name, key_hash, key_prefix, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.OwnerID, &k.Name, &k.KeyHash, &k.KeyPrefix,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

// --- Jobs ---

func (s *PostgresStore) CreateJob(ctx context.Context, job *models.Job) error {
	params, err := json.Marshal(job.Params)
	if err != nil {
		return fmt.Errorf("marshal job parameters: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO jobs (id, owner_id, variant, resume_text, job_description, parameters, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		job.ID, job.OwnerID, job.Variant, job.ResumeText, job.JobDescription,
		params, job.Status, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

const jobColumns = `id, owner_id, variant, resume_text, job_description, parameters, status, error, created_at, updated_at`

func (s *PostgresStore) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, id)
	return scanJob(row)
}

func (s *PostgresStore) GetOwnedJob(ctx context.Context, id uuid.UUID, ownerID uuid.UUID) (*models.Job, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1 AND owner_id = $2`, id, ownerID)
	return scanJob(row)
}

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	var params []byte
	err := row.Scan(&j.ID, &j.OwnerID, &j.Variant, &j.ResumeText, &j.JobDescription,
		&params, &j.Status, &j.Error, &j.CreatedAt, &j.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &j.Params); err != nil {
			return nil, fmt.Errorf("unmarshal job parameters: %w", err)
		}
	}
	return &j, nil
}

// ClaimJob is the idempotency guard for duplicate trigger deliveries: a
// single conditional update, not a read-then-write pair. Only the first
// invocation for a queued job succeeds.
func (s *PostgresStore) ClaimJob(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = NOW()
		 WHERE id = $1 AND status = $3`,
		id, models.JobStatusProcessing, models.JobStatusQueued)
	if err != nil {
		return fmt.Errorf("claim job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotClaimable
	}
	return nil
}

func (s *PostgresStore) CompleteJob(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $2, updated_at = NOW()
		 WHERE id = $1 AND status = $3`,
		id, models.JobStatusCompleted, models.JobStatusProcessing)
	if err != nil {
		return fmt.Errorf("complete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete job %s: not in processing state", id)
	}
	return nil
}

// FailJob marks the job failed from any non-terminal state. Terminal states
// are never left.
func (s *PostgresStore) FailJob(ctx context.Context, id uuid.UUID, errMsg string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $2, error = $3, updated_at = NOW()
		 WHERE id = $1 AND status NOT IN ($4, $5)`,
		id, models.JobStatusFailed, errMsg,
		models.JobStatusCompleted, models.JobStatusFailed)
	if err != nil {
		return fmt.Errorf("fail job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("fail job %s: already terminal", id)
	}
	return nil
}

// --- Analyses ---

func (s *PostgresStore) CreateAnalysis(ctx context.Context, a *models.Analysis) error {
	keywords, err := marshalNullable(a.Keywords)
	if err != nil {
		return err
	}
	skills, err := marshalNullable(a.Skills)
	if err != nil {
		return err
	}
	format, err := marshalNullable(a.Format)
	if err != nil {
		return err
	}
	recs, err := marshalNullableSlice(a.Recommendations)
	if err != nil {
		return err
	}
	sections, err := marshalNullableSlice(a.Sections)
	if err != nil {
		return err
	}
	roast, err := marshalNullable(a.Roast)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO analyses (id, job_id, overall_score, keywords, skills, format, recommendations, sections, roast, provider, model, processing_ms, tokens_used, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		a.ID, a.JobID, a.OverallScore, keywords, skills, format, recs, sections, roast,
		a.Provider, a.Model, a.ProcessingMs, a.TokensUsed, a.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create analysis: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetAnalysisByJobID(ctx context.Context, jobID uuid.UUID) (*models.Analysis, error) {
	var a models.Analysis
	var keywords, skills, format, recs, sections, roast []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, job_id, overall_score, keywords, skills, format, recommendations, sections, roast, provider, model, processing_ms, tokens_used, created_at
		 FROM analyses WHERE job_id = $1`, jobID,
	).Scan(&a.ID, &a.JobID, &a.OverallScore, &keywords, &skills, &format, &recs, &sections, &roast,
		&a.Provider, &a.Model, &a.ProcessingMs, &a.TokensUsed, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get analysis by job: %w", err)
	}

	if err := unmarshalNullable(keywords, &a.Keywords); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(skills, &a.Skills); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(format, &a.Format); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(recs, &a.Recommendations); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(sections, &a.Sections); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(roast, &a.Roast); err != nil {
		return nil, err
	}
	return &a, nil
}

func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis field: %w", err)
	}
	return b, nil
}

func marshalNullableSlice[T any](v []T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis field: %w", err)
	}
	return b, nil
}

func unmarshalNullable(b []byte, dst any) error {
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("unmarshal analysis field: %w", err)
	}
	return nil
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

var _ Store = (*PostgresStore)(nil)
