package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	JobStatusQueued     = "queued"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)

// Pipeline variants. A match job compares a resume against a job
// description; a roast job analyzes a single resume on its own.
const (
	VariantMatch = "match"
	VariantRoast = "roast"
)

// JobParams are caller-supplied options passed through to the analysis
// calls unmodified. The pipeline never interprets them.
type JobParams struct {
	RoastTone  string   `json:"roast_tone,omitempty"`
	FocusAreas []string `json:"focus_areas,omitempty"`
	ShowEmojis bool     `json:"show_emojis,omitempty"`
}

// Job tracks one async resume-analysis request. The API returns a job_id on
// POST /api/v1/analyses; the client polls GET /api/v1/analyses/{job_id}
// until status is completed or failed.
type Job struct {
	ID             uuid.UUID `db:"id"              json:"id"`
	OwnerID        uuid.UUID `db:"owner_id"        json:"owner_id"`
	Variant        string    `db:"variant"         json:"variant"`
	ResumeText     string    `db:"resume_text"     json:"resume_text"`
	JobDescription string    `db:"job_description" json:"job_description,omitempty"`
	Params         JobParams `db:"parameters"      json:"parameters"`
	Status         string    `db:"status"          json:"status"`
	Error          *string   `db:"error"           json:"error,omitempty"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}

// Terminal reports whether the job has reached a final state.
func (j *Job) Terminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
