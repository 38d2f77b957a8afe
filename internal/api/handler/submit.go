package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	mw "github.com/anikamehra/resumelens/internal/api/middleware"
	"github.com/anikamehra/resumelens/internal/api/response"
	"github.com/anikamehra/resumelens/internal/analysis"
	"github.com/anikamehra/resumelens/pkg/models"
)

// Submitter defines the interface the submit handler depends on.
type Submitter interface {
	Submit(ctx context.Context, p analysis.SubmitParams) (*models.Job, error)
}

// NewSubmitHandler returns an http.HandlerFunc for POST /api/v1/analyses.
// Accepts the job and returns 202 with the job id to poll.
func NewSubmitHandler(svc Submitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := mw.GetOwnerID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing owner", nil)
			return
		}

		var req struct {
			Variant        string           `json:"variant"`
			ResumeText     string           `json:"resume_text"`
			JobDescription string           `json:"job_description"`
			Params         models.JobParams `json:"parameters"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
			return
		}

		if req.Variant == "" {
			req.Variant = models.VariantMatch
		}

		job, err := svc.Submit(r.Context(), analysis.SubmitParams{
			OwnerID:        ownerID,
			Variant:        req.Variant,
			ResumeText:     req.ResumeText,
			JobDescription: req.JobDescription,
			Params:         req.Params,
		})
		if err != nil {
			if errors.Is(err, analysis.ErrValidation) {
				response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		response.Accepted(w, submitResponse{
			JobID:     job.ID.String(),
			Status:    job.Status,
			Variant:   job.Variant,
			CreatedAt: job.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
}

type submitResponse struct {
	JobID     string `json:"job_id"`
	Status    string `json:"status"`
	Variant   string `json:"variant"`
	CreatedAt string `json:"created_at"`
}
