package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/anikamehra/resumelens/internal/api/middleware"
	"github.com/anikamehra/resumelens/internal/api/response"
	"github.com/anikamehra/resumelens/internal/analysis"
	"github.com/anikamehra/resumelens/internal/store"
	"github.com/anikamehra/resumelens/pkg/models"
)

// StatusReader defines the interface the status handler depends on.
type StatusReader interface {
	Status(ctx context.Context, jobID, ownerID uuid.UUID) (*analysis.StatusResult, error)
}

// NewStatusHandler returns an http.HandlerFunc for GET /api/v1/analyses/{jobID}.
// The response shape depends on the job's state: terminal responses carry
// the analysis or the failure reason, non-terminal ones just the status.
func NewStatusHandler(svc StatusReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := mw.GetOwnerID(r)
		if !ok {
			response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing owner", nil)
			return
		}

		jobID, err := uuid.Parse(chi.URLParam(r, "jobID"))
		if err != nil {
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"jobID must be a valid UUID", nil)
			return
		}

		res, err := svc.Status(r.Context(), jobID, ownerID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				response.Error(w, http.StatusNotFound, "RESOURCE_NOT_FOUND",
					"Job not found", nil)
				return
			}
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR",
				"An unexpected error occurred", nil)
			return
		}

		body := statusResponse{
			JobID:     res.Job.ID.String(),
			Status:    res.Job.Status,
			Variant:   res.Job.Variant,
			CreatedAt: res.Job.CreatedAt.UTC().Format(time.RFC3339),
			UpdatedAt: res.Job.UpdatedAt.UTC().Format(time.RFC3339),
			Error:     res.Job.Error,
			Analysis:  res.Analysis,
		}
		response.JSON(w, body)
	}
}

type statusResponse struct {
	JobID     string           `json:"job_id"`
	Status    string           `json:"status"`
	Variant   string           `json:"variant"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
	Error     *string          `json:"error,omitempty"`
	Analysis  *models.Analysis `json:"analysis,omitempty"`
}
