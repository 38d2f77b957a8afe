package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// logFields is installed by Logger and filled in by inner middleware, so
// the per-request log line can carry what they resolved (the owner).
type logFields struct {
	ownerID uuid.UUID
}

const logFieldsKey contextKey = "log_fields"

// Logger logs one line per request. owner_id appears once Authenticate has
// resolved the caller's API key.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		fields := &logFields{}
		r = r.WithContext(context.WithValue(r.Context(), logFieldsKey, fields))
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		}
		if fields.ownerID != uuid.Nil {
			attrs = append(attrs, "owner_id", fields.ownerID.String())
		}
		slog.Info("request", attrs...)
	})
}

// recordOwner notes the resolved owner on the in-flight request's log
// entry. No-op when Logger is not in the chain.
func recordOwner(ctx context.Context, ownerID uuid.UUID) {
	if f, ok := ctx.Value(logFieldsKey).(*logFields); ok {
		f.ownerID = ownerID
	}
}
