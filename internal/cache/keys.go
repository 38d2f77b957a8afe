package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AnalysisTTL bounds how long a completed analysis payload stays cached.
// The row itself is immutable, so staleness is not a concern; the TTL only
// caps memory.
const AnalysisTTL = 24 * time.Hour

func AnalysisKey(jobID uuid.UUID) string {
	return fmt.Sprintf("analysis:%s", jobID)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
