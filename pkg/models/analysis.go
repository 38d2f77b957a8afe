package models

import (
	"time"

	"github.com/google/uuid"
)

// Keyword importance tags assigned by the analysis calls.
const (
	ImportanceHigh   = "high"
	ImportanceMedium = "medium"
	ImportanceLow    = "low"
)

// Keyword is a single keyword with its importance tag.
type Keyword struct {
	Keyword    string `json:"keyword"`
	Importance string `json:"importance"`
}

// KeywordMatch is the keyword-overlap dimension: which keywords from the
// job description appear in the resume, and a 0-100 match percentage.
type KeywordMatch struct {
	Score   int       `json:"score"`
	Matched []Keyword `json:"matched"`
	Missing []Keyword `json:"missing"`
}

// SkillsMatch is the skill-overlap dimension, including an explicit list
// of gaps the candidate should close.
type SkillsMatch struct {
	Score   int       `json:"score"`
	Matched []Keyword `json:"matched"`
	Missing []Keyword `json:"missing"`
	Gaps    []string  `json:"gaps"`
}

// FormatCheck is the structural/ATS-compatibility dimension.
type FormatCheck struct {
	Score       int      `json:"score"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

// Recommendation is one prioritized improvement suggestion. Priority 1 is
// the most urgent.
type Recommendation struct {
	Priority int    `json:"priority"`
	Section  string `json:"section"`
	Advice   string `json:"advice"`
}

// SectionScore scores one resume section on a 0-100 scale.
type SectionScore struct {
	Section string `json:"section"`
	Score   int    `json:"score"`
	Comment string `json:"comment,omitempty"`
}

// RoastFeedback is the roast variant's qualitative output plus a 0-100
// market-readiness score.
type RoastFeedback struct {
	MarketReadiness int      `json:"market_readiness"`
	Tone            string   `json:"tone,omitempty"`
	Feedback        []string `json:"feedback"`
}

// Usage carries token telemetry reported by one analysis call.
// Advisory only; never used for control flow.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Add accumulates another call's usage into u.
func (u *Usage) Add(other Usage) {
	u.PromptTokens += other.PromptTokens
	u.CompletionTokens += other.CompletionTokens
	u.TotalTokens += other.TotalTokens
}

// Analysis is the immutable result of a completed job. Exactly one row
// exists per completed job; it is written once by the worker and never
// updated.
type Analysis struct {
	ID              uuid.UUID        `db:"id"               json:"id"`
	JobID           uuid.UUID        `db:"job_id"           json:"job_id"`
	OverallScore    int              `db:"overall_score"    json:"overall_score"`
	Keywords        *KeywordMatch    `db:"keywords"         json:"keywords,omitempty"`
	Skills          *SkillsMatch     `db:"skills"           json:"skills,omitempty"`
	Format          *FormatCheck     `db:"format"           json:"format,omitempty"`
	Recommendations []Recommendation `db:"recommendations"  json:"recommendations,omitempty"`
	Sections        []SectionScore   `db:"sections"         json:"sections,omitempty"`
	Roast           *RoastFeedback   `db:"roast"            json:"roast,omitempty"`
	Provider        string           `db:"provider"         json:"provider"`
	Model           string           `db:"model"            json:"model"`
	ProcessingMs    int64            `db:"processing_ms"    json:"processing_ms"`
	TokensUsed      int              `db:"tokens_used"      json:"tokens_used"`
	CreatedAt       time.Time        `db:"created_at"       json:"created_at"`
}
