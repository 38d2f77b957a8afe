// Package models contains shared data models used across the resumelens codebase.
package models

import "context"

// AnalysisInput is the material handed to each analysis call: the job's
// stored texts plus the passthrough parameters.
type AnalysisInput struct {
	ResumeText     string
	JobDescription string
	Params         JobParams
}

// Provider is the core interface that all AI integrations must implement.
// Never call specific AI providers directly — always inject this interface.
// Each method is one independent analysis call; the worker fans out over
// the set configured for the job's variant.
type Provider interface {
	// MatchKeywords computes keyword overlap between resume and job description.
	MatchKeywords(ctx context.Context, in AnalysisInput) (*KeywordMatch, Usage, error)
	// MatchSkills computes skill overlap plus an explicit gap list.
	MatchSkills(ctx context.Context, in AnalysisInput) (*SkillsMatch, Usage, error)
	// CheckFormat scores structural/ATS compatibility with itemized issues.
	CheckFormat(ctx context.Context, in AnalysisInput) (*FormatCheck, Usage, error)
	// Recommend produces prioritized improvement recommendations.
	Recommend(ctx context.Context, in AnalysisInput) ([]Recommendation, Usage, error)
	// ScoreSections scores each resume section individually.
	ScoreSections(ctx context.Context, in AnalysisInput) ([]SectionScore, Usage, error)
	// Roast produces qualitative feedback plus a market-readiness score.
	Roast(ctx context.Context, in AnalysisInput) (*RoastFeedback, Usage, error)
	// Name returns the provider identifier (e.g., "gemini", "openrouter").
	Name() string
	// Model returns the model identifier the provider is configured with.
	Model() string
}
