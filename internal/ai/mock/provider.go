// Package mock provides a deterministic models.Provider for tests and
// local development without API keys.
package mock

import (
	"context"

	"github.com/anikamehra/resumelens/pkg/models"
)

// MockProvider satisfies models.Provider for testing. Unset func fields fall
// back to empty results.
type MockProvider struct {
	Name_  string
	Model_ string

	MatchKeywordsFunc func(ctx context.Context, in models.AnalysisInput) (*models.KeywordMatch, models.Usage, error)
	MatchSkillsFunc   func(ctx context.Context, in models.AnalysisInput) (*models.SkillsMatch, models.Usage, error)
	CheckFormatFunc   func(ctx context.Context, in models.AnalysisInput) (*models.FormatCheck, models.Usage, error)
	RecommendFunc     func(ctx context.Context, in models.AnalysisInput) ([]models.Recommendation, models.Usage, error)
	ScoreSectionsFunc func(ctx context.Context, in models.AnalysisInput) ([]models.SectionScore, models.Usage, error)
	RoastFunc         func(ctx context.Context, in models.AnalysisInput) (*models.RoastFeedback, models.Usage, error)
}

func (m *MockProvider) Name() string  { return m.Name_ }
func (m *MockProvider) Model() string { return m.Model_ }

func (m *MockProvider) MatchKeywords(ctx context.Context, in models.AnalysisInput) (*models.KeywordMatch, models.Usage, error) {
	if m.MatchKeywordsFunc != nil {
		return m.MatchKeywordsFunc(ctx, in)
	}
	return &models.KeywordMatch{}, models.Usage{}, nil
}

func (m *MockProvider) MatchSkills(ctx context.Context, in models.AnalysisInput) (*models.SkillsMatch, models.Usage, error) {
	if m.MatchSkillsFunc != nil {
		return m.MatchSkillsFunc(ctx, in)
	}
	return &models.SkillsMatch{}, models.Usage{}, nil
}

func (m *MockProvider) CheckFormat(ctx context.Context, in models.AnalysisInput) (*models.FormatCheck, models.Usage, error) {
	if m.CheckFormatFunc != nil {
		return m.CheckFormatFunc(ctx, in)
	}
	return &models.FormatCheck{}, models.Usage{}, nil
}

func (m *MockProvider) Recommend(ctx context.Context, in models.AnalysisInput) ([]models.Recommendation, models.Usage, error) {
	if m.RecommendFunc != nil {
		return m.RecommendFunc(ctx, in)
	}
	return nil, models.Usage{}, nil
}

func (m *MockProvider) ScoreSections(ctx context.Context, in models.AnalysisInput) ([]models.SectionScore, models.Usage, error) {
	if m.ScoreSectionsFunc != nil {
		return m.ScoreSectionsFunc(ctx, in)
	}
	return nil, models.Usage{}, nil
}

func (m *MockProvider) Roast(ctx context.Context, in models.AnalysisInput) (*models.RoastFeedback, models.Usage, error) {
	if m.RoastFunc != nil {
		return m.RoastFunc(ctx, in)
	}
	return &models.RoastFeedback{}, models.Usage{}, nil
}

// NewMockProvider returns a MockProvider with sensible default responses.
func NewMockProvider() *MockProvider {
	usage := models.Usage{PromptTokens: 120, CompletionTokens: 40, TotalTokens: 160}
	return &MockProvider{
		Name_:  "mock",
		Model_: "mock-v1",
		MatchKeywordsFunc: func(_ context.Context, _ models.AnalysisInput) (*models.KeywordMatch, models.Usage, error) {
			return &models.KeywordMatch{
				Score:   80,
				Matched: []models.Keyword{{Keyword: "go", Importance: models.ImportanceHigh}},
				Missing: []models.Keyword{{Keyword: "kubernetes", Importance: models.ImportanceMedium}},
			}, usage, nil
		},
		MatchSkillsFunc: func(_ context.Context, _ models.AnalysisInput) (*models.SkillsMatch, models.Usage, error) {
			return &models.SkillsMatch{
				Score:   70,
				Matched: []models.Keyword{{Keyword: "postgres", Importance: models.ImportanceHigh}},
				Missing: []models.Keyword{{Keyword: "terraform", Importance: models.ImportanceLow}},
				Gaps:    []string{"No infrastructure-as-code experience listed"},
			}, usage, nil
		},
		CheckFormatFunc: func(_ context.Context, _ models.AnalysisInput) (*models.FormatCheck, models.Usage, error) {
			return &models.FormatCheck{
				Score:       60,
				Issues:      []string{"Inconsistent date formats"},
				Suggestions: []string{"Use YYYY-MM throughout"},
			}, usage, nil
		},
		RecommendFunc: func(_ context.Context, _ models.AnalysisInput) ([]models.Recommendation, models.Usage, error) {
			return []models.Recommendation{
				{Priority: 1, Section: "experience", Advice: "Quantify outcomes with numbers"},
				{Priority: 2, Section: "summary", Advice: "Lead with the strongest achievement"},
			}, usage, nil
		},
		ScoreSectionsFunc: func(_ context.Context, _ models.AnalysisInput) ([]models.SectionScore, models.Usage, error) {
			return []models.SectionScore{
				{Section: "experience", Score: 75, Comment: "Solid but verbose"},
				{Section: "education", Score: 85, Comment: "Clear and complete"},
			}, usage, nil
		},
		RoastFunc: func(_ context.Context, _ models.AnalysisInput) (*models.RoastFeedback, models.Usage, error) {
			return &models.RoastFeedback{
				MarketReadiness: 55,
				Tone:            "brutally honest but constructive",
				Feedback:        []string{"Your summary says nothing a recruiter has not read a thousand times"},
			}, usage, nil
		},
	}
}

// NewFailingProvider returns a MockProvider whose every call returns the
// given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_:  "mock-failing",
		Model_: "mock-v1",
		MatchKeywordsFunc: func(_ context.Context, _ models.AnalysisInput) (*models.KeywordMatch, models.Usage, error) {
			return nil, models.Usage{}, err
		},
		MatchSkillsFunc: func(_ context.Context, _ models.AnalysisInput) (*models.SkillsMatch, models.Usage, error) {
			return nil, models.Usage{}, err
		},
		CheckFormatFunc: func(_ context.Context, _ models.AnalysisInput) (*models.FormatCheck, models.Usage, error) {
			return nil, models.Usage{}, err
		},
		RecommendFunc: func(_ context.Context, _ models.AnalysisInput) ([]models.Recommendation, models.Usage, error) {
			return nil, models.Usage{}, err
		},
		ScoreSectionsFunc: func(_ context.Context, _ models.AnalysisInput) ([]models.SectionScore, models.Usage, error) {
			return nil, models.Usage{}, err
		},
		RoastFunc: func(_ context.Context, _ models.AnalysisInput) (*models.RoastFeedback, models.Usage, error) {
			return nil, models.Usage{}, err
		},
	}
}

// NewTimeoutProvider returns a MockProvider whose every call blocks until
// the context is done and then returns its error.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_:  "mock-timeout",
		Model_: "mock-v1",
		MatchKeywordsFunc: func(ctx context.Context, _ models.AnalysisInput) (*models.KeywordMatch, models.Usage, error) {
			<-ctx.Done()
			return nil, models.Usage{}, ctx.Err()
		},
		MatchSkillsFunc: func(ctx context.Context, _ models.AnalysisInput) (*models.SkillsMatch, models.Usage, error) {
			<-ctx.Done()
			return nil, models.Usage{}, ctx.Err()
		},
		CheckFormatFunc: func(ctx context.Context, _ models.AnalysisInput) (*models.FormatCheck, models.Usage, error) {
			<-ctx.Done()
			return nil, models.Usage{}, ctx.Err()
		},
		RecommendFunc: func(ctx context.Context, _ models.AnalysisInput) ([]models.Recommendation, models.Usage, error) {
			<-ctx.Done()
			return nil, models.Usage{}, ctx.Err()
		},
		ScoreSectionsFunc: func(ctx context.Context, _ models.AnalysisInput) ([]models.SectionScore, models.Usage, error) {
			<-ctx.Done()
			return nil, models.Usage{}, ctx.Err()
		},
		RoastFunc: func(ctx context.Context, _ models.AnalysisInput) (*models.RoastFeedback, models.Usage, error) {
			<-ctx.Done()
			return nil, models.Usage{}, ctx.Err()
		},
	}
}

// Compile-time check that MockProvider implements Provider.
var _ models.Provider = (*MockProvider)(nil)
