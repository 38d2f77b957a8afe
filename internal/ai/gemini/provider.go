// Package gemini implements models.Provider against the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/anikamehra/resumelens/internal/ai/prompt"
	"github.com/anikamehra/resumelens/internal/config"
	"github.com/anikamehra/resumelens/pkg/models"
)

// Provider implements models.Provider using Gemini.
type Provider struct {
	client *genai.Client
	model  string
}

func NewProvider(ctx context.Context, cfg config.GeminiConfig) (*Provider, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Provider{client: client, model: cfg.Model}, nil
}

func (p *Provider) Name() string  { return "gemini" }
func (p *Provider) Model() string { return p.model }

func (p *Provider) MatchKeywords(ctx context.Context, in models.AnalysisInput) (*models.KeywordMatch, models.Usage, error) {
	text, usage, err := p.generate(ctx, prompt.Keywords(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeKeywordMatch(text)
	return out, usage, err
}

func (p *Provider) MatchSkills(ctx context.Context, in models.AnalysisInput) (*models.SkillsMatch, models.Usage, error) {
	text, usage, err := p.generate(ctx, prompt.Skills(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeSkillsMatch(text)
	return out, usage, err
}

func (p *Provider) CheckFormat(ctx context.Context, in models.AnalysisInput) (*models.FormatCheck, models.Usage, error) {
	text, usage, err := p.generate(ctx, prompt.Format(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeFormatCheck(text)
	return out, usage, err
}

func (p *Provider) Recommend(ctx context.Context, in models.AnalysisInput) ([]models.Recommendation, models.Usage, error) {
	text, usage, err := p.generate(ctx, prompt.Recommend(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeRecommendations(text)
	return out, usage, err
}

func (p *Provider) ScoreSections(ctx context.Context, in models.AnalysisInput) ([]models.SectionScore, models.Usage, error) {
	text, usage, err := p.generate(ctx, prompt.Sections(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeSectionScores(text)
	return out, usage, err
}

func (p *Provider) Roast(ctx context.Context, in models.AnalysisInput) (*models.RoastFeedback, models.Usage, error) {
	text, usage, err := p.generate(ctx, prompt.Roast(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeRoastFeedback(text)
	return out, usage, err
}

// generate sends one prompt and concatenates all textual candidate parts.
func (p *Provider) generate(ctx context.Context, promptText string) (string, models.Usage, error) {
	var usage models.Usage

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(promptText), nil)
	if err != nil {
		return "", usage, fmt.Errorf("generate content: %w", err)
	}

	if resp.UsageMetadata != nil {
		usage = models.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", usage, errors.New("gemini api returned empty response")
	}
	return output, usage, nil
}

var _ models.Provider = (*Provider)(nil)
