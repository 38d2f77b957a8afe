// Package openrouter implements models.Provider against the OpenRouter
// chat-completions API.
package openrouter

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"github.com/anikamehra/resumelens/internal/ai/prompt"
	"github.com/anikamehra/resumelens/internal/config"
	"github.com/anikamehra/resumelens/pkg/models"
)

// Provider implements models.Provider using OpenRouter.
type Provider struct {
	client *resty.Client
	model  string
}

func NewProvider(cfg config.OpenRouterConfig) *Provider {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &Provider{client: client, model: cfg.Model}
}

func (p *Provider) Name() string  { return "openrouter" }
func (p *Provider) Model() string { return p.model }

func (p *Provider) MatchKeywords(ctx context.Context, in models.AnalysisInput) (*models.KeywordMatch, models.Usage, error) {
	text, usage, err := p.complete(ctx, prompt.Keywords(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeKeywordMatch(text)
	return out, usage, err
}

func (p *Provider) MatchSkills(ctx context.Context, in models.AnalysisInput) (*models.SkillsMatch, models.Usage, error) {
	text, usage, err := p.complete(ctx, prompt.Skills(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeSkillsMatch(text)
	return out, usage, err
}

func (p *Provider) CheckFormat(ctx context.Context, in models.AnalysisInput) (*models.FormatCheck, models.Usage, error) {
	text, usage, err := p.complete(ctx, prompt.Format(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeFormatCheck(text)
	return out, usage, err
}

func (p *Provider) Recommend(ctx context.Context, in models.AnalysisInput) ([]models.Recommendation, models.Usage, error) {
	text, usage, err := p.complete(ctx, prompt.Recommend(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeRecommendations(text)
	return out, usage, err
}

func (p *Provider) ScoreSections(ctx context.Context, in models.AnalysisInput) ([]models.SectionScore, models.Usage, error) {
	text, usage, err := p.complete(ctx, prompt.Sections(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeSectionScores(text)
	return out, usage, err
}

func (p *Provider) Roast(ctx context.Context, in models.AnalysisInput) (*models.RoastFeedback, models.Usage, error) {
	text, usage, err := p.complete(ctx, prompt.Roast(in))
	if err != nil {
		return nil, usage, err
	}
	out, err := prompt.DecodeRoastFeedback(text)
	return out, usage, err
}

// complete runs one chat completion and returns the first message's content.
func (p *Provider) complete(ctx context.Context, promptText string) (string, models.Usage, error) {
	var usage models.Usage

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model": p.model,
			"messages": []map[string]string{
				{"role": "user", "content": promptText},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return "", usage, fmt.Errorf("openrouter request: %w", err)
	}
	if resp.IsError() {
		return "", usage, fmt.Errorf("openrouter returned status %d: %s", resp.StatusCode(), resp.String())
	}

	body := resp.String()
	usage = models.Usage{
		PromptTokens:     int(gjson.Get(body, "usage.prompt_tokens").Int()),
		CompletionTokens: int(gjson.Get(body, "usage.completion_tokens").Int()),
		TotalTokens:      int(gjson.Get(body, "usage.total_tokens").Int()),
	}

	text := gjson.Get(body, "choices.0.message.content").String()
	if text == "" {
		return "", usage, fmt.Errorf("openrouter returned no message content")
	}
	return text, usage, nil
}

var _ models.Provider = (*Provider)(nil)
