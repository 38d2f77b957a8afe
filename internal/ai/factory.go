// Package ai selects and constructs the configured analysis provider.
package ai

import (
	"context"
	"fmt"

	"github.com/anikamehra/resumelens/internal/ai/gemini"
	"github.com/anikamehra/resumelens/internal/ai/mock"
	"github.com/anikamehra/resumelens/internal/ai/openrouter"
	"github.com/anikamehra/resumelens/internal/config"
	"github.com/anikamehra/resumelens/pkg/models"
)

// NewProvider constructs the appropriate AI provider based on config.
// Called once at server startup.
func NewProvider(ctx context.Context, cfg config.AIConfig) (models.Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return gemini.NewProvider(ctx, cfg.Gemini)
	case "openrouter":
		return openrouter.NewProvider(cfg.OpenRouter), nil
	case "mock":
		return mock.NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of gemini, openrouter, mock", cfg.Provider)
	}
}
