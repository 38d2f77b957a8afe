package ai_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anikamehra/resumelens/internal/ai"
	"github.com/anikamehra/resumelens/internal/config"
)

func TestNewProvider_OpenRouter(t *testing.T) {
	cfg := config.AIConfig{
		Provider: "openrouter",
		OpenRouter: config.OpenRouterConfig{
			APIKey:  "sk-test",
			Model:   "openai/gpt-4o-mini",
			BaseURL: "https://openrouter.ai/api/v1",
		},
	}
	p, err := ai.NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "openrouter", p.Name())
	assert.Equal(t, "openai/gpt-4o-mini", p.Model())
}

func TestNewProvider_Mock(t *testing.T) {
	cfg := config.AIConfig{Provider: "mock"}
	p, err := ai.NewProvider(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())
}

func TestNewProvider_Unknown(t *testing.T) {
	cfg := config.AIConfig{Provider: "unknown-provider"}
	_, err := ai.NewProvider(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown AI provider")
	assert.Contains(t, err.Error(), "unknown-provider")
}

func TestNewProvider_Empty(t *testing.T) {
	cfg := config.AIConfig{Provider: ""}
	_, err := ai.NewProvider(context.Background(), cfg)
	require.Error(t, err)
}
