package ai

import (
	"context"
	"fmt"

	"contentboost-shopify-layer/internal/ports"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

const anthropicMaxTokens = 1024

// AnthropicProvider generates content through the Anthropic messages API.
type AnthropicProvider struct {
	client *anthropic.Client
	model  anthropic.Model
}

// NewAnthropicProvider creates an Anthropic provider. An empty model selects
// a sensible default.
func NewAnthropicProvider(apiKey string, model string) ports.AIProvider {
	m := anthropic.Model(model)
	if model == "" {
		m = anthropic.ModelClaude3Dot5HaikuLatest
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(apiKey),
		model:  m,
	}
}

// Name returns the provider identifier.
func (p *AnthropicProvider) Name() string { return "anthropic" }

// GenerateContent runs a single-turn message exchange.
func (p *AnthropicProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     p.model,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty message response")
	}
	return resp.Content[0].GetText(), nil
}
