package application

import (
	"context"
	"fmt"
	"testing"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/infrastructure/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOptimizeService(providers ...*stubAIProvider) *OptimizeService {
	registry := newStubRegistry()
	for _, p := range providers {
		registry.providers[p.name] = p
	}
	return NewOptimizeService(
		registry,
		newTestScorer(),
		metrics.New(prometheus.NewRegistry()),
		zerolog.Nop(),
	)
}

func TestAnalyze(t *testing.T) {
	svc := newOptimizeService()

	analysis := svc.Analyze(domain.Content{
		Title:       "Chaussures en cuir",
		Description: "Des chaussures en cuir.",
		Keywords:    []string{"cuir"},
	})

	require.NotNil(t, analysis)
	assert.GreaterOrEqual(t, analysis.Score.TotalScore, 0)
	assert.LessOrEqual(t, analysis.Score.TotalScore, 100)
	assert.NotEmpty(t, analysis.Suggestions)
	require.Contains(t, analysis.Keywords, "cuir")
	assert.Equal(t, 2, analysis.Keywords["cuir"].Count)
}

func TestOptimizeTitle(t *testing.T) {
	svc := newOptimizeService(&stubAIProvider{
		name:     "openai",
		response: `"Découvrez nos chaussures en cuir premium - qualité garantie"`,
	})

	content := domain.Content{Title: "chaussures", Description: "des chaussures"}
	result, err := svc.OptimizeTitle(context.Background(), "openai", content)
	require.NoError(t, err)

	// Wrapping quotes from the model are stripped.
	assert.Equal(t, "Découvrez nos chaussures en cuir premium - qualité garantie", result.Generated)
	assert.Equal(t, "openai", result.Provider)
	assert.Greater(t, result.After.Scores.Title, result.Before.Scores.Title)
}

func TestOptimizeDescription(t *testing.T) {
	svc := newOptimizeService(&stubAIProvider{
		name: "anthropic",
		response: "Des chaussures en cuir pleine fleur, cousues main pour un confort durable. " +
			"Qualité premium et livraison gratuite. Commandez maintenant.",
	})

	content := domain.Content{Title: "Chaussures", Description: "du cuir"}
	result, err := svc.OptimizeDescription(context.Background(), "anthropic", content)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", result.Provider)
	assert.Greater(t, result.After.Scores.Description, result.Before.Scores.Description)
}

func TestOptimizeImageAlt_FillsOnlyMissingAlts(t *testing.T) {
	svc := newOptimizeService(&stubAIProvider{
		name:     "gemini",
		response: "Chaussures en cuir marron vues de face",
	})

	content := domain.Content{
		Title: "Chaussures",
		Images: []domain.Image{
			{Width: 1200, Height: 800, Alt: "déjà renseigné"},
			{Width: 1200, Height: 800},
		},
	}
	result, err := svc.OptimizeImageAlt(context.Background(), "gemini", content)
	require.NoError(t, err)

	assert.Equal(t, "Chaussures en cuir marron vues de face", result.Generated)
	assert.Greater(t, result.After.Scores.ImageQuality, result.Before.Scores.ImageQuality)
	// The input content is untouched.
	assert.Empty(t, content.Images[1].Alt)
}

func TestOptimize_UnknownProvider(t *testing.T) {
	svc := newOptimizeService()

	_, err := svc.OptimizeTitle(context.Background(), "mistral", domain.Content{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestOptimize_ProviderFailure(t *testing.T) {
	svc := newOptimizeService(&stubAIProvider{
		name: "openai",
		err:  fmt.Errorf("rate limited"),
	})

	_, err := svc.OptimizeTitle(context.Background(), "openai", domain.Content{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
