package application

import (
	"context"
	"fmt"
	"strings"

	"contentboost-shopify-layer/internal/domain"
	"contentboost-shopify-layer/internal/infrastructure/metrics"
	"contentboost-shopify-layer/internal/ports"
	"contentboost-shopify-layer/internal/seo"

	"github.com/rs/zerolog"
)

// AnalyzeResult is the response of a standalone content analysis.
type AnalyzeResult struct {
	Score       domain.ScoreResult            `json:"score"`
	Suggestions []string                      `json:"suggestions"`
	Keywords    map[string]domain.KeywordStat `json:"keywords,omitempty"`
}

// OptimizeResult carries generated text plus the score movement it would
// produce if applied.
type OptimizeResult struct {
	Provider  string             `json:"provider"`
	Generated string             `json:"generated"`
	Before    domain.ScoreResult `json:"before"`
	After     domain.ScoreResult `json:"after"`
}

// OptimizeService runs single-item AI optimizations. Every generation is
// bracketed by a before/after score so the caller can judge whether the
// suggestion is an improvement.
type OptimizeService struct {
	providers ports.ProviderRegistry
	scorer    *seo.Scorer
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// NewOptimizeService creates a new optimize service.
func NewOptimizeService(
	providers ports.ProviderRegistry,
	scorer *seo.Scorer,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *OptimizeService {
	return &OptimizeService{
		providers: providers,
		scorer:    scorer,
		metrics:   m,
		logger:    logger,
	}
}

// Analyze scores a content record and returns suggestions plus keyword
// density stats.
func (s *OptimizeService) Analyze(content domain.Content) *AnalyzeResult {
	result := s.scorer.Score(content)
	s.metrics.ScoresComputed.Inc()
	s.metrics.ScoreDistribution.Observe(float64(result.TotalScore))

	analysis := &AnalyzeResult{
		Score:       result,
		Suggestions: s.scorer.SuggestImprovements(content),
	}
	if len(content.Keywords) > 0 {
		analysis.Keywords = s.scorer.KeywordDensity(
			content.Title+" "+content.Description, content.Keywords)
	}
	return analysis
}

// generate runs one AI call with metrics, trimming surrounding whitespace and
// quotes that models like to wrap short outputs in.
func (s *OptimizeService) generate(ctx context.Context, providerName, prompt string) (string, string, error) {
	provider, err := s.providers.Get(providerName)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	text, err := provider.GenerateContent(ctx, prompt)
	if err != nil {
		s.metrics.AICalls.WithLabelValues(provider.Name(), "error").Inc()
		s.logger.Error().Err(err).Str("provider", provider.Name()).Msg("AI generation failed")
		return "", provider.Name(), fmt.Errorf("%w: %s generation failed: %v",
			domain.ErrUpstream, provider.Name(), err)
	}
	s.metrics.AICalls.WithLabelValues(provider.Name(), "success").Inc()

	text = strings.TrimSpace(text)
	text = strings.Trim(text, `"«»`)
	return strings.TrimSpace(text), provider.Name(), nil
}

// OptimizeTitle generates an SEO-optimized title for the content.
func (s *OptimizeService) OptimizeTitle(ctx context.Context, providerName string, content domain.Content) (*OptimizeResult, error) {
	before := s.scorer.Score(content)

	prompt := fmt.Sprintf(
		"Tu es un expert SEO pour le e-commerce. Réécris ce titre de produit pour le référencement. "+
			"Contraintes : 30 à 60 caractères, au moins un mot-clé, un verbe d'action si possible. "+
			"Réponds uniquement avec le titre, sans guillemets ni explication.\n\n"+
			"Titre actuel : %s\nDescription : %s\nMots-clés : %s",
		content.Title, truncate(content.Description, 500), strings.Join(content.Keywords, ", "))

	generated, name, err := s.generate(ctx, providerName, prompt)
	if err != nil {
		return nil, err
	}

	after := content
	after.Title = generated
	after.H1 = generated

	return &OptimizeResult{
		Provider:  name,
		Generated: generated,
		Before:    before,
		After:     s.scorer.Score(after),
	}, nil
}

// OptimizeDescription generates an SEO-optimized description for the content.
func (s *OptimizeService) OptimizeDescription(ctx context.Context, providerName string, content domain.Content) (*OptimizeResult, error) {
	before := s.scorer.Score(content)

	prompt := fmt.Sprintf(
		"Tu es un expert SEO pour le e-commerce. Réécris cette description de produit pour le référencement. "+
			"Contraintes : 120 à 320 caractères, intégrer les mots-clés naturellement, terminer par un appel à l'action. "+
			"Réponds uniquement avec la description, sans explication.\n\n"+
			"Titre : %s\nDescription actuelle : %s\nMots-clés : %s",
		content.Title, truncate(content.Description, 1000), strings.Join(content.Keywords, ", "))

	generated, name, err := s.generate(ctx, providerName, prompt)
	if err != nil {
		return nil, err
	}

	after := content
	after.Description = generated

	return &OptimizeResult{
		Provider:  name,
		Generated: generated,
		Before:    before,
		After:     s.scorer.Score(after),
	}, nil
}

// OptimizeImageAlt generates alt text for one image of the content. The
// after score assumes the alt is applied to every image missing one.
func (s *OptimizeService) OptimizeImageAlt(ctx context.Context, providerName string, content domain.Content) (*OptimizeResult, error) {
	before := s.scorer.Score(content)

	prompt := fmt.Sprintf(
		"Tu es un expert SEO pour le e-commerce. Rédige un texte alternatif d'image concis (moins de 125 caractères) "+
			"décrivant le produit pour l'accessibilité et le référencement. "+
			"Réponds uniquement avec le texte alternatif.\n\n"+
			"Titre du produit : %s\nDescription : %s",
		content.Title, truncate(content.Description, 500))

	generated, name, err := s.generate(ctx, providerName, prompt)
	if err != nil {
		return nil, err
	}

	after := content
	after.Images = make([]domain.Image, len(content.Images))
	copy(after.Images, content.Images)
	for i := range after.Images {
		if strings.TrimSpace(after.Images[i].Alt) == "" {
			after.Images[i].Alt = generated
		}
	}

	return &OptimizeResult{
		Provider:  name,
		Generated: generated,
		Before:    before,
		After:     s.scorer.Score(after),
	}, nil
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
