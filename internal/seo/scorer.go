package seo

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"contentboost-shopify-layer/internal/domain"

	"github.com/rs/zerolog"
)

// Criterion weights. Structure folds the h1/h2/h3 shares together.
const (
	weightTitle         = 15
	weightDescription   = 20
	weightKeywords      = 15
	weightImageQuality  = 10
	weightStructure     = 25 // h1 (10) + h2 (10) + h3 (5)
	weightContentLength = 5
)

// genericKeywords are e-commerce terms whose presence in a title or
// description earns the keyword-presence bonus. Matching is case-insensitive
// substring matching.
var genericKeywords = []string{
	"achat", "acheter", "premium", "qualité", "livraison", "gratuit",
	"meilleur", "nouveau", "promo", "solde", "collection",
	"buy", "shop", "best", "new", "free", "quality", "sale", "deal", "offer",
}

// actionWords earn the title action-word bonus.
var actionWords = []string{
	"découvrez", "découvrir", "profitez", "commandez", "obtenez", "essayez",
	"buy", "get", "shop", "discover", "try", "order", "save",
}

// ctaPhrases earn the description call-to-action bonus.
var ctaPhrases = []string{
	"achetez maintenant", "commandez", "découvrez", "profitez",
	"en savoir plus", "ajouter au panier",
	"buy now", "shop now", "order now", "add to cart", "learn more",
}

// Scorer computes deterministic, explainable SEO scores over content records.
// All methods are pure; the logger is only used when the aggregate recovers
// from an internal failure.
type Scorer struct {
	logger zerolog.Logger
}

// NewScorer creates a new SEO scorer.
func NewScorer(logger zerolog.Logger) *Scorer {
	return &Scorer{logger: logger}
}

func clamp(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}

func containsAnyFold(s string, terms []string) bool {
	lower := strings.ToLower(s)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// TitleScore scores a title in [0,100]. Length is worth up to 40 points
// (optimal 30-60 characters), generic keyword presence 30, a separator 15,
// and an action word 15.
func (sc *Scorer) TitleScore(title string) int {
	if title == "" {
		return 0
	}

	length := len([]rune(title))
	var score float64
	switch {
	case length >= 30 && length <= 60:
		score = 40
	case length > 60:
		score = math.Max(0, 40-2*float64(length-60))
	default:
		score = 1.3 * float64(length)
	}

	if containsAnyFold(title, genericKeywords) {
		score += 30
	}
	if strings.ContainsAny(title, "-|") {
		score += 15
	}
	if containsAnyFold(title, actionWords) {
		score += 15
	}

	return clamp(score)
}

// DescriptionScore scores a description in [0,100]. Length is worth up to 40
// points (optimal 120-320 characters), keyword presence 30, a call-to-action
// phrase 20, and basic sentence structure 10.
func (sc *Scorer) DescriptionScore(description string) int {
	if description == "" {
		return 0
	}

	length := len([]rune(description))
	var score float64
	switch {
	case length >= 120 && length <= 320:
		score = 40
	case length > 320:
		score = math.Max(0, 40-0.5*float64(length-320))
	default:
		score = 0.3 * float64(length)
	}

	if containsAnyFold(description, genericKeywords) {
		score += 30
	}
	if containsAnyFold(description, ctaPhrases) {
		score += 20
	}
	if strings.Contains(description, "\n") || strings.Contains(description, ".") {
		score += 10
	}

	return clamp(score)
}

// KeywordsScore scores a keyword set in [0,100]: 30 points for count
// (optimal 3-10), 40 for coverage in title+description, 30 for uniqueness.
func (sc *Scorer) KeywordsScore(keywords []string, title, description string) int {
	if len(keywords) == 0 {
		return 0
	}

	count := len(keywords)
	var score float64
	switch {
	case count >= 3 && count <= 10:
		score = 30
	case count > 10:
		score = math.Max(0, 30-3*float64(count-10))
	default:
		score = 30 * float64(count) / 3
	}

	haystack := strings.ToLower(title + " " + description)
	found := 0
	seen := make(map[string]struct{}, count)
	unique := 0
	for _, kw := range keywords {
		lower := strings.ToLower(strings.TrimSpace(kw))
		if strings.Contains(haystack, lower) {
			found++
		}
		if _, dup := seen[lower]; !dup {
			seen[lower] = struct{}{}
			unique++
		}
	}

	score += 40 * float64(found) / float64(count)
	score += 30 * float64(unique) / float64(count)

	return clamp(score)
}

// ImageScore scores an image set in [0,100]: 30 points for count (optimal
// 1-5), 40 for resolution (at least 800x600), 30 for alt-text coverage.
func (sc *Scorer) ImageScore(images []domain.Image) int {
	if len(images) == 0 {
		return 0
	}

	count := len(images)
	var score float64
	if count <= 5 {
		score = 30
	} else {
		score = math.Max(0, 30-3*float64(count-5))
	}

	quality := 0
	withAlt := 0
	for _, img := range images {
		if img.Width >= 800 && img.Height >= 600 {
			quality++
		}
		if strings.TrimSpace(img.Alt) != "" {
			withAlt++
		}
	}

	score += 40 * float64(quality) / float64(count)
	score += 30 * float64(withAlt) / float64(count)

	return clamp(score)
}

// StructureScore scores heading structure in [0,100]: 30 points for an H1,
// 10 per H2 capped at 40, 5 per H3 capped at 30.
func (sc *Scorer) StructureScore(content domain.Content) int {
	var score float64
	if strings.TrimSpace(content.H1) != "" {
		score += 30
	}
	score += math.Min(40, 10*float64(len(content.H2)))
	score += math.Min(30, 5*float64(len(content.H3)))
	return clamp(score)
}

// ContentLengthScore scores the combined title+description length in [0,100]:
// 100 for 500-2000 characters, a gentle falloff above, a linear ramp below.
func (sc *Scorer) ContentLengthScore(content domain.Content) int {
	total := len([]rune(content.Title)) + len([]rune(content.Description))
	switch {
	case total >= 500 && total <= 2000:
		return 100
	case total > 2000:
		return clamp(100 - 0.02*float64(total-2000))
	default:
		return clamp(0.2 * float64(total))
	}
}

// Score computes all sub-scores, weights them into a 0-100 total, and builds
// human-readable improvement details for every criterion below 70. Scoring
// never propagates a failure to the caller: an internal panic yields a zeroed
// result with a single error detail.
func (sc *Scorer) Score(content domain.Content) (result domain.ScoreResult) {
	defer func() {
		if r := recover(); r != nil {
			sc.logger.Error().Interface("panic", r).Msg("SEO scoring failed")
			result = domain.ScoreResult{
				Details: []string{"Erreur lors de l'analyse SEO du contenu"},
			}
		}
	}()

	scores := domain.SubScores{
		Title:         sc.TitleScore(content.Title),
		Description:   sc.DescriptionScore(content.Description),
		Keywords:      sc.KeywordsScore(content.Keywords, content.Title, content.Description),
		ImageQuality:  sc.ImageScore(content.Images),
		Structure:     sc.StructureScore(content),
		ContentLength: sc.ContentLengthScore(content),
	}

	total := float64(scores.Title)*weightTitle +
		float64(scores.Description)*weightDescription +
		float64(scores.Keywords)*weightKeywords +
		float64(scores.ImageQuality)*weightImageQuality +
		float64(scores.Structure)*weightStructure +
		float64(scores.ContentLength)*weightContentLength

	var details []string
	if scores.Title < 70 {
		details = append(details,
			"Optimiser la longueur du titre (30-60 caractères)",
			"Ajouter des mots-clés pertinents dans le titre")
	}
	if scores.Description < 70 {
		details = append(details,
			"Rédiger une description de 120 à 320 caractères",
			"Ajouter un appel à l'action dans la description")
	}
	if scores.Keywords < 70 {
		details = append(details,
			"Définir 3 à 10 mots-clés uniques et les utiliser dans le titre et la description")
	}
	if scores.ImageQuality < 70 {
		details = append(details,
			"Ajouter des images d'au moins 800x600 avec un texte alternatif")
	}
	if scores.Structure < 70 {
		details = append(details,
			"Structurer le contenu avec des balises H1, H2 et H3")
	}
	if scores.ContentLength < 70 {
		details = append(details,
			"Étoffer le contenu (500 à 2000 caractères au total)")
	}
	if len(details) == 0 {
		details = []string{"Contenu bien optimisé pour le SEO"}
	}

	return domain.ScoreResult{
		TotalScore: int(math.Round(total / 100)),
		Scores:     scores,
		Details:    details,
	}
}

// SuggestImprovements returns a prioritized suggestion list: a tier message
// for the total score followed by one line per sub-score under 50.
func (sc *Scorer) SuggestImprovements(content domain.Content) []string {
	result := sc.Score(content)

	var suggestions []string
	switch {
	case result.TotalScore < 50:
		suggestions = append(suggestions, "Des améliorations majeures sont nécessaires")
	case result.TotalScore < 70:
		suggestions = append(suggestions, "Des améliorations modérées sont recommandées")
	case result.TotalScore < 90:
		suggestions = append(suggestions, "Quelques améliorations mineures sont possibles")
	default:
		suggestions = append(suggestions, "Maintenir le niveau d'optimisation actuel")
	}

	for _, c := range []struct {
		name  string
		score int
	}{
		{"title", result.Scores.Title},
		{"description", result.Scores.Description},
		{"keywords", result.Scores.Keywords},
		{"imageQuality", result.Scores.ImageQuality},
		{"structure", result.Scores.Structure},
		{"contentLength", result.Scores.ContentLength},
	} {
		if c.score < 50 {
			suggestions = append(suggestions,
				fmt.Sprintf("Améliorer « %s » (score actuel : %d/100)", c.name, c.score))
		}
	}

	return suggestions
}

// KeywordDensity counts case-insensitive occurrences of each keyword in the
// text and reports its density as a percentage of the word count, rounded to
// two decimals.
func (sc *Scorer) KeywordDensity(text string, keywords []string) map[string]domain.KeywordStat {
	stats := make(map[string]domain.KeywordStat, len(keywords))
	words := len(strings.Fields(text))

	for _, kw := range keywords {
		if strings.TrimSpace(kw) == "" {
			continue
		}
		re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(kw))
		if err != nil {
			continue
		}
		count := len(re.FindAllStringIndex(text, -1))
		density := 0.0
		if words > 0 {
			density = math.Round(float64(count)/float64(words)*100*100) / 100
		}
		stats[kw] = domain.KeywordStat{Count: count, Density: density}
	}

	return stats
}
