package domain

// Image carries the attributes of a product or collection image that are
// relevant for SEO scoring.
type Image struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Alt    string `json:"alt"`
}

// Content is the ephemeral record the SEO scorer operates on. It is assembled
// on demand from a Shopify product or collection and never persisted as such.
type Content struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Images      []Image  `json:"images"`
	H1          string   `json:"h1"`
	H2          []string `json:"h2"`
	H3          []string `json:"h3"`
}

// SubScores holds the per-criterion scores, each in [0,100].
type SubScores struct {
	Title         int `json:"title"`
	Description   int `json:"description"`
	Keywords      int `json:"keywords"`
	ImageQuality  int `json:"imageQuality"`
	Structure     int `json:"structure"`
	ContentLength int `json:"contentLength"`
}

// ScoreResult is the output of a full SEO evaluation.
type ScoreResult struct {
	TotalScore int       `json:"totalScore"`
	Scores     SubScores `json:"scores"`
	Details    []string  `json:"details"`
}

// KeywordStat describes how often a keyword occurs in a text and what share
// of the text's words it accounts for.
type KeywordStat struct {
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}
