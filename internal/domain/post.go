package domain

import "time"

// Post is a single discovered piece of content, from first fetch through
// ranking. URL is the identity key once persisted.
type Post struct {
	Title     string
	URL       string
	Content   string
	Published *time.Time // nil when the source gave no reliable date
	Source    string
	Keywords  []string // matched vocabulary terms, in vocabulary order

	// Filled in by the generation service.
	Summary string
	Promo   string

	// Filled in by the ranking orchestrator.
	Scores Scores
}

// Engagement is the 1-10 sub-score set predicted for a post's promo text.
type Engagement struct {
	Engagement   int
	Shareability int
	Relevance    int
	Trending     int
	Overall      int
}

// NeutralEngagement is the substitute used when prediction fails.
func NeutralEngagement() Engagement {
	return Engagement{Engagement: 5, Shareability: 5, Relevance: 5, Trending: 5, Overall: 5}
}

// Scores carries the ranking breakdown attached to a post so callers can
// audit why it landed where it did.
type Scores struct {
	Relevance       float64
	Personalization float64
	Engagement      Engagement
	Composite       float64
}
