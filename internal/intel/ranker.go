package intel

import (
	"context"
	"log"
	"sort"

	"aiscout/internal/domain"
	"aiscout/internal/metrics"
)

// EngagementEstimator predicts how well a post's promo text will perform.
// The Gemini client implements this; tests substitute their own.
type EngagementEstimator interface {
	PredictEngagement(ctx context.Context, title, promo string) (domain.Engagement, error)
}

// Rank deduplicates a batch, scores every survivor for relevance,
// personalization and predicted engagement, and returns the batch ordered by
// composite score, highest first. The sort is stable: equal composites keep
// their input order.
//
// A failed engagement call downgrades that one post to neutral sub-scores
// and never aborts the batch. A nil estimator neutral-scores everything.
func (e *Engine) Rank(ctx context.Context, posts []domain.Post, estimator EngagementEstimator, threshold float64) []domain.Post {
	unique := Dedupe(posts, threshold)

	for i := range unique {
		relevance := e.RelevanceScore(unique[i])
		personalization := e.PersonalizedScore(unique[i])

		engagement := domain.NeutralEngagement()
		if estimator != nil {
			predicted, err := estimator.PredictEngagement(ctx, unique[i].Title, unique[i].Promo)
			if err != nil {
				log.Printf("⚠️ engagement prediction failed for %q: %v", unique[i].Title, err)
				metrics.Global.IncrementEngagementFallbacks()
			} else {
				engagement = predicted
			}
		}

		unique[i].Scores = domain.Scores{
			Relevance:       relevance,
			Personalization: personalization,
			Engagement:      engagement,
			Composite: relevance*0.3 +
				personalization*0.3 +
				float64(engagement.Overall)/10*0.4,
		}
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].Scores.Composite > unique[j].Scores.Composite
	})

	return unique
}
