package intel

import (
	"log"

	"aiscout/internal/domain"
	"aiscout/internal/metrics"
)

// DefaultSimilarityThreshold is the Jaccard score above which two posts are
// treated as the same story.
const DefaultSimilarityThreshold = 0.7

// Dedupe removes exact and near-duplicate posts from a batch, preserving
// input order. The first post seen always wins its duplicate cluster, so the
// result is stable across repeated calls. Exact duplicates are caught by a
// title fingerprint; survivors are compared pairwise against everything
// already accepted, which is O(n²) but fine at tens of posts per cycle.
func Dedupe(posts []domain.Post, threshold float64) []domain.Post {
	if threshold <= 0 {
		threshold = DefaultSimilarityThreshold
	}

	unique := make([]domain.Post, 0, len(posts))
	seen := make(map[string]struct{})

	for _, post := range posts {
		fp := fingerprint(post.Title)
		if _, dup := seen[fp]; dup {
			log.Printf("exact duplicate dropped: %s", post.Title)
			metrics.Global.IncrementDuplicatesFiltered()
			continue
		}

		isDup := false
		for _, kept := range unique {
			sim := Similarity(post.Title+" "+post.Summary, kept.Title+" "+kept.Summary)
			if sim > threshold {
				log.Printf("near duplicate dropped (%.2f): %s", sim, post.Title)
				metrics.Global.IncrementDuplicatesFiltered()
				isDup = true
				break
			}
		}
		if isDup {
			continue
		}

		unique = append(unique, post)
		seen[fp] = struct{}{}
	}

	return unique
}
