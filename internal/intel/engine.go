// Package intel holds the content intelligence core: deduplication,
// trending-topic tracking, relevance scoring, preference learning and the
// ranking orchestrator that composes them.
package intel

import (
	"sort"
	"strings"
	"sync"
	"time"

	"aiscout/internal/domain"
	"aiscout/internal/keywords"
)

// DefaultTrendingWindow is how far back a post may be published and still
// feed the trending keyword table.
const DefaultTrendingWindow = 3 * 24 * time.Hour

// Engine owns the two pieces of shared mutable state in the pipeline: the
// trending keyword table and the learned preference profile. Both are
// process-lifetime unless the caller persists a Snapshot. All table access
// goes through one mutex; ranking cycles may run concurrently.
type Engine struct {
	mu             sync.Mutex
	trending       map[string]int
	preferences    map[string]int
	trendingWindow time.Duration
}

// Option tweaks an Engine at construction time.
type Option func(*Engine)

// WithTrendingWindow overrides the recency cutoff for trending tallies.
func WithTrendingWindow(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.trendingWindow = d
		}
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		trending:       make(map[string]int),
		preferences:    make(map[string]int),
		trendingWindow: DefaultTrendingWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// KeywordCount is one trending table entry.
type KeywordCount struct {
	Keyword string
	Count   int
}

// UpdateTrending tallies matched keywords from recent posts (inside the
// trending window) and merges the tally into the global table. The returned
// top 10 comes from the batch-local tally, not the merged table.
func (e *Engine) UpdateTrending(posts []domain.Post) []KeywordCount {
	local := make(map[string]int)
	cutoff := time.Now().Add(-e.trendingWindow)

	for _, post := range posts {
		// Undated posts count as just created.
		published := time.Now()
		if post.Published != nil {
			published = *post.Published
		}
		if published.Before(cutoff) {
			continue
		}
		for _, kw := range post.Keywords {
			n := keywords.Normalize(kw)
			if n != "" {
				local[n]++
			}
		}
	}

	e.mu.Lock()
	for kw, count := range local {
		e.trending[kw] += count
	}
	e.mu.Unlock()

	return topCounts(local, 10)
}

// RelevanceScore combines trending alignment (0.4), recency decay over 7
// days (0.3) and keyword density (0.3) into one clamped [0,1] value. Posts
// without a date take no recency penalty, consistent with the aggregator's
// keep-on-missing-date policy.
func (e *Engine) RelevanceScore(post domain.Post) float64 {
	text := strings.ToLower(post.Title + " " + post.Summary)

	e.mu.Lock()
	top := topCounts(e.trending, 10)
	maxCount := 0
	for _, count := range e.trending {
		if count > maxCount {
			maxCount = count
		}
	}
	e.mu.Unlock()

	trendingScore := 0.0
	if maxCount > 0 {
		for _, kc := range top {
			if strings.Contains(text, kc.Keyword) {
				trendingScore += float64(kc.Count) / float64(maxCount)
			}
		}
	}

	recencyScore := 1.0
	if post.Published != nil {
		daysOld := int(time.Since(*post.Published).Hours() / 24)
		recencyScore = 1 - float64(daysOld)/7
		if recencyScore < 0 {
			recencyScore = 0
		}
	}

	keywordScore := float64(len(post.Keywords)) / 10

	score := trendingScore*0.4 + recencyScore*0.3 + keywordScore*0.3
	return clamp01(score)
}

// Learn bumps preference weights from a caller-supplied set of approved
// posts: +1 per matched keyword and +1 for the post's source sentinel.
// Weights only grow; there is no decay.
func (e *Engine) Learn(approved []domain.Post) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, post := range approved {
		for _, kw := range post.Keywords {
			n := keywords.Normalize(kw)
			if n != "" {
				e.preferences[n]++
			}
		}
		if post.Source != "" {
			e.preferences["source:"+post.Source]++
		}
	}
}

// PersonalizedScore scores a post against the learned profile: weight/10 per
// matched keyword plus weight/5 for the source sentinel, capped at 1. Source
// preference deliberately counts double per unit of weight.
func (e *Engine) PersonalizedScore(post domain.Post) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	score := 0.0
	for _, kw := range post.Keywords {
		n := keywords.Normalize(kw)
		if w, ok := e.preferences[n]; ok {
			score += float64(w) / 10
		}
	}
	if w, ok := e.preferences["source:"+post.Source]; ok {
		score += float64(w) / 5
	}

	return clamp01(score)
}

func topCounts(table map[string]int, n int) []KeywordCount {
	counts := make([]KeywordCount, 0, len(table))
	for kw, count := range table {
		counts = append(counts, KeywordCount{Keyword: kw, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Keyword < counts[j].Keyword
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
