package ratelimit

import (
	"log"
	"sync"
	"time"
)

// AIBudget caps how many Gemini calls a run may spend, split by call kind.
// Limits of 0 mean unlimited. Counters reset daily so a long-lived process
// doesn't starve itself.
type AIBudget struct {
	mu              sync.Mutex
	summaryCount    int
	engagementCount int
	totalCount      int
	maxSummaries    int
	maxEngagement   int
	maxTotal        int
	resetTime       time.Time
	cacheHits       int
	cacheMisses     int
}

func NewAIBudget(maxSummaries, maxEngagement, maxTotal int) *AIBudget {
	return &AIBudget{
		maxSummaries:  maxSummaries,
		maxEngagement: maxEngagement,
		maxTotal:      maxTotal,
		resetTime:     time.Now().Add(24 * time.Hour),
	}
}

// CanSummarize checks whether another summary/promo generation call fits the
// budget.
func (b *AIBudget) CanSummarize() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.maxSummaries > 0 && b.summaryCount >= b.maxSummaries {
		log.Printf("⚠️ summary budget reached (%d/%d)", b.summaryCount, b.maxSummaries)
		return false
	}
	return b.totalOKLocked()
}

// CanPredict checks whether another engagement prediction fits the budget.
func (b *AIBudget) CanPredict() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.checkReset()

	if b.maxEngagement > 0 && b.engagementCount >= b.maxEngagement {
		log.Printf("⚠️ engagement budget reached (%d/%d)", b.engagementCount, b.maxEngagement)
		return false
	}
	return b.totalOKLocked()
}

func (b *AIBudget) totalOKLocked() bool {
	if b.maxTotal > 0 && b.totalCount >= b.maxTotal {
		log.Printf("⚠️ total AI budget reached (%d/%d)", b.totalCount, b.maxTotal)
		return false
	}
	return true
}

func (b *AIBudget) RecordSummary() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.summaryCount++
	b.totalCount++
}

func (b *AIBudget) RecordPrediction() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.engagementCount++
	b.totalCount++
}

func (b *AIBudget) RecordCacheHit() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cacheHits++
}

func (b *AIBudget) RecordCacheMiss() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cacheMisses++
}

// Stats returns spend and cache counters for logging.
func (b *AIBudget) Stats() (summaries, predictions, total, cacheHits, cacheMisses int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.summaryCount, b.engagementCount, b.totalCount, b.cacheHits, b.cacheMisses
}

func (b *AIBudget) checkReset() {
	if time.Now().After(b.resetTime) {
		log.Printf("AI budget daily reset (spent %d calls)", b.totalCount)
		b.summaryCount = 0
		b.engagementCount = 0
		b.totalCount = 0
		b.resetTime = time.Now().Add(24 * time.Hour)
	}
}
