package metrics

import (
	"sync"
	"time"
)

// Metrics tracks pipeline counters for the optional monitoring endpoints.
type Metrics struct {
	mu sync.RWMutex

	// Counters
	PostsFetched        int64
	SourcesSucceeded    int64
	SourcesFailed       int64
	DuplicatesFiltered  int64
	SummariesGenerated  int64
	SummaryFallbacks    int64
	EngagementFallbacks int64

	// Timings
	LastCycleTime    time.Duration
	TotalCycleTime   time.Duration
	AverageCycleTime time.Duration
	CycleCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) AddPostsFetched(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PostsFetched += int64(n)
}

func (m *Metrics) IncrementSourcesSucceeded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesSucceeded++
}

func (m *Metrics) IncrementSourcesFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFailed++
}

func (m *Metrics) IncrementDuplicatesFiltered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesFiltered++
}

func (m *Metrics) IncrementSummariesGenerated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummariesGenerated++
}

func (m *Metrics) IncrementSummaryFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryFallbacks++
}

func (m *Metrics) IncrementEngagementFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EngagementFallbacks++
}

func (m *Metrics) RecordCycleTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastCycleTime = duration
	m.TotalCycleTime += duration
	m.CycleCount++

	if m.CycleCount > 0 {
		m.AverageCycleTime = m.TotalCycleTime / time.Duration(m.CycleCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"posts_fetched":         m.PostsFetched,
		"sources_succeeded":     m.SourcesSucceeded,
		"sources_failed":        m.SourcesFailed,
		"duplicates_filtered":   m.DuplicatesFiltered,
		"summaries_generated":   m.SummariesGenerated,
		"summary_fallbacks":     m.SummaryFallbacks,
		"engagement_fallbacks":  m.EngagementFallbacks,
		"last_cycle_time_ms":    m.LastCycleTime.Milliseconds(),
		"average_cycle_time_ms": m.AverageCycleTime.Milliseconds(),
		"last_run_time":         m.LastRunTime.Format(time.RFC3339),
		"last_error_time":       m.LastErrorTime.Format(time.RFC3339),
		"last_error":            m.LastError,
		"is_healthy":            m.IsHealthy,
	}
}
