package intel

import (
	"testing"
	"time"

	"aiscout/internal/domain"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestUpdateTrending_ReturnsBatchLocalTop(t *testing.T) {
	engine := NewEngine()

	now := time.Now()
	batch := []domain.Post{
		{Title: "a", Published: timePtr(now), Keywords: []string{"ai", "llm"}},
		{Title: "b", Published: timePtr(now.Add(-24 * time.Hour)), Keywords: []string{"ai"}},
		{Title: "c", Keywords: []string{"transformer"}}, // undated counts as fresh
	}

	top := engine.UpdateTrending(batch)
	counts := map[string]int{}
	for _, kc := range top {
		counts[kc.Keyword] = kc.Count
	}

	if counts["ai"] != 2 {
		t.Errorf("ai count = %d, want 2", counts["ai"])
	}
	if counts["llm"] != 1 {
		t.Errorf("llm count = %d, want 1", counts["llm"])
	}
	if counts["transformer"] != 1 {
		t.Errorf("transformer count = %d, want 1", counts["transformer"])
	}
}

func TestUpdateTrending_IgnoresOldPosts(t *testing.T) {
	engine := NewEngine()

	old := time.Now().Add(-4 * 24 * time.Hour)
	top := engine.UpdateTrending([]domain.Post{
		{Title: "stale", Published: timePtr(old), Keywords: []string{"ai"}},
	})

	if len(top) != 0 {
		t.Errorf("got %d trending keywords from a stale batch, want 0", len(top))
	}
}

func TestUpdateTrending_MergesIntoGlobalTable(t *testing.T) {
	engine := NewEngine()

	now := time.Now()
	engine.UpdateTrending([]domain.Post{{Title: "a", Published: timePtr(now), Keywords: []string{"ai"}}})
	engine.UpdateTrending([]domain.Post{{Title: "b", Published: timePtr(now), Keywords: []string{"ai"}}})

	state := engine.Snapshot()
	if state.Trending["ai"] != 2 {
		t.Errorf("global ai count = %d, want 2 after two merges", state.Trending["ai"])
	}
}

func TestRelevanceScore_Bounds(t *testing.T) {
	engine := NewEngine()
	now := time.Now()

	// Seed the trending table so the trending factor is exercised.
	engine.UpdateTrending([]domain.Post{
		{Title: "seed", Published: timePtr(now), Keywords: []string{"ai", "llm", "gpt"}},
	})

	posts := []domain.Post{
		{}, // zero keywords, no timestamp
		{Title: "AI and llm and gpt news", Published: timePtr(now), Keywords: []string{"ai", "llm", "gpt"}},
		{Title: "x", Published: timePtr(now.Add(-30 * 24 * time.Hour))},
		{Title: "many keywords", Keywords: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}},
	}

	for i, post := range posts {
		score := engine.RelevanceScore(post)
		if score < 0 || score > 1 {
			t.Errorf("post %d: score %f out of [0,1]", i, score)
		}
	}
}

func TestRelevanceScore_UndatedTakesNoRecencyPenalty(t *testing.T) {
	engine := NewEngine()

	undated := engine.RelevanceScore(domain.Post{Title: "x"})
	stale := engine.RelevanceScore(domain.Post{Title: "x", Published: timePtr(time.Now().Add(-30 * 24 * time.Hour))})

	if undated <= stale {
		t.Errorf("undated score %f should beat stale score %f", undated, stale)
	}
}

func TestRelevanceScore_TrendingAlignmentRaisesScore(t *testing.T) {
	engine := NewEngine()
	now := time.Now()
	engine.UpdateTrending([]domain.Post{
		{Title: "seed", Published: timePtr(now), Keywords: []string{"transformer"}},
	})

	aligned := engine.RelevanceScore(domain.Post{Title: "new transformer architecture", Published: timePtr(now)})
	offTopic := engine.RelevanceScore(domain.Post{Title: "quarterly earnings report", Published: timePtr(now)})

	if aligned <= offTopic {
		t.Errorf("trending-aligned score %f should beat off-topic score %f", aligned, offTopic)
	}
}

func TestLearn_PersonalizedScoreMonotonic(t *testing.T) {
	engine := NewEngine()

	approved := []domain.Post{
		{Title: "a", Source: "DeepMind Blog", Keywords: []string{"ai", "deep learning"}},
		{Title: "b", Source: "DeepMind Blog", Keywords: []string{"ai"}},
	}
	candidate := domain.Post{Title: "c", Source: "DeepMind Blog", Keywords: []string{"ai"}}

	engine.Learn(approved)
	first := engine.PersonalizedScore(candidate)

	engine.Learn(approved)
	second := engine.PersonalizedScore(candidate)

	if first <= 0 {
		t.Fatalf("expected positive score after learning, got %f", first)
	}
	if second < first {
		t.Errorf("score decreased after repeated learning: %f then %f", first, second)
	}
}

func TestPersonalizedScore_SourceWeighsDouble(t *testing.T) {
	engine := NewEngine()
	engine.Learn([]domain.Post{{Title: "a", Source: "PyTorch Blog", Keywords: []string{"ml"}}})

	bySource := engine.PersonalizedScore(domain.Post{Source: "PyTorch Blog"})
	byKeyword := engine.PersonalizedScore(domain.Post{Source: "elsewhere", Keywords: []string{"ml"}})

	if bySource != 0.2 {
		t.Errorf("source-only score = %f, want 0.2", bySource)
	}
	if byKeyword != 0.1 {
		t.Errorf("keyword-only score = %f, want 0.1", byKeyword)
	}
}

func TestPersonalizedScore_UnknownPostIsZero(t *testing.T) {
	engine := NewEngine()
	if got := engine.PersonalizedScore(domain.Post{Source: "anything", Keywords: []string{"ai"}}); got != 0 {
		t.Errorf("got %f on an empty profile, want 0", got)
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	engine := NewEngine()
	now := time.Now()

	engine.UpdateTrending([]domain.Post{{Title: "a", Published: timePtr(now), Keywords: []string{"ai"}}})
	engine.Learn([]domain.Post{{Title: "a", Source: "Wired AI", Keywords: []string{"ai"}}})

	state := engine.Snapshot()

	restored := NewEngine()
	restored.Restore(state)

	candidate := domain.Post{Source: "Wired AI", Keywords: []string{"ai"}}
	if got, want := restored.PersonalizedScore(candidate), engine.PersonalizedScore(candidate); got != want {
		t.Errorf("restored personalized score %f, want %f", got, want)
	}

	restoredState := restored.Snapshot()
	if restoredState.Trending["ai"] != state.Trending["ai"] {
		t.Errorf("restored trending count %d, want %d", restoredState.Trending["ai"], state.Trending["ai"])
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	engine := NewEngine()
	engine.Learn([]domain.Post{{Title: "a", Source: "Wired AI", Keywords: []string{"ai"}}})

	state := engine.Snapshot()
	state.Preferences["ai"] = 100

	if got := engine.PersonalizedScore(domain.Post{Keywords: []string{"ai"}}); got != 0.1 {
		t.Errorf("mutating a snapshot leaked into the engine: score %f, want 0.1", got)
	}
}
