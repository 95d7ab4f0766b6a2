package intel

import (
	"context"
	"errors"
	"testing"

	"aiscout/internal/domain"
)

type fakeEstimator struct {
	scores map[string]domain.Engagement
	failOn string
	calls  int
}

func (f *fakeEstimator) PredictEngagement(_ context.Context, title, _ string) (domain.Engagement, error) {
	f.calls++
	if title == f.failOn {
		return domain.Engagement{}, errors.New("model unavailable")
	}
	if eng, ok := f.scores[title]; ok {
		return eng, nil
	}
	return domain.NeutralEngagement(), nil
}

func TestRank_OrdersByComposite(t *testing.T) {
	engine := NewEngine()

	posts := []domain.Post{
		post("Quarterly cloud revenue climbs again", ""),
		post("Robotics lab ships household assistant", ""),
	}
	estimator := &fakeEstimator{scores: map[string]domain.Engagement{
		"Quarterly cloud revenue climbs again":   {Engagement: 2, Shareability: 2, Relevance: 2, Trending: 2, Overall: 2},
		"Robotics lab ships household assistant": {Engagement: 9, Shareability: 9, Relevance: 9, Trending: 9, Overall: 9},
	}}

	ranked := engine.Rank(context.Background(), posts, estimator, DefaultSimilarityThreshold)

	if len(ranked) != 2 {
		t.Fatalf("got %d posts, want 2", len(ranked))
	}
	if ranked[0].Title != "Robotics lab ships household assistant" {
		t.Errorf("top post = %q, want the high-engagement one", ranked[0].Title)
	}
	if ranked[0].Scores.Composite <= ranked[1].Scores.Composite {
		t.Errorf("composites not descending: %f then %f",
			ranked[0].Scores.Composite, ranked[1].Scores.Composite)
	}
}

func TestRank_EstimatorFailureDowngradesOnePost(t *testing.T) {
	engine := NewEngine()

	posts := []domain.Post{
		post("First headline about chips", ""),
		post("Second story on fusion power", ""),
		post("Third piece covering satellites", ""),
	}
	estimator := &fakeEstimator{failOn: "Second story on fusion power"}

	ranked := engine.Rank(context.Background(), posts, estimator, DefaultSimilarityThreshold)

	if len(ranked) != 3 {
		t.Fatalf("got %d posts, want all 3 despite one failure", len(ranked))
	}
	for _, p := range ranked {
		if p.Title == "Second story on fusion power" {
			if p.Scores.Engagement != domain.NeutralEngagement() {
				t.Errorf("failed prediction should yield neutral engagement, got %+v", p.Scores.Engagement)
			}
		}
	}
}

func TestRank_NilEstimatorScoresNeutral(t *testing.T) {
	engine := NewEngine()

	ranked := engine.Rank(context.Background(), []domain.Post{post("Solo headline", "")}, nil, DefaultSimilarityThreshold)

	if len(ranked) != 1 {
		t.Fatalf("got %d posts, want 1", len(ranked))
	}
	if ranked[0].Scores.Engagement != domain.NeutralEngagement() {
		t.Errorf("nil estimator should yield neutral engagement, got %+v", ranked[0].Scores.Engagement)
	}
	if ranked[0].Scores.Composite == 0 {
		t.Error("neutral engagement should still contribute to the composite")
	}
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	engine := NewEngine()

	// A fresh engine gives every undated, keyword-free post the same
	// composite, so the stable sort must preserve input order.
	posts := []domain.Post{
		post("Alpha event recap", ""),
		post("Beta conference notes", ""),
		post("Gamma workshop summary", ""),
	}

	ranked := engine.Rank(context.Background(), posts, nil, DefaultSimilarityThreshold)

	want := []string{"Alpha event recap", "Beta conference notes", "Gamma workshop summary"}
	got := titles(ranked)
	if len(got) != len(want) {
		t.Fatalf("got %d posts, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRank_DeduplicatesBeforeScoring(t *testing.T) {
	engine := NewEngine()

	posts := []domain.Post{
		post("Startup releases open weights model", ""),
		post("Startup releases open weights model", ""),
	}
	estimator := &fakeEstimator{}

	ranked := engine.Rank(context.Background(), posts, estimator, DefaultSimilarityThreshold)

	if len(ranked) != 1 {
		t.Fatalf("got %d posts, want duplicate removed", len(ranked))
	}
	if estimator.calls != 1 {
		t.Errorf("estimator called %d times, want 1 (after dedup)", estimator.calls)
	}
}
