// Package app wires the pipeline together and runs aggregation/ranking
// cycles. It is operator glue: everything with algorithmic content lives in
// the packages it composes.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"aiscout/internal/config"
	"aiscout/internal/domain"
	"aiscout/internal/gemini"
	"aiscout/internal/intel"
	"aiscout/internal/metrics"
	"aiscout/internal/newsapi"
	"aiscout/internal/ratelimit"
	"aiscout/internal/scraper"
	"aiscout/internal/sources"
	"aiscout/internal/storage"
)

type App struct {
	cfg        *config.Config
	engine     *intel.Engine
	aggregator *sources.Aggregator
	scraper    *scraper.Scraper
	ai         *gemini.Client // nil when GEMINI_API_KEY is unset
	store      *storage.Store // nil when DATABASE_URL is unset
}

// New assembles the pipeline. Optional collaborators with missing
// credentials are disabled for the run, never fatal.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	sc := scraper.New(cfg.RequestTimeout, cfg.ScrapeInterval)
	resolver := sources.NewResolver(cfg.RequestTimeout)
	news := newsapi.NewClient(cfg.NewsAPIKey, cfg.RequestTimeout)
	if !news.Enabled() {
		log.Println("NEWS_API_KEY not set, NewsAPI disabled for this run")
	}

	aggregator := sources.NewAggregator(resolver, sc, news, sources.AggregatorConfig{
		MaxPerSource:    cfg.MaxPerSource,
		FeedWindow:      cfg.FeedWindow,
		KeepUndated:     cfg.KeepUndated,
		Concurrency:     cfg.SourceConcurrency,
		NewsAPIDaysBack: cfg.NewsAPIDaysBack,
		NewsAPIMaxItems: cfg.NewsAPIMaxItems,
	})

	app := &App{
		cfg:        cfg,
		engine:     intel.NewEngine(intel.WithTrendingWindow(time.Duration(cfg.TrendingWindowDays) * 24 * time.Hour)),
		aggregator: aggregator,
		scraper:    sc,
	}

	if cfg.GeminiAPIKey != "" {
		budget := ratelimit.NewAIBudget(cfg.MaxSummaries, cfg.MaxEngagement, cfg.MaxTotalAICalls)
		ai, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, budget, cfg.SummaryCacheTTL)
		if err != nil {
			return nil, fmt.Errorf("gemini setup: %w", err)
		}
		app.ai = ai
	} else {
		log.Println("GEMINI_API_KEY not set, generation disabled for this run")
	}

	if cfg.DatabaseURL != "" {
		store, err := storage.New(ctx, cfg.DatabaseURL, cfg.RetryAttempts, cfg.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("storage setup: %w", err)
		}
		app.store = store
	} else {
		log.Println("DATABASE_URL not set, approval history disabled for this run")
	}

	if cfg.StateFilePath != "" {
		if err := app.restoreState(); err != nil {
			log.Printf("⚠️ state restore skipped: %v", err)
		}
	}

	return app, nil
}

func (a *App) Close() {
	if a.ai != nil {
		a.ai.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
}

// RunCycle runs one full aggregation and ranking cycle over the configured
// blog list.
func (a *App) RunCycle(ctx context.Context) error {
	blogs, err := sources.LoadBlogs(a.cfg.BlogsConfigPath)
	if err != nil {
		return fmt.Errorf("load blog list: %w", err)
	}

	posts := a.aggregator.FetchAll(ctx, blogs)
	return a.process(ctx, posts)
}

// RunByDate runs a cycle restricted to the calendar window ending at
// endDate.
func (a *App) RunByDate(ctx context.Context, endDate time.Time, rangeDays int) error {
	blogs, err := sources.LoadBlogs(a.cfg.BlogsConfigPath)
	if err != nil {
		return fmt.Errorf("load blog list: %w", err)
	}

	posts := a.aggregator.FetchByDate(ctx, blogs, endDate, rangeDays)
	return a.process(ctx, posts)
}

func (a *App) process(ctx context.Context, posts []domain.Post) error {
	start := time.Now()
	defer func() {
		metrics.Global.RecordCycleTime(time.Since(start))
		metrics.Global.SetLastRun()
	}()

	// Topical filter: posts matching no vocabulary term never reach
	// scoring.
	relevant := posts[:0]
	for _, post := range posts {
		if len(post.Keywords) > 0 {
			relevant = append(relevant, post)
		}
	}
	log.Printf("%d of %d posts are topically relevant", len(relevant), len(posts))

	// Learn preferences from the operator's approval history before
	// scoring the new batch.
	if a.store != nil {
		approved, err := a.store.Approved(ctx)
		if err != nil {
			log.Printf("⚠️ approval history unavailable: %v", err)
		} else if len(approved) > 0 {
			a.engine.Learn(approved)
			log.Printf("learned preferences from %d approved posts", len(approved))
		}
	}

	a.enrich(ctx, relevant)

	trending := a.engine.UpdateTrending(relevant)
	for _, kc := range trending {
		log.Printf("trending: %s (%d)", kc.Keyword, kc.Count)
	}

	var estimator intel.EngagementEstimator
	if a.ai != nil {
		estimator = a.ai
	}
	ranked := a.engine.Rank(ctx, relevant, estimator, a.cfg.SimilarityThreshold)

	if a.store != nil {
		for _, post := range ranked {
			if err := a.store.SavePost(ctx, post); err != nil {
				log.Printf("⚠️ save failed for %s: %v", post.URL, err)
			}
		}
	}

	a.printRanked(ranked)

	if a.cfg.StateFilePath != "" {
		if err := a.saveState(); err != nil {
			log.Printf("⚠️ state save failed: %v", err)
		}
	}

	return nil
}

// enrich fills missing article text and generates summaries and promo
// posts. Failures degrade single posts, never the batch.
func (a *App) enrich(ctx context.Context, posts []domain.Post) {
	for i := range posts {
		if posts[i].Content == "" {
			content, err := a.scraper.FullContent(ctx, posts[i].URL)
			if err != nil {
				log.Printf("content fetch failed for %s: %v", posts[i].URL, err)
			} else {
				posts[i].Content = content
			}
		}

		if a.ai == nil {
			continue
		}

		summary := a.ai.Summarize(ctx, posts[i].Title, posts[i].Content)
		posts[i].Summary = summary.Text
		if summary.Fallback {
			log.Printf("summary fallback for %q: %s", posts[i].Title, summary.Reason)
		}

		promo := a.ai.GeneratePost(ctx, posts[i].Title, summary.Text, posts[i].URL, posts[i].Keywords)
		posts[i].Promo = promo.Text
	}
}

func (a *App) printRanked(ranked []domain.Post) {
	limit := a.cfg.TopResults
	if limit > len(ranked) {
		limit = len(ranked)
	}

	fmt.Printf("ranked %d posts, showing top %d:\n", len(ranked), limit)
	for i := 0; i < limit; i++ {
		post := ranked[i]
		fmt.Printf("%2d. [%.3f] %s\n", i+1, post.Scores.Composite, post.Title)
		fmt.Printf("    relevance=%.2f personalization=%.2f engagement=%d/10 source=%s\n",
			post.Scores.Relevance, post.Scores.Personalization, post.Scores.Engagement.Overall, post.Source)
		fmt.Printf("    %s\n", post.URL)
	}
}

func (a *App) restoreState() error {
	data, err := os.ReadFile(a.cfg.StateFilePath)
	if err != nil {
		return err
	}
	var state intel.State
	if err := json.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("decode state: %w", err)
	}
	a.engine.Restore(state)
	log.Printf("restored intelligence state from %s", a.cfg.StateFilePath)
	return nil
}

func (a *App) saveState() error {
	data, err := json.MarshalIndent(a.engine.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return os.WriteFile(a.cfg.StateFilePath, data, 0o644)
}
