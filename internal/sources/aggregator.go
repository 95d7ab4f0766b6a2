// Package sources aggregates candidate posts from syndication feeds, an
// HTML scraping fallback and the NewsAPI collaborator, normalizing all of
// them into domain.Post values.
package sources

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mmcdole/gofeed"

	"aiscout/internal/domain"
	"aiscout/internal/keywords"
	"aiscout/internal/metrics"
	"aiscout/internal/newsapi"
	"aiscout/internal/scraper"
)

// Aggregator fetches from every configured source independently: one broken
// feed or unreachable site never aborts the batch.
type Aggregator struct {
	resolver *Resolver
	parser   *gofeed.Parser
	scraper  *scraper.Scraper
	news     *newsapi.Client // nil or disabled when no key is configured

	maxPerSource int
	feedWindow   time.Duration
	keepUndated  bool
	concurrency  int
	newsDaysBack int
	newsMaxItems int
}

type AggregatorConfig struct {
	MaxPerSource    int
	FeedWindow      time.Duration
	KeepUndated     bool
	Concurrency     int
	NewsAPIDaysBack int
	NewsAPIMaxItems int
}

func NewAggregator(resolver *Resolver, sc *scraper.Scraper, news *newsapi.Client, cfg AggregatorConfig) *Aggregator {
	if cfg.MaxPerSource <= 0 {
		cfg.MaxPerSource = 3
	}
	if cfg.FeedWindow <= 0 {
		cfg.FeedWindow = 30 * 24 * time.Hour
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Aggregator{
		resolver:     resolver,
		parser:       gofeed.NewParser(),
		scraper:      sc,
		news:         news,
		maxPerSource: cfg.MaxPerSource,
		feedWindow:   cfg.FeedWindow,
		keepUndated:  cfg.KeepUndated,
		concurrency:  cfg.Concurrency,
		newsDaysBack: cfg.NewsAPIDaysBack,
		newsMaxItems: cfg.NewsAPIMaxItems,
	}
}

// FetchAll collects candidate posts from every site URL plus NewsAPI,
// fanning out across sources bounded by the configured concurrency. Every
// post gets its matched keywords tagged before return; posts with none are
// still returned and the caller decides whether to drop them.
func (a *Aggregator) FetchAll(ctx context.Context, siteURLs []string) []domain.Post {
	var (
		mu  sync.Mutex
		all []domain.Post
	)

	sem := make(chan struct{}, a.concurrency)
	var wg sync.WaitGroup

	for _, siteURL := range siteURLs {
		wg.Add(1)
		go func(siteURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			posts := a.fetchSource(ctx, siteURL)
			if len(posts) == 0 {
				return
			}
			mu.Lock()
			all = append(all, posts...)
			mu.Unlock()
		}(siteURL)
	}
	wg.Wait()

	if a.news != nil && a.news.Enabled() {
		articles, err := a.news.SearchRecent(ctx, a.newsDaysBack, a.newsMaxItems)
		if err != nil {
			log.Printf("⚠️ NewsAPI fetch failed: %v", err)
			metrics.Global.IncrementSourcesFailed()
		} else {
			all = append(all, articles...)
		}
	}

	for i := range all {
		all[i].Keywords = keywords.Match(all[i].Title, all[i].Content)
	}

	metrics.Global.AddPostsFetched(len(all))
	log.Printf("total posts fetched: %d", len(all))
	return all
}

// fetchSource handles one site: resolve the endpoint, parse it as a feed,
// and fall back to headline scraping when the feed yields nothing.
func (a *Aggregator) fetchSource(ctx context.Context, siteURL string) []domain.Post {
	endpoint := a.resolver.Resolve(ctx, siteURL)
	sourceName := SourceName(siteURL)

	feed, err := a.parser.ParseURLWithContext(endpoint, ctx)
	if err != nil || feed == nil || len(feed.Items) == 0 {
		if err != nil {
			log.Printf("feed parse failed for %s, trying scrape: %v", siteURL, err)
		} else {
			log.Printf("no feed entries for %s, trying scrape", siteURL)
		}
		return a.scrapeSource(ctx, siteURL, sourceName)
	}

	items := feed.Items
	if len(items) > a.maxPerSource {
		items = items[:a.maxPerSource]
	}

	cutoff := time.Now().Add(-a.feedWindow)
	var posts []domain.Post
	for _, item := range items {
		if item.Title == "" || item.Link == "" {
			continue
		}
		if item.PublishedParsed == nil {
			if !a.keepUndated {
				continue
			}
		} else if item.PublishedParsed.Before(cutoff) {
			continue
		}

		post := domain.Post{
			Title:   item.Title,
			URL:     item.Link,
			Content: item.Description,
			Source:  sourceName,
		}
		if item.PublishedParsed != nil {
			published := *item.PublishedParsed
			post.Published = &published
		}
		posts = append(posts, post)
	}

	log.Printf("loaded %d posts from %s", len(posts), siteURL)
	metrics.Global.IncrementSourcesSucceeded()
	return posts
}

func (a *Aggregator) scrapeSource(ctx context.Context, siteURL, sourceName string) []domain.Post {
	headlines, err := a.scraper.Headlines(ctx, siteURL, a.maxPerSource)
	if err != nil {
		log.Printf("⚠️ scrape failed for %s: %v", siteURL, err)
		metrics.Global.IncrementSourcesFailed()
		return nil
	}

	// Scraped posts carry no content; full text is fetched lazily when a
	// post survives filtering.
	posts := make([]domain.Post, 0, len(headlines))
	for _, h := range headlines {
		posts = append(posts, domain.Post{
			Title:  h.Title,
			URL:    h.URL,
			Source: sourceName,
		})
	}

	log.Printf("scraped %d posts from %s", len(posts), siteURL)
	metrics.Global.IncrementSourcesSucceeded()
	return posts
}

// FetchByDate runs the same aggregation, then keeps only posts published
// within the rangeDays-day window ending at endDate, inclusive by calendar
// date. Posts with no parseable date are retained by default rather than
// excluded.
func (a *Aggregator) FetchByDate(ctx context.Context, siteURLs []string, endDate time.Time, rangeDays int) []domain.Post {
	all := a.FetchAll(ctx, siteURLs)
	return filterByDate(all, endDate, rangeDays, a.keepUndated)
}

func filterByDate(posts []domain.Post, endDate time.Time, rangeDays int, keepUndated bool) []domain.Post {
	if rangeDays < 1 {
		rangeDays = 1
	}
	// The window runs rangeDays backwards from endDate, both endpoints
	// inclusive by calendar date: endDate=Jan 9, rangeDays=7 keeps Jan 2
	// through Jan 9.
	start := dateOnly(endDate.AddDate(0, 0, -rangeDays))
	end := dateOnly(endDate)

	log.Printf("filtering posts from %s to %s", start.Format("2006-01-02"), end.Format("2006-01-02"))

	var kept []domain.Post
	for _, post := range posts {
		if post.Published == nil {
			if keepUndated {
				kept = append(kept, post)
			}
			continue
		}
		day := dateOnly(*post.Published)
		if !day.Before(start) && !day.After(end) {
			kept = append(kept, post)
		}
	}

	log.Printf("found %d posts in date range", len(kept))
	return kept
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
