// Package scraper is the HTML fallback for sources whose feeds yield
// nothing, plus full-article text extraction for posts that only arrived
// with a title and link.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Headline is one scraped link+title pair.
type Headline struct {
	Title string
	URL   string
}

// rule maps a domain substring to an ordered list of selectors to try. The
// first selector that yields at least one usable pair wins. minTitle filters
// out navigation noise.
type rule struct {
	domain    string
	selectors []string
	minTitle  int
}

var domainRules = []rule{
	{
		domain:    "ai.googleblog.com",
		selectors: []string{".post h3 a", ".post h2 a", "article h2 a", "h2 a", "h3 a"},
		minTitle:  5,
	},
	{
		domain:    "deepmind.google",
		selectors: []string{"article h2 a", "article h3 a", "h2 a", "h3 a", `a[href*="/discover/"]`},
		minTitle:  5,
	},
	{
		domain:    "ai.meta.com",
		selectors: []string{".blog-post h2 a", ".blog-post h3 a", "article h2 a", "h2 a", "h3 a"},
		minTitle:  5,
	},
	{
		domain:    "anthropic.com",
		selectors: []string{"article h2 a", "article h3 a", "h2 a", "h3 a", `a[href*="/news/"]`},
		minTitle:  5,
	},
	{
		domain:    "amazon.science",
		selectors: []string{".blog-post h2 a", ".blog-post h3 a", "article h2 a", "h2 a", "h3 a"},
		minTitle:  5,
	},
}

// genericRule applies when no domain rule matches. The higher title
// threshold compensates for the looser selectors.
var genericRule = rule{
	selectors: []string{"article h2 a", "article h3 a", ".post-title a", "h2 a", "h3 a"},
	minTitle:  10,
}

func ruleFor(pageURL string) rule {
	for _, r := range domainRules {
		if strings.Contains(pageURL, r.domain) {
			return r
		}
	}
	return genericRule
}

// Scraper fetches pages with a shared timeout and paces requests so we do
// not hammer the sites we scrape.
type Scraper struct {
	client  *http.Client
	limiter *rate.Limiter
}

// New builds a scraper. interval is the minimum spacing between requests;
// zero disables pacing.
func New(timeout, interval time.Duration) *Scraper {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Scraper{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 1),
	}
}

func (s *Scraper) fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}
	return doc, nil
}

// Headlines scrapes up to limit link+title pairs from a page, using the
// domain's selector rule or the generic fallback.
func (s *Scraper) Headlines(ctx context.Context, pageURL string, limit int) ([]Headline, error) {
	doc, err := s.fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return extractHeadlines(doc, base, ruleFor(pageURL), limit), nil
}

func extractHeadlines(doc *goquery.Document, base *url.URL, r rule, limit int) []Headline {
	for _, selector := range r.selectors {
		var found []Headline
		doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			title := strings.TrimSpace(sel.Text())
			href, _ := sel.Attr("href")
			if title == "" || href == "" || len(title) <= r.minTitle {
				return true
			}
			found = append(found, Headline{Title: title, URL: absoluteURL(base, href)})
			return len(found) < limit
		})
		if len(found) > 0 {
			return found
		}
	}
	return nil
}

func absoluteURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// contentSelectors are tried in order when extracting full article text.
var contentSelectors = []string{
	"article", ".content", ".post-content", ".entry-content",
	".article-content", "main", ".main-content",
}

// FullContent extracts the readable text of an article page. Best effort:
// chrome elements are stripped, known content containers are preferred, and
// the whole body is the last resort.
func (s *Scraper) FullContent(ctx context.Context, articleURL string) (string, error) {
	doc, err := s.fetch(ctx, articleURL)
	if err != nil {
		return "", err
	}

	doc.Find("script, style, nav, footer, header").Remove()

	for _, selector := range contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() > 0 {
			if text := cleanText(sel.Text()); text != "" {
				return text, nil
			}
		}
	}

	return cleanText(doc.Find("body").Text()), nil
}

func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	var kept []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
