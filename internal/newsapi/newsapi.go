// Package newsapi pulls independently sourced AI coverage from the NewsAPI
// "everything" endpoint to supplement the curated blog list.
package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aiscout/internal/domain"
	"aiscout/internal/keywords"
)

const defaultBaseURL = "https://newsapi.org/v2"

// minDescription filters out stub articles with no real body.
const minDescription = 50

type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// Enabled reports whether a key is configured. Without one the client is a
// no-op rather than an error; the collaborator is simply disabled.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type apiResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// SearchRecent fetches up to maxItems AI-related articles from the last
// daysBack days. Returns an empty result without error when no key is
// configured.
func (c *Client) SearchRecent(ctx context.Context, daysBack, maxItems int) ([]domain.Post, error) {
	if !c.Enabled() {
		return nil, nil
	}

	// Quote the first vocabulary terms into one OR query; the full list
	// would blow past NewsAPI's query length limit.
	terms := keywords.Vocabulary
	if len(terms) > 10 {
		terms = terms[:10]
	}
	quoted := make([]string, len(terms))
	for i, term := range terms {
		quoted[i] = `"` + term + `"`
	}

	from := time.Now().AddDate(0, 0, -daysBack).Format("2006-01-02")

	params := url.Values{}
	params.Set("q", strings.Join(quoted, " OR "))
	params.Set("from", from)
	params.Set("sortBy", "publishedAt")
	params.Set("language", "en")
	params.Set("pageSize", strconv.Itoa(50))
	params.Set("apiKey", c.apiKey)

	endpoint := c.baseURL + "/everything?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsapi status: %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	var posts []domain.Post
	for _, article := range parsed.Articles {
		if article.Title == "" || article.URL == "" || len(article.Description) < minDescription {
			continue
		}

		sourceName := article.Source.Name
		if sourceName == "" {
			sourceName = "Unknown"
		}

		post := domain.Post{
			Title:   article.Title,
			URL:     article.URL,
			Content: article.Description,
			Source:  "NewsAPI - " + sourceName,
		}
		if ts, err := time.Parse(time.RFC3339, article.PublishedAt); err == nil {
			post.Published = &ts
		}

		posts = append(posts, post)
		if len(posts) >= maxItems {
			break
		}
	}

	log.Printf("NewsAPI: found %d AI articles", len(posts))
	return posts, nil
}
