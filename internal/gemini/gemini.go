// Package gemini is the text generation collaborator: summaries, promo
// posts and engagement predictions. Every generation returns an explicit
// Result so callers can tell AI output from a deterministic fallback
// without sniffing string prefixes.
package gemini

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"aiscout/internal/cache"
	"aiscout/internal/domain"
	"aiscout/internal/metrics"
	"aiscout/internal/ratelimit"
)

// refusalPrefix marks responses where the model declined to answer.
const refusalPrefix = "I cannot"

// maxPromptContent caps article text fed into prompts.
const maxPromptContent = 3000

// Result is one generation outcome. Fallback is true when the text is a
// deterministic substitute (service error, budget exhausted, implausible
// output) and Reason says why.
type Result struct {
	Text     string
	Fallback bool
	Reason   string
}

type Client struct {
	client   *genai.Client
	model    string
	budget   *ratelimit.AIBudget
	cache    *cache.Cache[Result]
	cacheTTL time.Duration
}

func NewClient(ctx context.Context, apiKey, model string, budget *ratelimit.AIBudget, cacheTTL time.Duration) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		client:   client,
		model:    model,
		budget:   budget,
		cache:    cache.New[Result](),
		cacheTTL: cacheTTL,
	}, nil
}

func (c *Client) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

func (c *Client) generate(ctx context.Context, prompt string, temperature float32, maxTokens int32) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(maxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return strings.TrimSpace(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}

// Summarize produces a short factual summary of an article. Cached by
// title+content hash so repeated cycles do not re-spend quota.
func (c *Client) Summarize(ctx context.Context, title, content string) Result {
	key := cache.Key(title, content)
	if cached, ok := c.cache.Get(key); ok {
		c.budget.RecordCacheHit()
		return cached
	}
	c.budget.RecordCacheMiss()

	if !c.budget.CanSummarize() {
		metrics.Global.IncrementSummaryFallbacks()
		return Result{Text: summaryFallback(title), Fallback: true, Reason: "budget exhausted"}
	}

	prompt := fmt.Sprintf(`Create a precise, factual summary of this content (2-3 sentences):

Title: %s
Content: %s

CRITICAL REQUIREMENTS:
- Use ONLY information explicitly stated in the source content
- Do NOT add tools, frameworks, or technologies not mentioned in the original
- Maintain exact technical details, numbers, and terminology from the source
- Focus on the author's main argument or key findings

Be factually precise and stay faithful to the source material.`, title, clampContent(content))

	c.budget.RecordSummary()
	text, err := c.generate(ctx, prompt, 0.7, 150)
	if err != nil {
		log.Printf("❌ summary generation failed: %v", err)
		metrics.Global.IncrementSummaryFallbacks()
		return Result{Text: summaryFallback(title), Fallback: true, Reason: err.Error()}
	}
	if len(text) <= 20 || strings.HasPrefix(text, refusalPrefix) {
		metrics.Global.IncrementSummaryFallbacks()
		return Result{Text: summaryFallback(title), Fallback: true, Reason: "implausible output"}
	}

	metrics.Global.IncrementSummariesGenerated()
	result := Result{Text: text}
	c.cache.Set(key, result, c.cacheTTL)
	return result
}

// GeneratePost turns a summary into promotional text with hashtags. The
// fallback is the summary itself plus the link and hashtags.
func (c *Client) GeneratePost(ctx context.Context, title, summary, link string, kws []string) Result {
	hashtags := Hashtags(kws)
	fallbackText := summary + "\n\nRead more: " + link + "\n\n" + hashtags

	if !c.budget.CanSummarize() {
		return Result{Text: fallbackText, Fallback: true, Reason: "budget exhausted"}
	}

	prompt := fmt.Sprintf(`Create a professional LinkedIn post based on this summary:

Title: %s
Summary: %s

STRICT REQUIREMENTS:
- Use ONLY facts and details from the provided summary
- Preserve exact numbers, ranges, and technical terminology from the source
- Start with an engaging hook or thought-provoking question
- Include 2-3 key insights directly from the summary
- End with a discussion question that reflects the main theme
- Stay under 1300 characters
- Do NOT include hashtags (added separately)

Style: Authoritative but conversational, faithful to source content`, title, summary)

	c.budget.RecordSummary()
	text, err := c.generate(ctx, prompt, 0.8, 200)
	if err != nil {
		log.Printf("❌ post generation failed: %v", err)
		return Result{Text: fallbackText, Fallback: true, Reason: err.Error()}
	}
	if len(text) <= 50 || strings.HasPrefix(text, refusalPrefix) {
		return Result{Text: fallbackText, Fallback: true, Reason: "implausible output"}
	}

	return Result{Text: text + "\n\nRead more: " + link + "\n\n" + hashtags}
}

// PredictEngagement rates a post's promo text 1-10 across four dimensions
// plus an overall score. Callers substitute a neutral estimate on error.
func (c *Client) PredictEngagement(ctx context.Context, title, promo string) (domain.Engagement, error) {
	if !c.budget.CanPredict() {
		return domain.NeutralEngagement(), fmt.Errorf("engagement budget exhausted")
	}

	if utf8.RuneCountInString(promo) > 500 {
		promo = string([]rune(promo)[:500])
	}

	prompt := fmt.Sprintf(`Analyze this post for engagement potential:

Title: %s
Content: %s

Rate 1-10 for:
1. Engagement potential (likes/comments)
2. Shareability
3. Professional relevance
4. Trending topic alignment

Respond with: "Engagement: X, Shareability: Y, Relevance: Z, Trending: W, Overall: A"`, title, promo)

	c.budget.RecordPrediction()
	text, err := c.generate(ctx, prompt, 0.3, 100)
	if err != nil {
		return domain.NeutralEngagement(), err
	}

	return ParseEngagement(text), nil
}

var digitsPattern = regexp.MustCompile(`\d+`)

// ParseEngagement extracts the five scores from a model response. Anything
// that does not yield five numbers comes back neutral; individual scores
// are clamped to [1,10].
func ParseEngagement(response string) domain.Engagement {
	scores := domain.NeutralEngagement()

	numbers := digitsPattern.FindAllString(response, -1)
	if len(numbers) < 5 {
		return scores
	}

	parsed := make([]int, 5)
	for i := 0; i < 5; i++ {
		n, err := strconv.Atoi(numbers[i])
		if err != nil {
			return scores
		}
		parsed[i] = clampScore(n)
	}

	scores.Engagement = parsed[0]
	scores.Shareability = parsed[1]
	scores.Relevance = parsed[2]
	scores.Trending = parsed[3]
	scores.Overall = parsed[4]
	return scores
}

func clampScore(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

var hashtagMap = map[string]string{
	"artificial intelligence": "#ArtificialIntelligence",
	"ai":                      "#AI",
	"machine learning":        "#MachineLearning",
	"ml":                      "#ML",
	"deep learning":           "#DeepLearning",
	"neural network":          "#NeuralNetworks",
	"generative ai":           "#GenerativeAI",
	"gen ai":                  "#GenAI",
	"autogen":                 "#AutoGen",
	"llm":                     "#LLM",
	"large language model":    "#LargeLanguageModels",
	"chatgpt":                 "#ChatGPT",
	"gpt":                     "#GPT",
	"transformer":             "#Transformers",
	"nlp":                     "#NLP",
	"computer vision":         "#ComputerVision",
	"data science":            "#DataScience",
}

// Hashtags maps matched keywords to hashtags, at most five, sorted for
// stable output. A default set applies when nothing maps.
func Hashtags(kws []string) string {
	set := make(map[string]struct{})
	for i, kw := range kws {
		if i >= 5 {
			break
		}
		if tag, ok := hashtagMap[strings.ToLower(kw)]; ok {
			set[tag] = struct{}{}
		}
	}

	if len(set) == 0 {
		return "#AI #Technology #Innovation"
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return strings.Join(tags, " ")
}

func summaryFallback(title string) string {
	return fmt.Sprintf("Key insights from %s. Read the full article for detailed information.", title)
}

func clampContent(content string) string {
	content = strings.Join(strings.Fields(content), " ")
	if utf8.RuneCountInString(content) <= maxPromptContent {
		return content
	}
	runes := []rune(content)
	trimmed := string(runes[:maxPromptContent])
	if idx := strings.LastIndex(trimmed, ". "); idx > 1000 {
		trimmed = trimmed[:idx+1]
	}
	return trimmed
}
