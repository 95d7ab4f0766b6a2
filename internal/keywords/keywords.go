package keywords

import "strings"

// Vocabulary is the fixed set of AI/ML terms the pipeline monitors. Match
// results keep this order, so downstream code can rely on it being stable.
var Vocabulary = []string{
	"artificial intelligence", "ai", "machine learning", "ml",
	"deep learning", "neural network", "generative ai", "gen ai",
	"autogen", "llm", "large language model", "chatgpt", "gpt",
	"transformer", "nlp", "computer vision", "data science",
}

// Match returns the vocabulary terms found in title+content, case-insensitive
// substring match, in vocabulary order. An empty result means the post is not
// topically relevant and callers drop it before scoring.
func Match(title, content string) []string {
	text := strings.ToLower(title + " " + content)

	var matched []string
	for _, kw := range Vocabulary {
		if strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// Normalize lowercases and trims a keyword the way the preference profile
// and trending table key their entries.
func Normalize(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}
