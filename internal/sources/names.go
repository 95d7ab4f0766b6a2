package sources

import "strings"

var blogNames = map[string]string{
	"deepmind.google":              "DeepMind Blog",
	"microsoft.com/en-us/research": "Microsoft Research",
	"anthropic.com":                "Anthropic News",
	"developer.nvidia.com":         "NVIDIA Developer Blog",
	"venturebeat.com":              "VentureBeat AI",
	"technologyreview.com":         "MIT Technology Review",
	"techcrunch.com":               "TechCrunch AI",
	"theverge.com":                 "The Verge AI",
	"wired.com":                    "Wired AI",
	"distill.pub":                  "Distill Research",
	"blog.research.google":         "Google Research",
	"huggingface.co":               "Hugging Face Blog",
	"pytorch.org":                  "PyTorch Blog",
	"blog.tensorflow.org":          "TensorFlow Blog",
}

// SourceName returns the friendly label for a site, or the URL itself when
// the site is not in the table.
func SourceName(siteURL string) string {
	for domain, name := range blogNames {
		if strings.Contains(siteURL, domain) {
			return name
		}
	}
	return siteURL
}
