package intel

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		set[tok] = struct{}{}
	}
	return set
}

// Similarity is the bag-of-words Jaccard similarity of two texts: size of the
// token intersection over size of the token union. Returns 0 when either text
// has no tokens.
func Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection

	return float64(intersection) / float64(union)
}

// fingerprint hashes a title for exact-duplicate detection.
func fingerprint(title string) string {
	h := sha1.New()
	h.Write([]byte(strings.ToLower(title)))
	return hex.EncodeToString(h.Sum(nil))
}
