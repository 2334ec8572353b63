package optimizer

import (
	"regexp"
	"strings"
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
}

var interrogatives = map[string]struct{}{
	"what": {}, "how": {}, "when": {}, "where": {}, "why": {}, "who": {},
}

// Everything except word characters, whitespace and question marks gets
// flattened to a space before tokenizing.
var punctuation = regexp.MustCompile(`[^\w\s?]`)

// Optimize rewrites a raw query into a retrieval-friendly form. Questions keep
// their structure (only single-character words dropped); statements lose stop
// words and words of length <= 2. If trimming eats more than 70% of the
// original length the optimization is discarded and the query passes through
// unchanged, so over-aggressive trimming can never destroy intent.
func Optimize(query string) string {
	clean := strings.ToLower(strings.TrimSpace(query))
	clean = punctuation.ReplaceAllString(clean, " ")

	words := strings.Fields(clean)

	isQuestion := false
	for _, w := range words {
		if _, ok := interrogatives[w]; ok {
			isQuestion = true
			break
		}
	}

	var kept []string
	if isQuestion {
		for _, w := range words {
			if len(w) > 1 {
				kept = append(kept, w)
			}
		}
	} else {
		for _, w := range words {
			if _, stop := stopWords[w]; !stop && len(w) > 2 {
				kept = append(kept, w)
			}
		}
	}

	optimized := strings.Join(kept, " ")

	if float64(len(optimized)) < float64(len(query))*0.3 {
		return query
	}

	return optimized
}
