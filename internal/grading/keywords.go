package grading

import (
	"regexp"
	"unicode/utf8"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// stopwords are filtered out of keyword extraction. Deliberately small: the
// length > 3 filter already drops most function words.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "and": {},
	"or": {}, "but": {},
}

// ExtractKeywords derives the significant-word list from a reference text:
// word tokens, lowercased, longer than three characters and not a stopword.
// Repeated words are kept; coverage checks are substring membership tests, so
// duplicates only widen the denominator reported in feedback.
func ExtractKeywords(text string) []string {
	var keywords []string
	for _, w := range wordPattern.FindAllString(Normalize(text), -1) {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}
