package processing

import (
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var (
	whitespace  = regexp.MustCompile(`\s+`)
	punctuation = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)
	tags        = regexp.MustCompile(`<[^>]*>`)
	nonSlug     = regexp.MustCompile(`[^a-z0-9]+`)
)

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "to": {}, "in": {}, "for": {},
	"of": {}, "and": {}, "on": {}, "with": {}, "from": {}, "this": {},
}

// StripMarkup removes tags and entities, squeezes whitespace.
func StripMarkup(input string) string {
	if input == "" {
		return ""
	}
	text := tags.ReplaceAllString(input, " ")
	text = html.UnescapeString(text)
	text = punctuation.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Slugify turns a headline or slugline into a safe filename fragment.
func Slugify(input string) string {
	slug := strings.ToLower(strings.TrimSpace(input))
	slug = nonSlug.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "item"
	}
	return slug
}

// ExtractKeywords returns the most frequent words that are not stop-words,
// used as a fallback when a pushed item carries no keywords.
func ExtractKeywords(text string, limit, minLen int) []string {
	clean := strings.ToLower(StripMarkup(text))
	if clean == "" {
		return nil
	}

	freq := make(map[string]int)
	for _, token := range strings.Fields(clean) {
		token = strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if len([]rune(token)) < minLen {
			continue
		}
		if _, skip := stopwords[token]; skip {
			continue
		}
		freq[token]++
	}

	if len(freq) == 0 {
		return nil
	}

	type kv struct {
		word  string
		count int
	}

	pairs := make([]kv, 0, len(freq))
	for word, count := range freq {
		pairs = append(pairs, kv{word: word, count: count})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count == pairs[j].count {
			return pairs[i].word < pairs[j].word
		}
		return pairs[i].count > pairs[j].count
	})

	max := limit
	if max <= 0 || max > len(pairs) {
		max = len(pairs)
	}

	keywords := make([]string, 0, max)
	for i := 0; i < max; i++ {
		keywords = append(keywords, pairs[i].word)
	}

	return keywords
}
