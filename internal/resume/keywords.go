package resume

import (
	"sort"
	"strings"
	"unicode"
)

// stopWords filters common English words that add noise to keyword matching.
var stopWords = map[string]bool{
	"and": true, "the": true, "for": true, "with": true, "you": true,
	"are": true, "have": true, "will": true, "this": true, "that": true,
	"from": true, "our": true, "your": true, "their": true, "they": true,
	"work": true, "team": true, "role": true, "job": true, "join": true,
	"about": true, "which": true, "what": true, "who": true, "how": true,
	"can": true, "not": true, "but": true, "all": true, "also": true,
	"more": true, "than": true, "into": true, "has": true, "its": true,
	"was": true, "were": true, "been": true, "each": true, "new": true,
	"use": true, "using": true, "used": true, "well": true, "high": true,
	"good": true, "able": true, "get": true, "set": true, "such": true,
	"must": true, "experience": true, "years": true, "strong": true,
}

// ExtractKeywords tokenizes text into lowercase keywords (>= 3 runes), skipping stop words.
// "+", "#" and "." are word runes so "c++", "c#" and "node.js" survive.
func ExtractKeywords(text string) map[string]bool {
	kw := make(map[string]bool)
	var word strings.Builder
	flush := func() {
		w := strings.TrimRight(word.String(), ".")
		word.Reset()
		if len([]rune(w)) >= 3 && !stopWords[w] {
			kw[w] = true
		}
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' || r == '.' {
			word.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()

	return kw
}

// TargetKeywords returns the posting's target keywords in sorted order. Explicit keywords win;
// otherwise they are tokenized from the posting text.
func (j *JobPosting) TargetKeywords() []string {
	if j == nil {
		return nil
	}

	set := make(map[string]bool)
	for _, k := range j.Keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" {
			set[k] = true
		}
	}

	if len(set) == 0 {
		set = ExtractKeywords(j.Text())
	}

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// Coverage returns the share of keywords found in text, case-insensitively.
// It returns ok=false when there are no keywords to match.
func Coverage(text string, keywords []string) (ratio float64, ok bool) {
	if len(keywords) == 0 {
		return 0, false
	}

	lower := strings.ToLower(text)
	matches := 0
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			matches++
		}
	}

	return float64(matches) / float64(len(keywords)), true
}
