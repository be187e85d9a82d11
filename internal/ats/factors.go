package ats

import (
	"fmt"
	"sort"
)

// FactorCategory tells whether a factor lifts or drags the score.
type FactorCategory string

const (
	FactorPositive FactorCategory = "positive"
	FactorNegative FactorCategory = "negative"
)

// DisplayedFactors is how many factors a snapshot shows.
const DisplayedFactors = 3

// Factor is a named, signed contribution explaining a score.
type Factor struct {
	Name        string         `json:"name"`
	Impact      int            `json:"impact"`
	Description string         `json:"description"`
	Category    FactorCategory `json:"category"`
	Section     Section        `json:"section,omitempty"`
}

// FactorRule emits a factor when a section score matches. Rules are checked in order and
// the first match wins, so a section yields at most one factor.
type FactorRule struct {
	Name string
	// Condition describes Matches for listings.
	Condition string
	Matches   func(score int) bool
	Build     func(section Section, score SectionScore) Factor
}

// DefaultFactorRules is the fixed threshold table: ≥90 is strong (+5), ≤50 is weak (−10).
var DefaultFactorRules = []FactorRule{
	{
		Name:      "strong_section",
		Condition: "score >= 90",
		Matches:   func(score int) bool { return score >= 90 },
		Build: func(section Section, s SectionScore) Factor {
			return Factor{
				Name:        fmt.Sprintf("Strong %s section", section.Title()),
				Impact:      5,
				Description: fmt.Sprintf("The %s section scores %d/%d.", section, s.Score, s.MaxScore),
				Category:    FactorPositive,
				Section:     section,
			}
		},
	},
	{
		Name:      "weak_section",
		Condition: "score <= 50",
		Matches:   func(score int) bool { return score <= 50 },
		Build: func(section Section, s SectionScore) Factor {
			return Factor{
				Name:        fmt.Sprintf("Weak %s section", section.Title()),
				Impact:      -10,
				Description: fmt.Sprintf("The %s section scores only %d/%d.", section, s.Score, s.MaxScore),
				Category:    FactorNegative,
				Section:     section,
			}
		},
	},
}

// GenerateFactors applies DefaultFactorRules to every section.
func GenerateFactors(sections Sections) []Factor {
	return GenerateFactorsWith(DefaultFactorRules, sections)
}

// GenerateFactorsWith returns every factor sorted by descending |impact|. Ties keep the
// KnownSections order.
func GenerateFactorsWith(rules []FactorRule, sections Sections) []Factor {
	names := make([]Section, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, oj := names[i].order(), names[j].order()
		if oi != oj {
			return oi < oj
		}
		return names[i] < names[j]
	})

	factors := make([]Factor, 0, len(names))
	for _, name := range names {
		score := sections[name]
		for _, rule := range rules {
			if rule.Matches(score.Score) {
				factors = append(factors, rule.Build(name, score))
				break
			}
		}
	}

	sort.SliceStable(factors, func(i, j int) bool {
		return abs(factors[i].Impact) > abs(factors[j].Impact)
	})

	return factors
}

// TopFactors truncates factors to at most n entries.
func TopFactors(factors []Factor, n int) []Factor {
	if n < 0 {
		n = 0
	}
	if len(factors) <= n {
		return append([]Factor(nil), factors...)
	}
	return append([]Factor(nil), factors[:n]...)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
