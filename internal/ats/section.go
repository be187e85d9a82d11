// Package ats computes the ATS compatibility score of a resume against a job posting:
// per-section assessments, the weighted overall score, a confidence label, contributing
// factors and a bounded score history.
package ats

import "strings"

// Section names a resume subdivision that is scored independently.
type Section string

const (
	SectionContact      Section = "contact"
	SectionSummary      Section = "summary"
	SectionExperience   Section = "experience"
	SectionSkills       Section = "skills"
	SectionEducation    Section = "education"
	SectionAchievements Section = "achievements"
)

// KnownSections is the fixed set of scored sections in presentation order.
var KnownSections = []Section{
	SectionContact,
	SectionSummary,
	SectionExperience,
	SectionSkills,
	SectionEducation,
	SectionAchievements,
}

// Weights is the static weight policy. It does not need to sum to 1.
var Weights = map[Section]float64{
	SectionContact:      0.10,
	SectionSummary:      0.20,
	SectionExperience:   0.40,
	SectionSkills:       0.15,
	SectionEducation:    0.10,
	SectionAchievements: 0.05,
}

// Title returns the capitalized section name used in factor labels.
func (s Section) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

func (s Section) order() int {
	for i, known := range KnownSections {
		if known == s {
			return i
		}
	}
	return len(KnownSections)
}

// Severity ranks an issue by impact.
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityMajor      Severity = "major"
	SeverityMinor      Severity = "minor"
	SeveritySuggestion Severity = "suggestion"
)

// Rank orders severities by decreasing impact: critical is 0.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityMajor:
		return 1
	case SeverityMinor:
		return 2
	default:
		return 3
	}
}

// Issue is a single problem found in a section.
type Issue struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// MaxSectionScore is the upper bound of every section score.
const MaxSectionScore = 100

// SectionScore is the assessment of one section.
type SectionScore struct {
	Score           int      `json:"score"`
	MaxScore        int      `json:"maxScore"`
	Weight          float64  `json:"weight"`
	Issues          []Issue  `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// Sections maps every known section to its assessment.
type Sections map[Section]SectionScore

// Clone returns a deep copy so snapshots stay immutable.
func (s Sections) Clone() Sections {
	if s == nil {
		return nil
	}

	out := make(Sections, len(s))
	for name, score := range s {
		score.Issues = append([]Issue(nil), score.Issues...)
		score.Recommendations = append([]string(nil), score.Recommendations...)
		out[name] = score
	}

	return out
}

// Complete returns the fraction of known sections with a non-zero score.
func (s Sections) Complete() float64 {
	if len(KnownSections) == 0 {
		return 0
	}

	nonZero := 0
	for _, name := range KnownSections {
		if s[name].Score > 0 {
			nonZero++
		}
	}

	return float64(nonZero) / float64(len(KnownSections))
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > MaxSectionScore {
		return MaxSectionScore
	}
	return score
}
