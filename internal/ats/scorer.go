package ats

import (
	"fmt"
	"strconv"

	"github.com/spigell/ats-insights/internal/resume"
)

const issueMissingSection = "missing_section"

// SectionScorer scores a single section. Implementations must be pure and total.
type SectionScorer interface {
	Name() Section
	Weight() float64
	Optional() bool
	Score(doc *resume.Document, job *resume.JobPosting) SectionScore
}

// ScoreFunc computes the raw score and issues of a section that is present in the document.
type ScoreFunc func(doc *resume.Document, job *resume.JobPosting) (int, []Issue)

// PresenceFunc reports whether the document contains the section at all.
type PresenceFunc func(doc *resume.Document) bool

type ruleScorer struct {
	name     Section
	weight   float64
	optional bool
	present  PresenceFunc
	score    ScoreFunc
}

// NewSectionScorer builds a scorer from a presence check and a scoring function.
// Missing sections are handled uniformly: score 0 and a single missing_section issue.
func NewSectionScorer(name Section, weight float64, optional bool, present PresenceFunc, score ScoreFunc) SectionScorer {
	return &ruleScorer{
		name:     name,
		weight:   weight,
		optional: optional,
		present:  present,
		score:    score,
	}
}

func (s *ruleScorer) Name() Section { return s.name }

func (s *ruleScorer) Weight() float64 { return s.weight }

func (s *ruleScorer) Optional() bool { return s.optional }

func (s *ruleScorer) Score(doc *resume.Document, job *resume.JobPosting) SectionScore {
	if doc == nil || s.present == nil || !s.present(doc) {
		return MissingSection(s.name, s.weight, s.optional)
	}

	score, issues := s.score(doc, job)
	if issues == nil {
		issues = []Issue{}
	}

	return SectionScore{
		Score:           clampScore(score),
		MaxScore:        MaxSectionScore,
		Weight:          s.weight,
		Issues:          issues,
		Recommendations: recommendationsFor(s.name, issues),
	}
}

// MissingSection is the assessment of a section the resume lacks entirely.
func MissingSection(name Section, weight float64, optional bool) SectionScore {
	severity := SeverityCritical
	if optional {
		severity = SeveritySuggestion
	}

	issues := []Issue{{
		Type:        issueMissingSection,
		Severity:    severity,
		Description: fmt.Sprintf("The resume has no %s section.", name),
	}}

	return SectionScore{
		Score:           0,
		MaxScore:        MaxSectionScore,
		Weight:          weight,
		Issues:          issues,
		Recommendations: recommendationsFor(name, issues),
	}
}

// Status represents runtime information about a scorer in the strategy table.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

// statusProvider is implemented by scorers that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

func (s *ruleScorer) Status() Status {
	return Status{
		Name:    string(s.name),
		Enabled: true,
		Details: map[string]string{
			"weight":   strconv.FormatFloat(s.weight, 'f', 2, 64),
			"optional": strconv.FormatBool(s.optional),
		},
	}
}

// Describe returns status entries for the provided scorers.
func Describe(scorers []SectionScorer) []Status {
	statuses := make([]Status, 0, len(scorers))
	for _, scorer := range scorers {
		if reporter, ok := scorer.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    string(scorer.Name()),
			Enabled: true,
			Details: map[string]string{
				"weight": strconv.FormatFloat(scorer.Weight(), 'f', 2, 64),
			},
		})
	}
	return statuses
}
