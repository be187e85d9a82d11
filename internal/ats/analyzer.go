package ats

import (
	"context"

	"github.com/spigell/ats-insights/internal/resume"
)

// Analyzer produces the per-section assessment of a resume against a job posting.
// The returned map always holds exactly the KnownSections keys.
type Analyzer interface {
	Analyze(ctx context.Context, doc *resume.Document, job *resume.JobPosting) (Sections, error)
}

// HeuristicAnalyzer scores sections with a swappable strategy table of fixed rules.
// It is pure: identical inputs always yield identical output and it never fails.
type HeuristicAnalyzer struct {
	scorers []SectionScorer
}

// NewHeuristicAnalyzer builds an analyzer over the given scorers, or DefaultScorers when none are given.
func NewHeuristicAnalyzer(scorers ...SectionScorer) *HeuristicAnalyzer {
	if len(scorers) == 0 {
		scorers = DefaultScorers()
	}

	return &HeuristicAnalyzer{scorers: append([]SectionScorer(nil), scorers...)}
}

// WithScorer returns a copy of the analyzer with the scorer for s.Name() replaced or added.
func (a *HeuristicAnalyzer) WithScorer(s SectionScorer) *HeuristicAnalyzer {
	next := make([]SectionScorer, 0, len(a.scorers)+1)
	replaced := false
	for _, existing := range a.scorers {
		if existing.Name() == s.Name() {
			next = append(next, s)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, s)
	}

	return &HeuristicAnalyzer{scorers: next}
}

// Scorers returns the strategy table.
func (a *HeuristicAnalyzer) Scorers() []SectionScorer {
	return append([]SectionScorer(nil), a.scorers...)
}

// Scorer returns the scorer registered for a section.
func (a *HeuristicAnalyzer) Scorer(name Section) (SectionScorer, bool) {
	for _, s := range a.scorers {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Analyze never returns an error; the signature satisfies Analyzer.
func (a *HeuristicAnalyzer) Analyze(_ context.Context, doc *resume.Document, job *resume.JobPosting) (Sections, error) {
	return a.AnalyzeSections(doc, job), nil
}

// AnalyzeSections is the synchronous form of Analyze.
func (a *HeuristicAnalyzer) AnalyzeSections(doc *resume.Document, job *resume.JobPosting) Sections {
	sections := make(Sections, len(KnownSections))
	for _, name := range KnownSections {
		scorer, ok := a.Scorer(name)
		if !ok {
			sections[name] = MissingSection(name, Weights[name], IsOptional(name))
			continue
		}
		sections[name] = scorer.Score(doc, job)
	}

	return sections
}
