package ats

import (
	"context"
	"fmt"
	"time"

	"github.com/spigell/ats-insights/internal/resume"
)

// Snapshot is one immutable result of the scoring pipeline.
type Snapshot struct {
	Current    int        `json:"current"`
	Sections   Sections   `json:"sectionScores"`
	Confidence Confidence `json:"confidenceLevel"`
	Timestamp  time.Time  `json:"timestamp"`
	// Factors holds the displayed top factors; AllFactors keeps the full ranked list.
	Factors    []Factor `json:"factors"`
	AllFactors []Factor `json:"allFactors"`
}

// HistoryEntry folds the snapshot into a history record.
func (s *Snapshot) HistoryEntry() HistoryEntry {
	return HistoryEntry{
		Score:      s.Current,
		Timestamp:  s.Timestamp,
		Sections:   s.Sections.Clone(),
		Confidence: s.Confidence,
	}
}

// Compute runs analyze → aggregate + confidence → factors. Analyzer errors are returned
// wrapped; there is no fallback to default scores.
func Compute(ctx context.Context, analyzer Analyzer, doc *resume.Document, job *resume.JobPosting, now time.Time) (*Snapshot, error) {
	sections, err := analyzer.Analyze(ctx, doc, job)
	if err != nil {
		return nil, fmt.Errorf("analyzing sections: %w", err)
	}

	return Assemble(sections, job, now)
}

// Assemble builds a snapshot from already analyzed sections.
func Assemble(sections Sections, job *resume.JobPosting, now time.Time) (*Snapshot, error) {
	sections = normalize(sections)

	current, err := Aggregate(sections)
	if err != nil {
		return nil, fmt.Errorf("aggregating score: %w", err)
	}

	all := GenerateFactors(sections)

	return &Snapshot{
		Current:    current,
		Sections:   sections,
		Confidence: EstimateConfidence(sections, job),
		Timestamp:  now,
		Factors:    TopFactors(all, DisplayedFactors),
		AllFactors: all,
	}, nil
}

// normalize restricts the map to KnownSections, filling gaps with missing assessments
// and clamping scores, so external analyzers cannot break the snapshot invariants.
func normalize(in Sections) Sections {
	out := make(Sections, len(KnownSections))
	for _, name := range KnownSections {
		s, ok := in[name]
		if !ok {
			out[name] = MissingSection(name, Weights[name], IsOptional(name))
			continue
		}
		s.Score = clampScore(s.Score)
		if s.MaxScore == 0 {
			s.MaxScore = MaxSectionScore
		}
		s.Issues = append([]Issue(nil), s.Issues...)
		s.Recommendations = append([]string(nil), s.Recommendations...)
		out[name] = s
	}
	return out
}
