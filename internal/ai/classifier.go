// Package ai adapts an external section classifier to the scoring engine.
package ai

import (
	"context"

	"github.com/spigell/ats-insights/internal/ats"
	"github.com/spigell/ats-insights/internal/resume"
)

// SectionAssessment is the classifier's verdict on a single resume section.
type SectionAssessment struct {
	Score           int
	Issues          []ats.Issue
	Recommendations []string
	Raw             string
}

// SectionClassifier scores one section that is present in the document.
type SectionClassifier interface {
	ClassifySection(ctx context.Context, section ats.Section, doc *resume.Document, job *resume.JobPosting) (*SectionAssessment, error)
}
