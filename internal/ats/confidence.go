package ats

import "github.com/spigell/ats-insights/internal/resume"

// Confidence is the reliability label attached to a score.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

const (
	highCompleteness   = 0.8
	mediumCompleteness = 0.6
)

// EstimateConfidence classifies a result from job presence and the share of non-zero sections.
func EstimateConfidence(sections Sections, job *resume.JobPosting) Confidence {
	if job.IsEmpty() {
		return ConfidenceLow
	}

	complete := sections.Complete()
	switch {
	case complete >= highCompleteness:
		return ConfidenceHigh
	case complete >= mediumCompleteness:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
