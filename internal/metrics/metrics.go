// Package metrics aggregates already-computed transformation metrics: per-category counts,
// the score timeline, job application comparisons and the interview-rate prediction.
// Every function is pure and returns a zero result for empty input.
package metrics

import (
	"fmt"
	"time"

	"github.com/spigell/ats-insights/internal/ats"
	"github.com/spigell/ats-insights/internal/resume"
)

// TransformationMetrics is the report produced upstream when a resume is rewritten.
type TransformationMetrics struct {
	Overall     OverallMetrics             `json:"overall" mapstructure:"overall"`
	ByCategory  map[string]CategoryMetrics `json:"byCategory" mapstructure:"byCategory"`
	Timeline    []TimelinePoint            `json:"timeline" mapstructure:"timeline"`
	Comparisons []JobComparison            `json:"comparisons" mapstructure:"comparisons"`
}

// OverallMetrics holds the aggregate enhancement counters.
type OverallMetrics struct {
	KeywordsAdded                     int     `json:"keywordsAdded" mapstructure:"keywordsAdded"`
	KeywordsRemoved                   int     `json:"keywordsRemoved" mapstructure:"keywordsRemoved"`
	ContentEnhanced                   int     `json:"contentEnhanced" mapstructure:"contentEnhanced"`
	MetricsAdded                      int     `json:"metricsAdded" mapstructure:"metricsAdded"`
	BulletPointsImproved              int     `json:"bulletPointsImproved" mapstructure:"bulletPointsImproved"`
	SectionsAdded                     int     `json:"sectionsAdded" mapstructure:"sectionsAdded"`
	WordCountChange                   int     `json:"wordCountChange" mapstructure:"wordCountChange"`
	ReadabilityImprovement            float64 `json:"readabilityImprovement" mapstructure:"readabilityImprovement"`
	EstimatedInterviewRateImprovement float64 `json:"estimatedInterviewRateImprovement" mapstructure:"estimatedInterviewRateImprovement"`
}

// CategoryMetrics are the counters of one enhancement category. Impact and Confidence are
// supplied upstream and never recomputed here.
type CategoryMetrics struct {
	KeywordsAdded        int            `json:"keywordsAdded" mapstructure:"keywordsAdded"`
	BulletPointsImproved int            `json:"bulletPointsImproved" mapstructure:"bulletPointsImproved"`
	MetricsAdded         int            `json:"metricsAdded" mapstructure:"metricsAdded"`
	ContentEnhanced      int            `json:"contentEnhanced" mapstructure:"contentEnhanced"`
	SectionsAdded        int            `json:"sectionsAdded" mapstructure:"sectionsAdded"`
	Impact               float64        `json:"impact" mapstructure:"impact"`
	Confidence           ats.Confidence `json:"confidence" mapstructure:"confidence"`
}

// TimelinePoint is one historical score observation.
type TimelinePoint struct {
	Date     time.Time `json:"date" mapstructure:"date"`
	ATSScore int       `json:"atsScore" mapstructure:"atsScore"`
	Changes  int       `json:"changes" mapstructure:"changes"`
	Impact   string    `json:"impact" mapstructure:"impact"`
}

// Status is the stage of a job application.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusInterview Status = "interview"
	StatusPending   Status = "pending"
	StatusRejected  Status = "rejected"
)

// Statuses lists the known application stages in report order.
var Statuses = []Status{StatusApplied, StatusInterview, StatusPending, StatusRejected}

// JobComparison compares the transformed resume's performance for one application.
type JobComparison struct {
	JobTitle               string  `json:"jobTitle" mapstructure:"jobTitle"`
	Company                string  `json:"company" mapstructure:"company"`
	ATSScoreImprovement    float64 `json:"atsScoreImprovement" mapstructure:"atsScoreImprovement"`
	KeywordsMatched        int     `json:"keywordsMatched" mapstructure:"keywordsMatched"`
	EstimatedInterviewRate float64 `json:"estimatedInterviewRate" mapstructure:"estimatedInterviewRate"`
	Status                 Status  `json:"status" mapstructure:"status"`
}

// Load reads a YAML or JSON metrics report.
func Load(path string) (*TransformationMetrics, error) {
	raw, err := resume.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading metrics: %w", err)
	}

	return Decode(raw), nil
}

// Decode converts a loosely typed map into TransformationMetrics. A malformed top-level
// block is dropped instead of failing the whole report.
func Decode(raw map[string]any) *TransformationMetrics {
	m := &TransformationMetrics{}
	for key, value := range raw {
		var part TransformationMetrics
		if err := resume.Decode(map[string]any{key: value}, &part); err != nil {
			continue
		}
		merge(m, &part)
	}

	return m
}

func merge(dst, src *TransformationMetrics) {
	if src.Overall != (OverallMetrics{}) {
		dst.Overall = src.Overall
	}
	if src.ByCategory != nil {
		dst.ByCategory = src.ByCategory
	}
	if src.Timeline != nil {
		dst.Timeline = src.Timeline
	}
	if src.Comparisons != nil {
		dst.Comparisons = src.Comparisons
	}
}
