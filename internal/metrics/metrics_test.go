package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/ats-insights/internal/ats"
)

var now = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

func point(ago time.Duration, score int) TimelinePoint {
	return TimelinePoint{Date: now.Add(-ago), ATSScore: score}
}

func scores(points []TimelinePoint) []int {
	out := make([]int, 0, len(points))
	for _, p := range points {
		out = append(out, p.ATSScore)
	}
	return out
}

func TestRange(t *testing.T) {
	t.Parallel()

	points := []TimelinePoint{
		point(40*24*time.Hour, 50),
		point(20*24*time.Hour, 58),
		point(3*24*time.Hour, 61),
		point(25*time.Hour, 64),
		point(24*time.Hour, 66),
		point(2*time.Hour, 72),
		point(30*time.Minute, 70),
	}

	tests := []struct {
		window Window
		expect []int
	}{
		{window: WindowDay, expect: []int{66, 72, 70}},
		{window: WindowWeek, expect: []int{61, 64, 66, 72, 70}},
		{window: WindowMonth, expect: []int{58, 61, 64, 66, 72, 70}},
		{window: WindowAll, expect: []int{50, 58, 61, 64, 66, 72, 70}},
		{window: Window("fortnight"), expect: []int{50, 58, 61, 64, 66, 72, 70}},
	}

	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, scores(Range(points, tt.window, now)))
		})
	}

	assert.Empty(t, Range(nil, WindowDay, now))
}

func TestRangeDayExcludesOlderThan24Hours(t *testing.T) {
	t.Parallel()

	points := []TimelinePoint{
		point(24*time.Hour+time.Nanosecond, 1),
		point(time.Hour, 2),
		point(48*time.Hour, 3),
		point(0, 4),
	}

	got := Range(points, WindowDay, now)
	for _, p := range got {
		assert.False(t, p.Date.Before(now.Add(-24*time.Hour)))
	}
	assert.Equal(t, []int{2, 4}, scores(got))
}

func TestMonthUsesCalendarMonth(t *testing.T) {
	t.Parallel()

	cutoff, ok := WindowMonth.Cutoff(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC), cutoff)

	_, ok = WindowAll.Cutoff(now)
	assert.False(t, ok)
}

func TestParseWindow(t *testing.T) {
	t.Parallel()

	assert.Equal(t, WindowWeek, ParseWindow(" Week "))
	assert.Equal(t, WindowAll, ParseWindow(""))
	assert.Equal(t, WindowAll, ParseWindow("year"))
}

func TestDeltasAndTotalImprovement(t *testing.T) {
	t.Parallel()

	points := []TimelinePoint{point(3*time.Hour, 60), point(2*time.Hour, 72), point(time.Hour, 68)}

	deltas := Deltas(points)
	require.Len(t, deltas, 3)
	assert.Nil(t, deltas[0].Delta)
	assert.Equal(t, 12, *deltas[1].Delta)
	assert.Equal(t, -4, *deltas[2].Delta)

	assert.Equal(t, 12, TotalImprovement(points))
	assert.Zero(t, TotalImprovement(nil))
	assert.Empty(t, Deltas(nil))
}

func TestSummarizeCategories(t *testing.T) {
	t.Parallel()

	in := map[string]CategoryMetrics{
		"skills":     {KeywordsAdded: 4, Impact: 0.3, Confidence: ats.ConfidenceMedium},
		"experience": {BulletPointsImproved: 6, MetricsAdded: 3, Impact: 0.6, Confidence: ats.ConfidenceHigh},
	}

	got := SummarizeCategories(in)
	require.Len(t, got, 2)
	assert.Equal(t, "experience", got[0].Name)
	assert.Equal(t, in["experience"], got[0].CategoryMetrics)
	assert.Equal(t, "skills", got[1].Name)
	assert.Equal(t, ats.ConfidenceMedium, got[1].Confidence)

	assert.Empty(t, SummarizeCategories(nil))
}

func TestSummarizeComparisons(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ComparisonSummary{}, SummarizeComparisons(nil))
	assert.Equal(t, ComparisonSummary{}, SummarizeComparisons([]JobComparison{}))

	comparisons := []JobComparison{
		{JobTitle: "SRE", ATSScoreImprovement: 20, EstimatedInterviewRate: 30, Status: StatusInterview},
		{JobTitle: "Backend", ATSScoreImprovement: 10, EstimatedInterviewRate: 20, Status: StatusApplied},
		{JobTitle: "Platform", ATSScoreImprovement: 30, EstimatedInterviewRate: 40, Status: StatusInterview},
		{JobTitle: "Data", ATSScoreImprovement: 0, EstimatedInterviewRate: 10, Status: StatusRejected},
	}

	summary := SummarizeComparisons(comparisons)
	assert.InDelta(t, 15, summary.AvgATSImprovement, 1e-9)
	assert.InDelta(t, 25, summary.AvgInterviewRate, 1e-9)
	assert.Equal(t, 2, summary.InterviewCount)
	assert.Equal(t, 4, summary.Total)

	reports := ReportByStatus(append(comparisons, JobComparison{Status: "offer", ATSScoreImprovement: 5}))
	statuses := make([]Status, 0, len(reports))
	for _, r := range reports {
		statuses = append(statuses, r.Status)
	}
	assert.Equal(t, []Status{StatusApplied, StatusInterview, StatusRejected, "offer"}, statuses)
	assert.Equal(t, 2, reports[1].Total)
	assert.InDelta(t, 25, reports[1].AvgATSImprovement, 1e-9)

	assert.Empty(t, ReportByStatus(nil))
}

func TestPredict(t *testing.T) {
	t.Parallel()

	factors := DefaultRateFactors()
	prediction := Predict(15, OverallMetrics{EstimatedInterviewRateImprovement: 45}, factors)

	assert.InDelta(t, 60, prediction.PredictedRate, 1e-9)
	assert.InDelta(t, 15, prediction.BaselineRate, 1e-9)
	assert.Equal(t, factors, prediction.ContributingFactors)

	var sum float64
	for _, f := range prediction.ContributingFactors {
		sum += f.Impact
	}
	assert.NotEqual(t, prediction.PredictedRate-prediction.BaselineRate, sum, "factor impacts are independent of the predicted rate")

	// The returned slice is a copy.
	prediction.ContributingFactors[0].Impact = 0
	assert.NotZero(t, factors[0].Impact)
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "metrics.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
overall:
  keywordsAdded: 12
  estimatedInterviewRateImprovement: "45"
byCategory:
  skills:
    keywordsAdded: 4
    impact: 0.3
    confidence: medium
  ATS Formatting:
    keywordsAdded: 3
  Node.js:
    keywordsAdded: 2
    confidence: high
timeline:
  - date: "2024-03-30T10:00:00Z"
    atsScore: 62
    changes: 3
    impact: medium
  - date: "2024-03-31"
    atsScore: 74
comparisons: "broken"
`), 0o600))

	m, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 12, m.Overall.KeywordsAdded)
	assert.InDelta(t, 45, m.Overall.EstimatedInterviewRateImprovement, 1e-9)
	require.Contains(t, m.ByCategory, "skills")
	assert.Equal(t, ats.ConfidenceMedium, m.ByCategory["skills"].Confidence)
	require.Len(t, m.ByCategory, 3)
	require.Contains(t, m.ByCategory, "ATS Formatting", "category names keep their case")
	assert.Equal(t, 3, m.ByCategory["ATS Formatting"].KeywordsAdded)
	require.Contains(t, m.ByCategory, "Node.js", "dotted category names are not split")
	assert.Equal(t, 2, m.ByCategory["Node.js"].KeywordsAdded)
	assert.Equal(t, ats.ConfidenceHigh, m.ByCategory["Node.js"].Confidence)
	require.Len(t, m.Timeline, 2)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), m.Timeline[1].Date)
	assert.Equal(t, 12, TotalImprovement(m.Timeline))
	assert.Empty(t, m.Comparisons, "malformed block is dropped")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
