package metrics

import "sort"

// ComparisonSummary condenses a set of job comparisons.
type ComparisonSummary struct {
	AvgATSImprovement float64 `json:"avgAtsImprovement"`
	AvgInterviewRate  float64 `json:"avgInterviewRate"`
	InterviewCount    int     `json:"interviewCount"`
	Total             int     `json:"total"`
}

// SummarizeComparisons averages improvements and interview rates. Empty input yields the zero summary.
func SummarizeComparisons(comparisons []JobComparison) ComparisonSummary {
	if len(comparisons) == 0 {
		return ComparisonSummary{}
	}

	var summary ComparisonSummary
	var improvement, rate float64
	for _, c := range comparisons {
		improvement += c.ATSScoreImprovement
		rate += c.EstimatedInterviewRate
		if c.Status == StatusInterview {
			summary.InterviewCount++
		}
	}

	n := float64(len(comparisons))
	summary.AvgATSImprovement = improvement / n
	summary.AvgInterviewRate = rate / n
	summary.Total = len(comparisons)

	return summary
}

// StatusReport summarizes the comparisons that share one status.
type StatusReport struct {
	Status Status `json:"status"`
	ComparisonSummary
}

// ReportByStatus groups comparisons per status. Known statuses come first in Statuses
// order, followed by any other status in name order. Statuses with no comparisons are omitted.
func ReportByStatus(comparisons []JobComparison) []StatusReport {
	groups := make(map[Status][]JobComparison)
	for _, c := range comparisons {
		groups[c.Status] = append(groups[c.Status], c)
	}

	order := make([]Status, 0, len(groups))
	known := make(map[Status]bool, len(Statuses))
	for _, s := range Statuses {
		known[s] = true
		if _, ok := groups[s]; ok {
			order = append(order, s)
		}
	}

	var other []Status
	for s := range groups {
		if !known[s] {
			other = append(other, s)
		}
	}
	sort.Slice(other, func(i, j int) bool { return other[i] < other[j] })
	order = append(order, other...)

	reports := make([]StatusReport, 0, len(order))
	for _, s := range order {
		reports = append(reports, StatusReport{Status: s, ComparisonSummary: SummarizeComparisons(groups[s])})
	}

	return reports
}
