package metrics

// RateFactor is a named, static estimate of how much a change lifts the interview rate.
type RateFactor struct {
	Name        string  `json:"name"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}

// Prediction is the interview-rate estimate shown next to its contributing factors.
type Prediction struct {
	BaselineRate        float64      `json:"baselineRate"`
	PredictedRate       float64      `json:"predictedRate"`
	ContributingFactors []RateFactor `json:"contributingFactors"`
}

// DefaultRateFactors is the fixed list of presentational factors.
func DefaultRateFactors() []RateFactor {
	return []RateFactor{
		{Name: "Keyword optimization", Impact: 18, Description: "Job-specific keywords raise the ATS match rate."},
		{Name: "Quantified achievements", Impact: 12, Description: "Measurable results make impact visible to recruiters."},
		{Name: "ATS-friendly formatting", Impact: 10, Description: "Standard headings and layout parse reliably."},
		{Name: "Strong action verbs", Impact: 8, Description: "Action-led bullets read as ownership."},
	}
}

// Predict adds the estimated improvement to the baseline. The factors are returned for
// display only; their impacts are independent estimates and are not summed into the rate.
func Predict(baselineRate float64, overall OverallMetrics, factors []RateFactor) Prediction {
	return Prediction{
		BaselineRate:        baselineRate,
		PredictedRate:       baselineRate + overall.EstimatedInterviewRateImprovement,
		ContributingFactors: append([]RateFactor{}, factors...),
	}
}
