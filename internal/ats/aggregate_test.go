package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformSections(score int) Sections {
	sections := make(Sections, len(KnownSections))
	for _, name := range KnownSections {
		sections[name] = SectionScore{Score: score, MaxScore: MaxSectionScore, Weight: Weights[name]}
	}
	return sections
}

func TestAggregate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sections Sections
		expect   int
	}{
		{
			name:     "uniform scores aggregate to the same score",
			sections: uniformSections(95),
			expect:   95,
		},
		{
			name:     "all zero",
			sections: uniformSections(0),
			expect:   0,
		},
		{
			name: "zero weights are skipped",
			sections: Sections{
				SectionContact:    {Score: 100, Weight: 1},
				SectionExperience: {Score: 0, Weight: 1},
				SectionSkills:     {Score: 1, Weight: 0},
			},
			expect: 50,
		},
		{
			name: "out of range scores are clamped",
			sections: Sections{
				SectionContact: {Score: 250, Weight: 0.5},
			},
			expect: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Aggregate(tt.sections)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, got)
		})
	}
}

func TestAggregateNoWeights(t *testing.T) {
	t.Parallel()

	_, err := Aggregate(Sections{})
	require.ErrorIs(t, err, ErrNoWeights)

	_, err = Aggregate(Sections{SectionContact: {Score: 80, Weight: 0}})
	require.ErrorIs(t, err, ErrNoWeights)
}

func TestAggregateWeightRescaleInvariance(t *testing.T) {
	t.Parallel()

	sections := Sections{
		SectionContact:      {Score: 72, Weight: Weights[SectionContact]},
		SectionSummary:      {Score: 41, Weight: Weights[SectionSummary]},
		SectionExperience:   {Score: 88, Weight: Weights[SectionExperience]},
		SectionSkills:       {Score: 63, Weight: Weights[SectionSkills]},
		SectionEducation:    {Score: 90, Weight: Weights[SectionEducation]},
		SectionAchievements: {Score: 0, Weight: Weights[SectionAchievements]},
	}

	scaled := make(Sections, len(sections))
	for name, s := range sections {
		s.Weight *= 2
		scaled[name] = s
	}

	base, err := Aggregate(sections)
	require.NoError(t, err)
	rescaled, err := Aggregate(scaled)
	require.NoError(t, err)

	assert.Equal(t, base, rescaled)
	assert.GreaterOrEqual(t, base, 0)
	assert.LessOrEqual(t, base, 100)
}

func TestEstimateConfidence(t *testing.T) {
	t.Parallel()

	job := testJob()
	four := uniformSections(80)
	four[SectionSummary] = SectionScore{Weight: Weights[SectionSummary]}
	four[SectionAchievements] = SectionScore{Weight: Weights[SectionAchievements]}
	three := four.Clone()
	three[SectionEducation] = SectionScore{Weight: Weights[SectionEducation]}

	tests := []struct {
		name       string
		sections   Sections
		withoutJob bool
		expect     Confidence
	}{
		{name: "complete with job", sections: uniformSections(80), expect: ConfidenceHigh},
		{name: "four of six with job", sections: four, expect: ConfidenceMedium},
		{name: "three of six with job", sections: three, expect: ConfidenceLow},
		{name: "complete without job", sections: uniformSections(100), withoutJob: true, expect: ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			j := job
			if tt.withoutJob {
				j = nil
			}
			assert.Equal(t, tt.expect, EstimateConfidence(tt.sections, j))
		})
	}
}
