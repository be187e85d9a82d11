package ats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFactorsThresholds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score    int
		expect   int
		category FactorCategory
	}{
		{score: 100, expect: 5, category: FactorPositive},
		{score: 90, expect: 5, category: FactorPositive},
		{score: 89, expect: 0},
		{score: 51, expect: 0},
		{score: 50, expect: -10, category: FactorNegative},
		{score: 0, expect: -10, category: FactorNegative},
	}

	for _, tt := range tests {
		factors := GenerateFactors(Sections{SectionSkills: {Score: tt.score, MaxScore: MaxSectionScore}})
		if tt.expect == 0 {
			assert.Empty(t, factors, "score %d", tt.score)
			continue
		}

		require.Len(t, factors, 1, "score %d", tt.score)
		assert.Equal(t, tt.expect, factors[0].Impact)
		assert.Equal(t, tt.category, factors[0].Category)
		assert.Equal(t, SectionSkills, factors[0].Section)
	}
}

func TestGenerateFactorsOrdering(t *testing.T) {
	t.Parallel()

	sections := Sections{
		SectionContact:      {Score: 95},
		SectionSummary:      {Score: 30},
		SectionExperience:   {Score: 70},
		SectionSkills:       {Score: 92},
		SectionEducation:    {Score: 10},
		SectionAchievements: {Score: 100},
	}

	factors := GenerateFactors(sections)

	names := make([]string, 0, len(factors))
	for _, f := range factors {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"Weak Summary section",
		"Weak Education section",
		"Strong Contact section",
		"Strong Skills section",
		"Strong Achievements section",
	}, names)

	top := TopFactors(factors, DisplayedFactors)
	assert.Equal(t, factors[:3], top)
	assert.Len(t, TopFactors(factors[:1], DisplayedFactors), 1)
	assert.Empty(t, TopFactors(factors, -1))
}

func TestGenerateFactorsWithCustomRules(t *testing.T) {
	t.Parallel()

	rules := []FactorRule{{
		Name:    "perfect",
		Matches: func(score int) bool { return score == 100 },
		Build: func(section Section, _ SectionScore) Factor {
			return Factor{Name: "Perfect " + section.Title(), Impact: 1, Category: FactorPositive, Section: section}
		},
	}}

	factors := GenerateFactorsWith(rules, Sections{SectionSkills: {Score: 100}, SectionContact: {Score: 99}})
	require.Len(t, factors, 1)
	assert.Equal(t, "Perfect Skills", factors[0].Name)
}
