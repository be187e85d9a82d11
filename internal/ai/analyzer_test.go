package ai

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/ats-insights/internal/ats"
	"github.com/spigell/ats-insights/internal/resume"
)

type fakeClassifier struct {
	mu       sync.Mutex
	calls    []ats.Section
	scores   map[ats.Section]int
	failOn   ats.Section
	err      error
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeClassifier) ClassifySection(ctx context.Context, section ats.Section, _ *resume.Document, _ *resume.JobPosting) (*SectionAssessment, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, section)
	f.mu.Unlock()

	// Give concurrent calls a chance to overlap.
	time.Sleep(5 * time.Millisecond)

	if section == f.failOn {
		return nil, f.err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &SectionAssessment{
		Score:           f.scores[section],
		Issues:          []ats.Issue{{Type: "checked", Severity: ats.SeverityMinor, Description: "classified"}},
		Recommendations: []string{"Keep going."},
	}, nil
}

func fullDocument() *resume.Document {
	summary := "Engineer."
	return &resume.Document{
		Contact:      &resume.Contact{Name: "A"},
		Summary:      &summary,
		Experience:   []resume.Experience{{Title: "Engineer"}},
		Skills:       []string{"Go"},
		Education:    []resume.Education{{Degree: "BSc"}},
		Achievements: []string{"Award"},
	}
}

func TestAnalyzerClassifiesPresentSections(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{scores: map[ats.Section]int{
		ats.SectionContact:    90,
		ats.SectionExperience: 150,
		ats.SectionSkills:     -5,
	}}
	doc := fullDocument()
	doc.Summary = nil

	sections, err := NewAnalyzer(classifier, 2, nil).Analyze(context.Background(), doc, nil)
	require.NoError(t, err)
	require.Len(t, sections, len(ats.KnownSections))

	assert.Equal(t, 90, sections[ats.SectionContact].Score)
	assert.Equal(t, ats.MaxSectionScore, sections[ats.SectionExperience].Score, "scores are clamped")
	assert.Zero(t, sections[ats.SectionSkills].Score)
	assert.Equal(t, ats.Weights[ats.SectionExperience], sections[ats.SectionExperience].Weight)
	assert.Equal(t, []string{"Keep going."}, sections[ats.SectionContact].Recommendations)

	// Missing sections never reach the classifier.
	assert.NotContains(t, classifier.calls, ats.SectionSummary)
	assert.Len(t, classifier.calls, len(ats.KnownSections)-1)
	assert.Equal(t, "missing_section", sections[ats.SectionSummary].Issues[0].Type)

	assert.LessOrEqual(t, classifier.peak.Load(), int32(2), "concurrency limit is honoured")
}

func TestAnalyzerFailsAsAWhole(t *testing.T) {
	t.Parallel()

	boom := errors.New("quota exhausted")
	classifier := &fakeClassifier{failOn: ats.SectionSkills, err: boom}

	sections, err := NewAnalyzer(classifier, 1, nil).Analyze(context.Background(), fullDocument(), nil)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "classifying skills section")
	assert.Nil(t, sections)
}

func TestAnalyzerDrivesEngineErrorState(t *testing.T) {
	t.Parallel()

	classifier := &fakeClassifier{failOn: ats.SectionContact, err: errors.New("unavailable")}
	engine := ats.NewEngine(NewAnalyzer(classifier, 3, nil))

	_, err := engine.Trigger(context.Background(), fullDocument(), nil, ats.TriggerManualRefresh)
	require.Error(t, err)
	assert.Equal(t, ats.StateError, engine.State())
	assert.Nil(t, engine.Latest())
}

func TestAnalyzerWithoutClassifier(t *testing.T) {
	t.Parallel()

	_, err := NewAnalyzer(nil, 0, nil).Analyze(context.Background(), fullDocument(), nil)
	require.Error(t, err)
}
