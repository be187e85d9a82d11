package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/ats-insights/internal/ats"
	"github.com/spigell/ats-insights/internal/logger"
	"github.com/spigell/ats-insights/internal/resume"
)

const defaultConcurrency = 3

// Analyzer implements ats.Analyzer on top of a SectionClassifier. Sections missing from the
// document are scored locally; present sections are classified concurrently.
type Analyzer struct {
	classifier  SectionClassifier
	concurrency int
	logger      *zap.Logger
}

// NewAnalyzer wraps classifier. A non-positive concurrency uses the default.
func NewAnalyzer(classifier SectionClassifier, concurrency int, log *zap.Logger) *Analyzer {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Analyzer{classifier: classifier, concurrency: concurrency, logger: log}
}

// Analyze fails as a whole when any section fails; partial results are never returned.
func (a *Analyzer) Analyze(ctx context.Context, doc *resume.Document, job *resume.JobPosting) (ats.Sections, error) {
	if a.classifier == nil {
		return nil, fmt.Errorf("section classifier is not configured")
	}

	results := make([]ats.SectionScore, len(ats.KnownSections))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, name := range ats.KnownSections {
		weight := ats.Weights[name]
		if !ats.Present(doc, name) {
			results[i] = ats.MissingSection(name, weight, ats.IsOptional(name))
			continue
		}

		g.Go(func() error {
			log := logger.WithFields(a.logger, zap.String(logger.FieldSection, string(name)))
			log.Debug("classifying section")

			assessment, err := a.classifier.ClassifySection(gctx, name, doc, job)
			if err != nil {
				return fmt.Errorf("classifying %s section: %w", name, err)
			}

			results[i] = toSectionScore(assessment, weight)
			log.Debug("section classified", zap.Int("score", results[i].Score), zap.Int("issues", len(results[i].Issues)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sections := make(ats.Sections, len(ats.KnownSections))
	for i, name := range ats.KnownSections {
		sections[name] = results[i]
	}

	return sections, nil
}

func toSectionScore(a *SectionAssessment, weight float64) ats.SectionScore {
	score := ats.SectionScore{
		MaxScore:        ats.MaxSectionScore,
		Weight:          weight,
		Issues:          []ats.Issue{},
		Recommendations: []string{},
	}
	if a == nil {
		return score
	}

	score.Score = min(max(a.Score, 0), ats.MaxSectionScore)
	score.Issues = append(score.Issues, a.Issues...)
	score.Recommendations = append(score.Recommendations, a.Recommendations...)

	return score
}
