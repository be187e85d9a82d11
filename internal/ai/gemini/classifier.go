package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/ats-insights/internal/ai"
	"github.com/spigell/ats-insights/internal/ats"
	"github.com/spigell/ats-insights/internal/resume"
	"github.com/spigell/ats-insights/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var systemPrompt string

const defaultMaxLogLength = 200

// Classifier scores resume sections with a Gemini model.
type Classifier struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.SectionClassifier = (*Classifier)(nil)

// NewClassifier builds a classifier over generator.
func NewClassifier(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Classifier {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Classifier{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// ClassifySection asks the model to score one section.
func (c *Classifier) ClassifySection(ctx context.Context, section ats.Section, doc *resume.Document, job *resume.JobPosting) (*ai.SectionAssessment, error) {
	if doc == nil {
		return nil, fmt.Errorf("resume document is required")
	}

	message, err := buildMessage(section, doc, job)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini classify request",
		zap.String("section", string(section)),
		zap.Int("message_length", utf8.RuneCountInString(message)),
		zap.String("message_preview", utils.TruncateForLog(message, c.maxLogLen)),
	)

	raw, err := c.generator.GenerateContent(ctx, systemPrompt, message)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("gemini classify response",
		zap.String("section", string(section)),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, c.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}

	assessment.Raw = raw
	return assessment, nil
}

func buildMessage(section ats.Section, doc *resume.Document, job *resume.JobPosting) (string, error) {
	var target *resume.JobPosting
	if !job.IsEmpty() {
		target = job
	}

	payload := map[string]any{
		"section": string(section),
		"content": sectionContent(section, doc),
		"job":     target,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s section payload: %w", section, err)
	}

	return string(data), nil
}

func sectionContent(section ats.Section, doc *resume.Document) any {
	switch section {
	case ats.SectionContact:
		return doc.Contact
	case ats.SectionSummary:
		return doc.Summary
	case ats.SectionExperience:
		return doc.Experience
	case ats.SectionSkills:
		return doc.Skills
	case ats.SectionEducation:
		return doc.Education
	case ats.SectionAchievements:
		return doc.Achievements
	default:
		return nil
	}
}

func parseResponse(raw string) (*ai.SectionAssessment, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		return nil, fmt.Errorf("gemini response has no usable score")
	}

	assessment := &ai.SectionAssessment{
		Score:           int(math.Round(math.Min(math.Max(score, 0), ats.MaxSectionScore))),
		Issues:          []ats.Issue{},
		Recommendations: []string{},
	}

	if items, ok := data["issues"].([]any); ok {
		for _, item := range items {
			fields, ok := item.(map[string]any)
			if !ok {
				continue
			}
			issue := ats.Issue{
				Type:        coerceString(fields["type"]),
				Severity:    coerceSeverity(fields["severity"]),
				Description: coerceString(fields["description"]),
			}
			if issue.Type == "" && issue.Description == "" {
				continue
			}
			assessment.Issues = append(assessment.Issues, issue)
		}
	}

	if items, ok := data["recommendations"].([]any); ok {
		for _, item := range items {
			if text := coerceString(item); text != "" {
				assessment.Recommendations = append(assessment.Recommendations, text)
			}
		}
	}

	return assessment, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceSeverity(v any) ats.Severity {
	switch s := ats.Severity(strings.ToLower(coerceString(v))); s {
	case ats.SeverityCritical, ats.SeverityMajor, ats.SeverityMinor, ats.SeveritySuggestion:
		return s
	default:
		return ats.SeverityMinor
	}
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
