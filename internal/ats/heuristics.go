package ats

import (
	"math"
	"regexp"
	"strings"

	"github.com/spigell/ats-insights/internal/resume"
)

const (
	neutralRelevance   = 0.5
	minSummaryWords    = 20
	maxSummaryWords    = 80
	minSkills          = 5
	fullSkillBreadth   = 15
	fullAchievements   = 3
	lowQuantifiedRatio = 0.3
	lowActionVerbRatio = 0.5
	lowRelevance       = 0.3
)

var quantifiedRe = regexp.MustCompile(`\d|%|\$|€|£`)

var actionVerbs = map[string]bool{
	"achieved": true, "architected": true, "automated": true, "built": true, "created": true,
	"cut": true, "delivered": true, "designed": true, "developed": true, "drove": true,
	"established": true, "grew": true, "implemented": true, "improved": true, "increased": true,
	"launched": true, "led": true, "managed": true, "mentored": true, "migrated": true,
	"optimized": true, "owned": true, "reduced": true, "redesigned": true, "scaled": true,
	"shipped": true, "spearheaded": true, "streamlined": true, "won": true, "wrote": true,
}

// DefaultScorers returns the built-in strategy table, one scorer per known section.
func DefaultScorers() []SectionScorer {
	return []SectionScorer{
		newDefaultScorer(SectionContact, scoreContact),
		newDefaultScorer(SectionSummary, scoreSummary),
		newDefaultScorer(SectionExperience, scoreExperience),
		newDefaultScorer(SectionSkills, scoreSkills),
		newDefaultScorer(SectionEducation, scoreEducation),
		newDefaultScorer(SectionAchievements, scoreAchievements),
	}
}

// presence maps each known section to the check that tells whether a document has it.
var presence = map[Section]PresenceFunc{
	SectionContact:      hasContact,
	SectionSummary:      hasSummary,
	SectionExperience:   hasExperience,
	SectionSkills:       hasSkills,
	SectionEducation:    hasEducation,
	SectionAchievements: hasAchievements,
}

// Present reports whether doc contains the named section at all.
func Present(doc *resume.Document, name Section) bool {
	check, ok := presence[name]
	return ok && doc != nil && check(doc)
}

// IsOptional reports whether a missing section is only a suggestion rather than a critical gap.
func IsOptional(name Section) bool {
	return name == SectionAchievements
}

func newDefaultScorer(name Section, score ScoreFunc) SectionScorer {
	return NewSectionScorer(name, Weights[name], IsOptional(name), presence[name], score)
}

func hasContact(doc *resume.Document) bool      { return doc.Contact != nil }
func hasSummary(doc *resume.Document) bool      { return doc.Summary != nil }
func hasExperience(doc *resume.Document) bool   { return doc.Experience != nil }
func hasSkills(doc *resume.Document) bool       { return doc.Skills != nil }
func hasEducation(doc *resume.Document) bool    { return doc.Education != nil }
func hasAchievements(doc *resume.Document) bool { return doc.Achievements != nil }

func scoreContact(doc *resume.Document, _ *resume.JobPosting) (int, []Issue) {
	c := doc.Contact
	score := 0
	var issues []Issue

	check := func(value string, points int, issueType string, severity Severity, description string) {
		if strings.TrimSpace(value) != "" {
			score += points
			return
		}
		issues = append(issues, Issue{Type: issueType, Severity: severity, Description: description})
	}

	check(c.Name, 30, "missing_name", SeverityMajor, "Contact details do not include a name.")
	check(c.Email, 30, "missing_email", SeverityCritical, "Contact details do not include an email address.")
	check(c.Phone, 20, "missing_phone", SeverityMinor, "Contact details do not include a phone number.")
	check(c.Location, 10, "missing_location", SeveritySuggestion, "Contact details do not include a location.")
	check(c.LinkedIn+c.Website, 10, "missing_profile_link", SeveritySuggestion, "No LinkedIn profile or website is linked.")

	return score, issues
}

func scoreSummary(doc *resume.Document, job *resume.JobPosting) (int, []Issue) {
	text := strings.TrimSpace(*doc.Summary)
	words := len(strings.Fields(text))
	var issues []Issue

	score := 70
	switch {
	case words == 0:
		score = 10
		issues = append(issues, Issue{Type: "summary_too_short", Severity: SeverityMajor, Description: "The summary is empty."})
	case words < minSummaryWords:
		score = 45
		issues = append(issues, Issue{Type: "summary_too_short", Severity: SeverityMajor, Description: "The summary is shorter than 20 words."})
	case words > maxSummaryWords:
		score = 55
		issues = append(issues, Issue{Type: "summary_too_long", Severity: SeverityMinor, Description: "The summary is longer than 80 words."})
	}

	relevance := keywordRelevance(text, job)
	if relevance < lowRelevance {
		issues = append(issues, Issue{Type: "summary_low_relevance", Severity: SeverityMinor, Description: "The summary mentions few of the job's keywords."})
	}

	return score + int(math.Round(relevance*30)), issues
}

func scoreExperience(doc *resume.Document, job *resume.JobPosting) (int, []Issue) {
	if len(doc.Experience) == 0 {
		return 5, []Issue{{Type: "no_experience_entries", Severity: SeverityCritical, Description: "The experience section has no entries."}}
	}

	var issues []Issue
	withoutBullets := 0
	for _, e := range doc.Experience {
		if len(e.Bullets) == 0 {
			withoutBullets++
		}
	}
	if withoutBullets > 0 {
		issues = append(issues, Issue{Type: "missing_bullets", Severity: SeverityMinor, Description: "Some roles have no bullet points."})
	}

	bullets := doc.AllBullets()
	quantified := ratio(bullets, func(b string) bool { return quantifiedRe.MatchString(b) })
	if quantified < lowQuantifiedRatio {
		issues = append(issues, Issue{Type: "missing_quantification", Severity: SeverityMajor, Description: "Fewer than 30% of bullets contain measurable results."})
	}

	verbs := ratio(bullets, startsWithActionVerb)
	if verbs < lowActionVerbRatio {
		issues = append(issues, Issue{Type: "weak_action_verbs", Severity: SeverityMinor, Description: "Most bullets do not start with an action verb."})
	}

	var text strings.Builder
	for _, e := range doc.Experience {
		text.WriteString(e.Title)
		text.WriteString(" ")
		text.WriteString(strings.Join(e.Bullets, " "))
		text.WriteString(" ")
	}
	relevance := keywordRelevance(text.String(), job)
	if relevance < lowRelevance {
		issues = append(issues, Issue{Type: "low_keyword_match", Severity: SeverityMajor, Description: "Experience mentions few of the job's keywords."})
	}

	score := 40 + quantified*30 + verbs*15 + relevance*15
	return int(math.Round(score)), issues
}

func scoreSkills(doc *resume.Document, job *resume.JobPosting) (int, []Issue) {
	skills := nonBlank(doc.Skills)
	var issues []Issue
	if len(skills) < minSkills {
		issues = append(issues, Issue{Type: "too_few_skills", Severity: SeverityMajor, Description: "Fewer than 5 skills are listed."})
	}

	breadth := math.Min(float64(len(skills))/fullSkillBreadth, 1)
	relevance := keywordRelevance(strings.Join(skills, " "), job)
	if relevance < lowRelevance {
		issues = append(issues, Issue{Type: "low_keyword_match", Severity: SeverityMajor, Description: "Skills cover few of the job's keywords."})
	}

	return int(math.Round(breadth*40 + relevance*60)), issues
}

func scoreEducation(doc *resume.Document, _ *resume.JobPosting) (int, []Issue) {
	if len(doc.Education) == 0 {
		return 10, []Issue{{Type: "no_education_entries", Severity: SeverityMajor, Description: "The education section has no entries."}}
	}

	var issues []Issue
	degrees, years := 0, 0
	for _, e := range doc.Education {
		if strings.TrimSpace(e.Degree) != "" {
			degrees++
		}
		if strings.TrimSpace(e.Year) != "" {
			years++
		}
	}

	total := float64(len(doc.Education))
	if degrees < len(doc.Education) {
		issues = append(issues, Issue{Type: "missing_degree", Severity: SeverityMinor, Description: "Some education entries have no degree."})
	}
	if years < len(doc.Education) {
		issues = append(issues, Issue{Type: "missing_graduation", Severity: SeveritySuggestion, Description: "Some education entries have no year."})
	}

	return int(math.Round(60 + float64(degrees)/total*20 + float64(years)/total*20)), issues
}

func scoreAchievements(doc *resume.Document, _ *resume.JobPosting) (int, []Issue) {
	items := nonBlank(doc.Achievements)
	var issues []Issue
	if len(items) < fullAchievements {
		issues = append(issues, Issue{Type: "few_achievements", Severity: SeveritySuggestion, Description: "Fewer than 3 achievements are listed."})
	}

	quantified := ratio(items, func(a string) bool { return quantifiedRe.MatchString(a) })
	if len(items) > 0 && quantified < lowQuantifiedRatio {
		issues = append(issues, Issue{Type: "unquantified_achievements", Severity: SeverityMinor, Description: "Achievements rarely include measurable outcomes."})
	}

	breadth := math.Min(float64(len(items))/fullAchievements, 1)
	return int(math.Round(breadth*60 + quantified*40)), issues
}

// keywordRelevance is the share of the job's keywords present in text, or neutral
// when the job has nothing to match against.
func keywordRelevance(text string, job *resume.JobPosting) float64 {
	coverage, ok := resume.Coverage(text, job.TargetKeywords())
	if !ok {
		return neutralRelevance
	}
	return coverage
}

func startsWithActionVerb(bullet string) bool {
	fields := strings.Fields(strings.ToLower(bullet))
	if len(fields) == 0 {
		return false
	}
	return actionVerbs[strings.Trim(fields[0], ".,;:-•*")]
}

func ratio(items []string, match func(string) bool) float64 {
	if len(items) == 0 {
		return 0
	}

	n := 0
	for _, item := range items {
		if match(item) {
			n++
		}
	}
	return float64(n) / float64(len(items))
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item) != "" {
			out = append(out, item)
		}
	}
	return out
}
