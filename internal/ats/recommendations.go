package ats

import "fmt"

// recommendationTexts maps an issue type to the fixed advice shown for it.
var recommendationTexts = map[string]string{
	"missing_name":              "Put your full name at the top of the resume.",
	"missing_email":             "Add a professional email address so recruiters can reach you.",
	"missing_phone":             "Add a phone number to your contact details.",
	"missing_location":          "Add your city or region; many ATS filters match on location.",
	"missing_profile_link":      "Link a LinkedIn profile or personal website.",
	"summary_too_short":         "Expand the summary to 2-4 sentences describing your focus and impact.",
	"summary_too_long":          "Trim the summary to under 80 words; recruiters skim it in seconds.",
	"summary_low_relevance":     "Mirror the job title and top requirements in your summary.",
	"no_experience_entries":     "List your work history with title, company, dates and bullet points.",
	"missing_bullets":           "Describe each role with 3-5 bullet points.",
	"missing_quantification":    "Quantify results with numbers, percentages or amounts.",
	"weak_action_verbs":         "Start bullets with strong action verbs such as led, built or improved.",
	"low_keyword_match":         "Work missing job keywords naturally into your experience and skills.",
	"too_few_skills":            "List at least 5 relevant hard skills.",
	"missing_degree":            "State the degree or certificate for every education entry.",
	"missing_graduation":        "Add graduation years to education entries.",
	"no_education_entries":      "List your highest degree, institution and year.",
	"few_achievements":          "Add at least 3 concrete achievements, awards or certifications.",
	"unquantified_achievements": "Back achievements with measurable outcomes.",
}

func recommendationFor(issue Issue, section Section) string {
	if issue.Type == issueMissingSection {
		return fmt.Sprintf("Add a %s section to your resume.", section)
	}

	if text, ok := recommendationTexts[issue.Type]; ok {
		return text
	}

	return "Review the " + string(section) + " section: " + issue.Description
}

// recommendationsFor turns issues into deduplicated advice, keeping issue order.
func recommendationsFor(section Section, issues []Issue) []string {
	out := make([]string, 0, len(issues))
	seen := make(map[string]bool, len(issues))
	for _, issue := range issues {
		text := recommendationFor(issue, section)
		if seen[text] {
			continue
		}
		seen[text] = true
		out = append(out, text)
	}

	return out
}
