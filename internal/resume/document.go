// Package resume holds the parsed resume and job posting records consumed by the scoring engine.
package resume

import "strings"

// Document is an already-parsed resume. A nil section means the resume lacks it entirely;
// an empty but non-nil section means the heading exists without content.
type Document struct {
	Contact      *Contact     `json:"contact,omitempty" mapstructure:"contact"`
	Summary      *string      `json:"summary,omitempty" mapstructure:"summary"`
	Experience   []Experience `json:"experience,omitempty" mapstructure:"experience"`
	Skills       []string     `json:"skills,omitempty" mapstructure:"skills"`
	Education    []Education  `json:"education,omitempty" mapstructure:"education"`
	Achievements []string     `json:"achievements,omitempty" mapstructure:"achievements"`
}

type Contact struct {
	Name     string `json:"name,omitempty" mapstructure:"name"`
	Email    string `json:"email,omitempty" mapstructure:"email"`
	Phone    string `json:"phone,omitempty" mapstructure:"phone"`
	Location string `json:"location,omitempty" mapstructure:"location"`
	LinkedIn string `json:"linkedin,omitempty" mapstructure:"linkedin"`
	Website  string `json:"website,omitempty" mapstructure:"website"`
}

type Experience struct {
	Title     string   `json:"title,omitempty" mapstructure:"title"`
	Company   string   `json:"company,omitempty" mapstructure:"company"`
	StartDate string   `json:"start_date,omitempty" mapstructure:"start_date"`
	EndDate   string   `json:"end_date,omitempty" mapstructure:"end_date"`
	Bullets   []string `json:"bullets,omitempty" mapstructure:"bullets"`
}

type Education struct {
	Degree      string `json:"degree,omitempty" mapstructure:"degree"`
	Institution string `json:"institution,omitempty" mapstructure:"institution"`
	Year        string `json:"year,omitempty" mapstructure:"year"`
}

// JobPosting describes the target role. It may be nil or empty.
type JobPosting struct {
	Title        string   `json:"title,omitempty" mapstructure:"title"`
	Company      string   `json:"company,omitempty" mapstructure:"company"`
	Description  string   `json:"description,omitempty" mapstructure:"description"`
	Keywords     []string `json:"keywords,omitempty" mapstructure:"keywords"`
	Requirements []string `json:"requirements,omitempty" mapstructure:"requirements"`
}

// IsEmpty reports whether the posting carries no usable information.
func (j *JobPosting) IsEmpty() bool {
	if j == nil {
		return true
	}

	if strings.TrimSpace(j.Title) != "" || strings.TrimSpace(j.Company) != "" || strings.TrimSpace(j.Description) != "" {
		return false
	}

	for _, k := range j.Keywords {
		if strings.TrimSpace(k) != "" {
			return false
		}
	}

	for _, r := range j.Requirements {
		if strings.TrimSpace(r) != "" {
			return false
		}
	}

	return true
}

// Text joins every free-text field of the posting.
func (j *JobPosting) Text() string {
	if j == nil {
		return ""
	}

	parts := make([]string, 0, 3+len(j.Requirements))
	parts = append(parts, j.Title, j.Description)
	parts = append(parts, j.Requirements...)

	return strings.Join(parts, " ")
}

// AllBullets returns every experience bullet in document order.
func (d *Document) AllBullets() []string {
	if d == nil {
		return nil
	}

	var bullets []string
	for _, e := range d.Experience {
		bullets = append(bullets, e.Bullets...)
	}

	return bullets
}

// Text joins the free text of the document for keyword matching.
func (d *Document) Text() string {
	if d == nil {
		return ""
	}

	var b strings.Builder
	if d.Summary != nil {
		b.WriteString(*d.Summary)
		b.WriteString(" ")
	}
	for _, e := range d.Experience {
		b.WriteString(e.Title)
		b.WriteString(" ")
		b.WriteString(strings.Join(e.Bullets, " "))
		b.WriteString(" ")
	}
	b.WriteString(strings.Join(d.Skills, " "))
	b.WriteString(" ")
	b.WriteString(strings.Join(d.Achievements, " "))

	return b.String()
}
