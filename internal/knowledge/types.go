// Package knowledge holds the candidate profile that every answer is drawn
// from. A KnowledgeBase is built once at startup and never mutated, so it is
// safe to share between goroutines without locking.
package knowledge

import "strings"

// Status marks whether a role is ongoing.
type Status string

const (
	StatusCurrent Status = "Current"
	StatusPast    Status = "Past"
)

// KnowledgeBase is the structured résumé record.
type KnowledgeBase struct {
	Subject              string          `yaml:"subject" json:"subject"`
	Contact              Contact         `yaml:"contact" json:"contact"`
	Summary              []string        `yaml:"summary" json:"summary"`
	Roles                []Role          `yaml:"roles" json:"roles"`
	Skills               Categories      `yaml:"skills" json:"skills"`
	Certifications       []Certification `yaml:"certifications" json:"certifications"`
	Education            Education       `yaml:"education" json:"education"`
	Achievements         []Achievement   `yaml:"achievements" json:"achievements"`
	Projects             []Project       `yaml:"projects" json:"projects"`
	ExperienceHighlights Highlights      `yaml:"experience_highlights" json:"experience_highlights"`
	Languages            []string        `yaml:"languages" json:"languages,omitempty"`
}

type Contact struct {
	Name     string `yaml:"name" json:"name"`
	Location string `yaml:"location" json:"location"`
	Email    string `yaml:"email" json:"email"`
	LinkedIn string `yaml:"linkedin" json:"linkedin"`
}

// Role is one position. Roles are listed most recent first.
type Role struct {
	Company          string   `yaml:"company" json:"company"`
	Title            string   `yaml:"title" json:"title"`
	Dates            string   `yaml:"dates" json:"dates"`
	Status           Status   `yaml:"status" json:"status"`
	Responsibilities []string `yaml:"responsibilities" json:"responsibilities,omitempty"`
	Achievements     []string `yaml:"achievements" json:"achievements,omitempty"`
}

// IsCurrent reports whether the role is the ongoing one.
func (r Role) IsCurrent() bool { return strings.EqualFold(string(r.Status), string(StatusCurrent)) }

// IsPast reports whether the role has ended.
func (r Role) IsPast() bool { return strings.EqualFold(string(r.Status), string(StatusPast)) }

type Certification struct {
	Name   string `yaml:"name" json:"name"`
	Issuer string `yaml:"issuer" json:"issuer"`
	Year   string `yaml:"year" json:"year"`
	Status string `yaml:"status" json:"status,omitempty"`
}

type Education struct {
	University     string   `yaml:"university" json:"university"`
	Degrees        []string `yaml:"degrees" json:"degrees"`
	Honors         string   `yaml:"honors" json:"honors,omitempty"`
	GraduationYear string   `yaml:"graduation_year" json:"graduation_year,omitempty"`
}

// Achievement is a headline result. Tags allow filtered retrieval.
type Achievement struct {
	Text string   `yaml:"text" json:"text"`
	Tags []string `yaml:"tags" json:"tags,omitempty"`
}

// HasTag reports whether the achievement carries tag, ignoring case.
func (a Achievement) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type Project struct {
	Name         string   `yaml:"name" json:"name"`
	Status       string   `yaml:"status" json:"status"`
	Description  string   `yaml:"description" json:"description"`
	Achievements []string `yaml:"achievements" json:"achievements,omitempty"`
	Technologies []string `yaml:"technologies" json:"technologies,omitempty"`
}
