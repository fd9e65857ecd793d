package resolver

import (
	"fmt"
	"strings"

	"github.com/candidate-concierge/concierge/internal/knowledge"
)

// rule is one entry of the structured taxonomy. A trigger phrase fires when
// every one of its words occurs as a substring of the normalized question.
type rule struct {
	name     string
	triggers []string
	answer   func(kb *knowledge.KnowledgeBase, q string) (string, float64)
}

// rules is evaluated in order and the first firing rule wins, so earlier
// entries shadow later ones when triggers overlap.
var rules = []rule{
	{
		name: "last_role",
		triggers: []string{
			"last job", "previous job", "previous role", "last role", "former job",
			"prior job", "last position", "previous position", "work before",
		},
		answer: lastRole,
	},
	{
		name:     "certifications",
		triggers: []string{"certification", "certified", "cert"},
		answer:   certifications,
	},
	{
		name:     "current_role",
		triggers: []string{"current role", "current position", "current job", "current title", "currently work"},
		answer:   currentRole,
	},
	{
		name:     "location",
		triggers: []string{"where", "location", "based", "live"},
		answer:   location,
	},
	{
		name:     "contact",
		triggers: []string{"contact", "email", "reach", "linkedin"},
		answer:   contact,
	},
	{
		name:     "skills",
		triggers: []string{"skill", "technology", "technologies", "tool"},
		answer:   skills,
	},
	{
		name:     "experience",
		triggers: []string{"experience", "how long", "years"},
		answer:   experience,
	},
	{
		name:     "achievements",
		triggers: []string{"achievement", "accomplish", "impact", "results", "metrics"},
		answer:   achievements,
	},
	{
		name:     "education",
		triggers: []string{"education", "degree", "university", "college", "graduate"},
		answer:   education,
	},
	{
		name:     "projects",
		triggers: []string{"project", "portfolio", "built"},
		answer:   projects,
	},
	{
		name:     "languages",
		triggers: []string{"speak", "spoken", "fluent"},
		answer:   languages,
	},
}

// Match is the outcome of the structured matcher. A zero Confidence means
// no rule fired.
type Match struct {
	Rule       string
	Text       string
	Confidence float64
}

// MatchRules runs the rule table against a normalized question.
func MatchRules(kb *knowledge.KnowledgeBase, q string) Match {
	for _, r := range rules {
		if !fires(r.triggers, q) {
			continue
		}
		text, conf := r.answer(kb, q)
		return Match{Rule: r.name, Text: text, Confidence: conf}
	}
	return Match{}
}

// RuleNames lists the rules in evaluation order.
func RuleNames() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.name
	}
	return names
}

func fires(triggers []string, q string) bool {
	for _, t := range triggers {
		if containsAllWords(q, t) {
			return true
		}
	}
	return false
}

func containsAllWords(q, phrase string) bool {
	for _, w := range strings.Fields(phrase) {
		if !strings.Contains(q, w) {
			return false
		}
	}
	return true
}

func containsAny(q string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func bullets(items []string) string {
	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("• ")
		sb.WriteString(item)
	}
	return sb.String()
}

func roleLine(r knowledge.Role) string {
	if r.Dates == "" {
		return fmt.Sprintf("%s at %s", r.Title, r.Company)
	}
	return fmt.Sprintf("%s at %s (%s)", r.Title, r.Company, r.Dates)
}

func lastRole(kb *knowledge.KnowledgeBase, _ string) (string, float64) {
	past, ok := kb.LastPastRole()
	if !ok {
		if cur, ok := kb.CurrentRole(); ok {
			return fmt.Sprintf("I couldn't find a previous role for %s, but I can tell you that %s currently works as %s.",
				kb.Subject, kb.Subject, roleLine(cur)), EmptyLookupConfidence
		}
		return fmt.Sprintf("I couldn't find a previous role for %s. Try asking about skills or certifications.",
			kb.Subject), EmptyLookupConfidence
	}
	text := fmt.Sprintf("%s's most recent previous role was %s.", kb.Subject, roleLine(past))
	if len(past.Achievements) > 0 {
		text += "\nHighlights:\n" + bullets(past.Achievements)
	}
	return text, StructuredConfidence
}

func certifications(kb *knowledge.KnowledgeBase, _ string) (string, float64) {
	if len(kb.Certifications) == 0 {
		return fmt.Sprintf("%s hasn't listed any certifications, but I can tell you about skills and experience.",
			kb.Subject), EmptyLookupConfidence
	}
	lines := make([]string, len(kb.Certifications))
	for i, c := range kb.Certifications {
		line := fmt.Sprintf("%s (%s, %s)", c.Name, c.Issuer, c.Year)
		if c.Status != "" {
			line += " - " + c.Status
		}
		lines[i] = line
	}
	return fmt.Sprintf("%s holds the following certifications:\n%s", kb.Subject, bullets(lines)), StructuredConfidence
}

func currentRole(kb *knowledge.KnowledgeBase, _ string) (string, float64) {
	cur, ok := kb.CurrentRole()
	if !ok {
		if past, ok := kb.LastPastRole(); ok {
			return fmt.Sprintf("I don't have a current role on file for %s. Most recently, %s worked as %s.",
				kb.Subject, kb.Subject, roleLine(past)), EmptyLookupConfidence
		}
		return fmt.Sprintf("I don't have a current role on file for %s.", kb.Subject), EmptyLookupConfidence
	}
	return fmt.Sprintf("%s's current role is %s.", kb.Subject, roleLine(cur)), StructuredConfidence
}

func location(kb *knowledge.KnowledgeBase, _ string) (string, float64) {
	if kb.Contact.Location == "" {
		return fmt.Sprintf("I don't have a location on file for %s, but you can reach out by email to ask.",
			kb.Subject), EmptyLookupConfidence
	}
	return fmt.Sprintf("%s is located in %s.", kb.Subject, kb.Contact.Location), StructuredConfidence
}

func contact(kb *knowledge.KnowledgeBase, _ string) (string, float64) {
	c := kb.Contact
	var lines []string
	if c.Email != "" {
		lines = append(lines, "Email: "+c.Email)
	}
	if c.LinkedIn != "" {
		lines = append(lines, "LinkedIn: "+c.LinkedIn)
	}
	if len(lines) == 0 {
		return fmt.Sprintf("I don't have contact details on file for %s.", kb.Subject), EmptyLookupConfidence
	}
	return fmt.Sprintf("You can contact %s via:\n%s", kb.Subject, bullets(lines)), StructuredConfidence
}

// skillCategories maps question keywords to a skill category, checked in order.
var skillCategories = []struct {
	keywords []string
	category string
}{
	{[]string{"cloud", "azure"}, "cloud"},
	{[]string{"programming", "language", "code"}, "programming"},
	{[]string{"tool"}, "tools"},
	{[]string{"business"}, "business"},
}

func skills(kb *knowledge.KnowledgeBase, q string) (string, float64) {
	for _, sc := range skillCategories {
		if !containsAny(q, sc.keywords...) {
			continue
		}
		cat, ok := kb.Skills.Find(sc.category)
		if !ok || len(cat.Skills) == 0 {
			return fmt.Sprintf("I don't have %s skills listed for %s, but %s's skills include: %s.",
				sc.category, kb.Subject, kb.Subject, strings.Join(kb.Skills.All(), ", ")), EmptyLookupConfidence
		}
		return fmt.Sprintf("%s's %s skills include:\n%s", kb.Subject, sc.category, bullets(cat.Skills)), StructuredConfidence
	}

	all := kb.Skills.All()
	if len(all) == 0 {
		return fmt.Sprintf("I don't have skills listed for %s yet.", kb.Subject), EmptyLookupConfidence
	}
	return fmt.Sprintf("%s's relevant skills include:\n%s", kb.Subject, bullets(all)), StructuredConfidence
}

// experienceTopics maps question keywords to a highlight topic, checked in order.
var experienceTopics = []struct {
	keywords []string
	topic    string
	label    string
}{
	{[]string{"business", "ba"}, "business", "Business Analysis"},
	{[]string{"azure"}, "azure", "Azure"},
	{[]string{"sql"}, "sql", "SQL"},
	{[]string{"scrum"}, "scrum", "Scrum"},
}

func experience(kb *knowledge.KnowledgeBase, q string) (string, float64) {
	for _, et := range experienceTopics {
		if !containsAny(q, et.keywords...) {
			continue
		}
		h, ok := kb.ExperienceHighlights.Find(et.topic)
		if !ok {
			if len(kb.ExperienceHighlights) == 0 {
				return fmt.Sprintf("I don't have %s experience listed for %s.", et.label, kb.Subject), EmptyLookupConfidence
			}
			return fmt.Sprintf("I don't have %s experience listed for %s, but %s's experience includes:\n%s",
				et.label, kb.Subject, kb.Subject, experienceSummary(kb)), EmptyLookupConfidence
		}
		return fmt.Sprintf("%s has %s of %s experience.", kb.Subject, h.Duration, et.label), StructuredConfidence
	}

	if len(kb.ExperienceHighlights) == 0 {
		return fmt.Sprintf("I don't have an experience summary for %s.", kb.Subject), EmptyLookupConfidence
	}
	return fmt.Sprintf("%s's experience includes:\n%s", kb.Subject, experienceSummary(kb)), StructuredConfidence
}

func experienceSummary(kb *knowledge.KnowledgeBase) string {
	lines := make([]string, len(kb.ExperienceHighlights))
	for i, h := range kb.ExperienceHighlights {
		lines[i] = fmt.Sprintf("%s: %s", topicLabel(h.Topic), h.Duration)
	}
	return bullets(lines)
}

func topicLabel(topic string) string {
	for _, et := range experienceTopics {
		if strings.EqualFold(et.topic, topic) {
			return et.label
		}
	}
	topic = strings.ReplaceAll(topic, "_", " ")
	if topic == "" {
		return topic
	}
	return strings.ToUpper(topic[:1]) + topic[1:]
}

func achievements(kb *knowledge.KnowledgeBase, q string) (string, float64) {
	var tags []string
	for _, t := range kb.Tags() {
		if strings.Contains(q, t) {
			tags = append(tags, t)
		}
	}
	found := kb.AchievementsTagged(tags...)
	if len(found) == 0 {
		return fmt.Sprintf("I don't have specific achievements on file for %s.", kb.Subject), EmptyLookupConfidence
	}
	lines := make([]string, len(found))
	for i, a := range found {
		lines[i] = a.Text
	}
	return fmt.Sprintf("%s's key achievements include:\n%s", kb.Subject, bullets(lines)), StructuredConfidence
}

func education(kb *knowledge.KnowledgeBase, _ string) (string, float64) {
	e := kb.Education
	if e.University == "" && len(e.Degrees) == 0 {
		return fmt.Sprintf("I don't have education details on file for %s.", kb.Subject), EmptyLookupConfidence
	}
	text := fmt.Sprintf("%s studied at %s:\n%s", kb.Subject, e.University, bullets(e.Degrees))
	var extra []string
	if e.Honors != "" {
		extra = append(extra, e.Honors)
	}
	if e.GraduationYear != "" {
		extra = append(extra, "graduated "+e.GraduationYear)
	}
	if len(extra) > 0 {
		text += "\n(" + strings.Join(extra, ", ") + ")"
	}
	return text, StructuredConfidence
}

func projects(kb *knowledge.KnowledgeBase, _ string) (string, float64) {
	if len(kb.Projects) == 0 {
		return fmt.Sprintf("I don't have any projects on file for %s.", kb.Subject), EmptyLookupConfidence
	}
	lines := make([]string, len(kb.Projects))
	for i, p := range kb.Projects {
		line := p.Name
		if p.Status != "" {
			line += " (" + p.Status + ")"
		}
		if p.Description != "" {
			line += ": " + p.Description
		}
		lines[i] = line
	}
	return fmt.Sprintf("%s's projects include:\n%s", kb.Subject, bullets(lines)), StructuredConfidence
}

func languages(kb *knowledge.KnowledgeBase, _ string) (string, float64) {
	if len(kb.Languages) == 0 {
		return fmt.Sprintf("I don't know which languages %s speaks.", kb.Subject), EmptyLookupConfidence
	}
	return fmt.Sprintf("%s speaks:\n%s", kb.Subject, bullets(kb.Languages)), StructuredConfidence
}
