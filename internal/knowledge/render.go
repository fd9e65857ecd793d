package knowledge

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CurrentRole returns the role marked Current.
func (kb *KnowledgeBase) CurrentRole() (Role, bool) {
	for _, r := range kb.Roles {
		if r.IsCurrent() {
			return r, true
		}
	}
	return Role{}, false
}

// LastPastRole returns the most recent role that has ended. Roles are
// stored most recent first, so this is the first Past entry.
func (kb *KnowledgeBase) LastPastRole() (Role, bool) {
	for _, r := range kb.Roles {
		if r.IsPast() {
			return r, true
		}
	}
	return Role{}, false
}

// AchievementsTagged returns achievements carrying any of tags. With no
// tags every achievement is returned.
func (kb *KnowledgeBase) AchievementsTagged(tags ...string) []Achievement {
	if len(tags) == 0 {
		return kb.Achievements
	}
	var out []Achievement
	for _, a := range kb.Achievements {
		for _, t := range tags {
			if a.HasTag(t) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// Tags lists the distinct achievement tags in lower case, in first-seen order.
func (kb *KnowledgeBase) Tags() []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range kb.Achievements {
		for _, t := range a.Tags {
			t = strings.ToLower(t)
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	return out
}

// JSON renders the whole profile for inclusion in a prompt.
func (kb *KnowledgeBase) JSON() string {
	data, err := json.MarshalIndent(kb, "", "  ")
	if err != nil {
		// Every field is a string, slice or ordered map of strings.
		panic(fmt.Sprintf("knowledge: marshalling profile: %v", err))
	}
	return string(data)
}

// Flatten renders the profile as plain prose, the context handed to an
// extractive QA model.
func (kb *KnowledgeBase) Flatten() string {
	var parts []string
	for _, p := range kb.Passages() {
		parts = append(parts, p.Text)
	}
	return strings.Join(parts, "\n")
}

// Passage is a self-contained chunk of the profile used for semantic search.
type Passage struct {
	ID      string
	Section string
	Text    string
}

// Passages splits the profile into sentence-sized chunks, one per fact group.
func (kb *KnowledgeBase) Passages() []Passage {
	var out []Passage
	add := func(section string, idx int, format string, args ...any) {
		out = append(out, Passage{
			ID:      fmt.Sprintf("%s-%d", section, idx),
			Section: section,
			Text:    fmt.Sprintf(format, args...),
		})
	}

	c := kb.Contact
	add("contact", 0, "%s is based in %s and can be reached at %s. LinkedIn: %s.", c.Name, c.Location, c.Email, c.LinkedIn)

	for i, s := range kb.Summary {
		add("summary", i, "%s", s)
	}

	for i, r := range kb.Roles {
		verb := "worked"
		if r.IsCurrent() {
			verb = "works"
		}
		text := fmt.Sprintf("%s %s as %s at %s (%s).", kb.Subject, verb, r.Title, r.Company, r.Dates)
		if len(r.Responsibilities) > 0 {
			text += " Responsibilities: " + strings.Join(r.Responsibilities, "; ") + "."
		}
		if len(r.Achievements) > 0 {
			text += " Achievements: " + strings.Join(r.Achievements, "; ") + "."
		}
		add("role", i, "%s", text)
	}

	for i, cat := range kb.Skills {
		add("skills", i, "%s skills: %s.", humanize(cat.Name), strings.Join(cat.Skills, ", "))
	}

	for i, cert := range kb.Certifications {
		add("certification", i, "%s holds the %s certification from %s (%s).", kb.Subject, cert.Name, cert.Issuer, cert.Year)
	}

	if e := kb.Education; e.University != "" {
		text := fmt.Sprintf("%s studied at %s: %s.", kb.Subject, e.University, strings.Join(e.Degrees, ", "))
		if e.Honors != "" {
			text += " Honors: " + e.Honors + "."
		}
		if e.GraduationYear != "" {
			text += " Graduated " + e.GraduationYear + "."
		}
		add("education", 0, "%s", text)
	}

	for i, a := range kb.Achievements {
		add("achievement", i, "%s", a.Text)
	}

	for i, p := range kb.Projects {
		text := fmt.Sprintf("Project %s (%s): %s.", p.Name, p.Status, strings.TrimSuffix(p.Description, "."))
		if len(p.Technologies) > 0 {
			text += " Technologies: " + strings.Join(p.Technologies, ", ") + "."
		}
		if len(p.Achievements) > 0 {
			text += " Results: " + strings.Join(p.Achievements, "; ") + "."
		}
		add("project", i, "%s", text)
	}

	for i, h := range kb.ExperienceHighlights {
		add("experience", i, "%s has %s of %s experience.", kb.Subject, h.Duration, humanize(h.Topic))
	}

	if len(kb.Languages) > 0 {
		add("languages", 0, "%s speaks %s.", kb.Subject, strings.Join(kb.Languages, ", "))
	}
	return out
}

// humanize turns a key such as "cloud_and_net" into "Cloud and net".
func humanize(key string) string {
	key = strings.ReplaceAll(key, "_", " ")
	if key == "" {
		return key
	}
	return strings.ToUpper(key[:1]) + key[1:]
}
