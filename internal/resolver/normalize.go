package resolver

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// pronounTable rewrites first and second person (and third person
// pronouns) into the subject's name so rule triggers only need one form.
// Contractions come before the bare pronouns they start with.
var pronounTable = []struct {
	pattern     string
	possessive  bool
	replacement string
}{
	{pattern: `you're`, replacement: "%s is"},
	{pattern: `you are`, replacement: "%s is"},
	{pattern: `yourself`, replacement: "%s"},
	{pattern: `yours`, possessive: true},
	{pattern: `your`, possessive: true},
	{pattern: `you`, replacement: "%s"},
	{pattern: `i'm`, replacement: "%s is"},
	{pattern: `i am`, replacement: "%s is"},
	{pattern: `myself`, replacement: "%s"},
	{pattern: `mine`, possessive: true},
	{pattern: `my`, possessive: true},
	{pattern: `me`, replacement: "%s"},
	{pattern: `i`, replacement: "%s"},
	{pattern: `he's`, replacement: "%s is"},
	{pattern: `she's`, replacement: "%s is"},
	{pattern: `his`, possessive: true},
	{pattern: `her`, possessive: true},
	{pattern: `him`, replacement: "%s"},
	{pattern: `he`, replacement: "%s"},
	{pattern: `she`, replacement: "%s"},
}

type replacement struct {
	re   *regexp.Regexp
	with string
}

// Normalizer lowercases questions and replaces pronouns with the subject.
// Replacement only touches whole words, so "this" and "kind" survive intact.
type Normalizer struct {
	lower        cases.Caser
	replacements []replacement
}

// NewNormalizer builds a normalizer for the named subject.
func NewNormalizer(subject string) *Normalizer {
	lower := cases.Lower(language.Und)
	name := lower.String(subject)

	reps := make([]replacement, 0, len(pronounTable))
	for _, p := range pronounTable {
		with := name + "'s"
		if !p.possessive {
			with = strings.ReplaceAll(p.replacement, "%s", name)
		}
		reps = append(reps, replacement{
			// Word boundaries, with an apostrophe allowed inside the match.
			re:   regexp.MustCompile(`(^|[^\p{L}\p{N}'])` + regexp.QuoteMeta(p.pattern) + `($|[^\p{L}\p{N}'])`),
			with: with,
		})
	}
	return &Normalizer{lower: lower, replacements: reps}
}

// Normalize returns the canonical form of q. It always succeeds.
func (n *Normalizer) Normalize(q string) string {
	q = norm.NFKC.String(q)
	q = strings.NewReplacer("’", "'", "‘", "'").Replace(q)
	q = n.lower.String(strings.TrimSpace(q))
	for _, r := range n.replacements {
		q = replaceWord(r.re, q, r.with)
	}
	return q
}

// replaceWord substitutes every match of re, keeping the surrounding
// delimiters captured in groups 1 and 2. Matches are applied until none
// remain because adjacent occurrences share a delimiter.
func replaceWord(re *regexp.Regexp, s, with string) string {
	for i := 0; i < 8 && re.MatchString(s); i++ {
		s = re.ReplaceAllString(s, "${1}"+strings.ReplaceAll(with, "$", "$$")+"${2}")
	}
	return s
}
