// Package analytics summarises the interaction log offline: feedback
// patterns, recurring question themes and exportable high-rated pairs.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/candidate-concierge/concierge/internal/interactions"
)

const (
	lowScore     = 2
	highScore    = 4
	maxThemes    = 5
	maxFAQThemes = 10
)

// Source is the read side of the interaction log.
type Source interface {
	FeedbackSince(ctx context.Context, since time.Time) ([]interactions.RatedExchange, error)
	History(ctx context.Context, limit int) ([]interactions.Exchange, error)
	HighQualityPairs(ctx context.Context, minScore int) ([]interactions.RatedExchange, error)
	Stats(ctx context.Context) (*interactions.Stats, error)
}

// FeedbackAnalysis describes how answers were rated over a window.
type FeedbackAnalysis struct {
	TotalFeedback   int      `json:"total_feedback"`
	LowRatedCount   int      `json:"low_rated_count"`
	HighRatedCount  int      `json:"high_rated_count"`
	AverageScore    float64  `json:"average_score"`
	LowRatedThemes  []string `json:"common_low_rated_themes"`
	HighRatedThemes []string `json:"common_high_rated_themes"`
	Recommendations []string `json:"recommendations"`
}

// Theme groups questions that share a leading keyword.
type Theme struct {
	Theme           string `json:"theme"`
	Count           int    `json:"count"`
	ExampleQuestion string `json:"example_question"`
	LatestQuestion  string `json:"latest_question"`
}

// Report is the full analytics document.
type Report struct {
	WindowDays      int                 `json:"window_days"`
	Feedback        FeedbackAnalysis    `json:"feedback_analysis"`
	FrequentlyAsked []Theme             `json:"frequently_asked"`
	Totals          *interactions.Stats `json:"totals"`
	GeneratedAt     time.Time           `json:"generated_at"`
}

// Analyzer builds reports from the interaction log.
type Analyzer struct {
	src Source
	now func() time.Time
}

// New creates an Analyzer.
func New(src Source) *Analyzer {
	return &Analyzer{src: src, now: time.Now}
}

// Report analyses feedback on questions asked in the last days days.
func (a *Analyzer) Report(ctx context.Context, days int) (*Report, error) {
	if days <= 0 {
		days = 30
	}
	now := a.now().UTC()

	rated, err := a.src.FeedbackSince(ctx, now.AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("loading feedback: %w", err)
	}
	history, err := a.src.History(ctx, 500)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	totals, err := a.src.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading stats: %w", err)
	}

	return &Report{
		WindowDays:      days,
		Feedback:        AnalyzeFeedback(rated),
		FrequentlyAsked: FrequentThemes(history, maxFAQThemes),
		Totals:          totals,
		GeneratedAt:     now,
	}, nil
}

// AnalyzeFeedback splits ratings into low (<= 2) and high (>= 4) and
// extracts the words that recur in each group's questions.
func AnalyzeFeedback(rated []interactions.RatedExchange) FeedbackAnalysis {
	fa := FeedbackAnalysis{
		LowRatedThemes:  []string{},
		HighRatedThemes: []string{},
		Recommendations: []string{},
	}
	if len(rated) == 0 {
		return fa
	}

	var low, high []string
	total := 0
	for _, r := range rated {
		total += r.Feedback.Score
		q := strings.ToLower(r.Question)
		switch {
		case r.Feedback.Score <= lowScore:
			low = append(low, q)
		case r.Feedback.Score >= highScore:
			high = append(high, q)
		}
	}

	fa.TotalFeedback = len(rated)
	fa.LowRatedCount = len(low)
	fa.HighRatedCount = len(high)
	fa.AverageScore = float64(total) / float64(len(rated))
	fa.LowRatedThemes = recurringWords(low, maxThemes)
	fa.HighRatedThemes = recurringWords(high, maxThemes)
	fa.Recommendations = recommend(low, len(high))
	return fa
}

// recurringWords returns up to n words longer than three characters that
// appear more than once, most frequent first.
func recurringWords(questions []string, n int) []string {
	counts := map[string]int{}
	var order []string
	for _, q := range questions {
		for _, w := range keywords(q) {
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}
	sort.SliceStable(order, func(i, j int) bool { return counts[order[i]] > counts[order[j]] })

	out := []string{}
	for _, w := range order {
		if len(out) == n || counts[w] < 2 {
			break
		}
		out = append(out, w)
	}
	return out
}

func recommend(low []string, highCount int) []string {
	out := []string{}
	if float64(len(low)) > float64(highCount)*0.3 {
		out = append(out, "Refine the generative prompt to be more specific about the candidate's experience")
	}
	checks := []struct{ word, advice string }{
		{"salary", "Add salary expectation details to the profile"},
		{"experience", "Enhance experience descriptions with more specific details"},
		{"skill", "Expand the skills section with proficiency levels"},
	}
	for _, c := range checks {
		for _, q := range low {
			if strings.Contains(q, c.word) {
				out = append(out, c.advice)
				break
			}
		}
	}
	return out
}

// FrequentThemes groups questions by their first keyword. history is
// expected newest first.
func FrequentThemes(history []interactions.Exchange, limit int) []Theme {
	byTheme := map[string]*Theme{}
	var order []string
	for i := len(history) - 1; i >= 0; i-- {
		e := history[i]
		words := keywords(strings.ToLower(e.Question))
		if len(words) == 0 {
			continue
		}
		key := words[0]
		t, ok := byTheme[key]
		if !ok {
			t = &Theme{Theme: key, ExampleQuestion: e.Question}
			byTheme[key] = t
			order = append(order, key)
		}
		t.Count++
		t.LatestQuestion = e.Question
	}

	sort.SliceStable(order, func(i, j int) bool { return byTheme[order[i]].Count > byTheme[order[j]].Count })
	if len(order) > limit {
		order = order[:limit]
	}
	out := make([]Theme, 0, len(order))
	for _, k := range order {
		out = append(out, *byTheme[k])
	}
	return out
}

func keywords(q string) []string {
	var out []string
	for _, w := range strings.Fields(q) {
		w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsNumber(r) })
		if len([]rune(w)) > 3 {
			out = append(out, w)
		}
	}
	return out
}
