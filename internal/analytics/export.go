package analytics

import (
	"context"
	"fmt"
	"time"
)

// DefaultMinScore is the lowest rating exported as a good example.
const DefaultMinScore = 4

// Pair is an exported question and answer with its rating.
type Pair struct {
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	Confidence    float64   `json:"confidence"`
	Source        string    `json:"source"`
	FeedbackScore int       `json:"feedback_score"`
	Timestamp     time.Time `json:"timestamp"`
}

// Export returns every exchange rated at least minScore.
func (a *Analyzer) Export(ctx context.Context, minScore int) ([]Pair, error) {
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	rated, err := a.src.HighQualityPairs(ctx, minScore)
	if err != nil {
		return nil, fmt.Errorf("loading rated pairs: %w", err)
	}

	pairs := make([]Pair, 0, len(rated))
	for _, r := range rated {
		pairs = append(pairs, Pair{
			Question:      r.Question,
			Answer:        r.Answer,
			Confidence:    r.Confidence,
			Source:        r.Source,
			FeedbackScore: r.Feedback.Score,
			Timestamp:     r.AskedAt,
		})
	}
	return pairs, nil
}
