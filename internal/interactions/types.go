// Package interactions is the append-only log of questions, answers and
// the feedback users leave on them. Nothing here is read while answering.
package interactions

import (
	"errors"
	"time"
)

// ErrAnswerNotFound is returned when feedback targets an unknown answer id.
var ErrAnswerNotFound = errors.New("answer not found")

// Interaction is one resolved question as it is written to the log.
type Interaction struct {
	Question   string
	SessionID  string
	Answer     string
	Confidence float64
	Source     string

	// Set for generated answers only.
	Model        string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
}

// FeedbackInput is a rating submitted for an answer.
type FeedbackInput struct {
	Score      int
	WasHelpful bool
	Comment    string
}

// Feedback is a stored rating.
type Feedback struct {
	ID         int64     `json:"id"`
	AnswerID   int64     `json:"answer_id"`
	Score      int       `json:"score"`
	WasHelpful bool      `json:"was_helpful"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Exchange is a logged question joined with its answer.
type Exchange struct {
	QuestionID int64     `json:"question_id"`
	AnswerID   int64     `json:"answer_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	Confidence float64   `json:"confidence"`
	Source     string    `json:"source"`
	Model      string    `json:"model,omitempty"`
	CostUSD    float64   `json:"cost_usd,omitempty"`
	AskedAt    time.Time `json:"asked_at"`
}

// RatedExchange is an exchange together with one piece of feedback on it.
type RatedExchange struct {
	Exchange
	Feedback Feedback `json:"feedback"`
}

// Stats summarises the whole log.
type Stats struct {
	Questions    int            `json:"total_questions"`
	Answers      int            `json:"total_answers"`
	Feedback     int            `json:"total_feedback"`
	AverageScore float64        `json:"average_feedback_score"`
	BySource     map[string]int `json:"answers_by_source"`
	TotalCostUSD float64        `json:"total_cost_usd"`
}
