package interactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/candidate-concierge/concierge/internal/db"
)

// Store persists interactions and feedback.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: func() time.Time { return time.Now().UTC() }}
}

// Record appends a question and its answer and returns the answer id.
func (s *Store) Record(ctx context.Context, in Interaction) (int64, error) {
	now := s.now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var questionID int64
	err = tx.QueryRowContext(ctx, s.db.Rebind(
		`INSERT INTO questions (text, session_id, created_at) VALUES (?, ?, ?) RETURNING id`),
		in.Question, in.SessionID, now,
	).Scan(&questionID)
	if err != nil {
		return 0, fmt.Errorf("inserting question: %w", err)
	}

	var answerID int64
	err = tx.QueryRowContext(ctx, s.db.Rebind(
		`INSERT INTO answers (question_id, text, confidence, source, model, input_tokens, output_tokens, cost_usd, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		questionID, in.Answer, in.Confidence, in.Source, in.Model, in.InputTokens, in.OutputTokens, in.CostUSD, now,
	).Scan(&answerID)
	if err != nil {
		return 0, fmt.Errorf("inserting answer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing interaction: %w", err)
	}
	return answerID, nil
}

// AttachFeedback stores a rating for an answer and returns the feedback id.
// It returns ErrAnswerNotFound, and writes nothing, when the answer does
// not exist.
func (s *Store) AttachFeedback(ctx context.Context, answerID int64, in FeedbackInput) (int64, error) {
	if in.Score < 1 || in.Score > 5 {
		return 0, fmt.Errorf("score %d out of range 1-5", in.Score)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx, s.db.Rebind(`SELECT 1 FROM answers WHERE id = ?`), answerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrAnswerNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("looking up answer: %w", err)
	}

	var comment sql.NullString
	if in.Comment != "" {
		comment = sql.NullString{String: in.Comment, Valid: true}
	}

	var id int64
	err = tx.QueryRowContext(ctx, s.db.Rebind(
		`INSERT INTO feedback (answer_id, score, was_helpful, comment, created_at) VALUES (?, ?, ?, ?, ?) RETURNING id`),
		answerID, in.Score, in.WasHelpful, comment, s.now(),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting feedback: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing feedback: %w", err)
	}
	return id, nil
}

// FeedbackFor returns every rating left on an answer, oldest first.
func (s *Store) FeedbackFor(ctx context.Context, answerID int64) ([]Feedback, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(
		`SELECT id, answer_id, score, was_helpful, comment, created_at
		 FROM feedback WHERE answer_id = ? ORDER BY id`), answerID)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var out []Feedback
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

const exchangeColumns = `q.id, a.id, q.text, a.text, a.confidence, a.source, a.model, a.cost_usd, q.created_at`

// History returns the most recent exchanges, newest first.
func (s *Store) History(ctx context.Context, limit int) ([]Exchange, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(
		`SELECT `+exchangeColumns+`
		 FROM answers a JOIN questions q ON q.id = a.question_id
		 ORDER BY a.id DESC LIMIT ?`), clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		e, err := scanExchange(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const ratedQuery = `SELECT ` + exchangeColumns + `, f.id, f.answer_id, f.score, f.was_helpful, f.comment, f.created_at
	FROM feedback f
	JOIN answers a ON a.id = f.answer_id
	JOIN questions q ON q.id = a.question_id`

// FeedbackHistory returns the most recent feedback with the rated exchange.
func (s *Store) FeedbackHistory(ctx context.Context, limit int) ([]RatedExchange, error) {
	return s.queryRated(ctx, ratedQuery+` ORDER BY f.id DESC LIMIT ?`, clampLimit(limit))
}

// FeedbackSince returns feedback on questions asked at or after since.
func (s *Store) FeedbackSince(ctx context.Context, since time.Time) ([]RatedExchange, error) {
	return s.queryRated(ctx, ratedQuery+` WHERE q.created_at >= ? ORDER BY f.id`, since.UTC())
}

// HighQualityPairs returns exchanges rated at least minScore.
func (s *Store) HighQualityPairs(ctx context.Context, minScore int) ([]RatedExchange, error) {
	return s.queryRated(ctx, ratedQuery+` WHERE f.score >= ? ORDER BY f.id`, minScore)
}

// Stats counts rows and aggregates scores and cost.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{BySource: map[string]int{}}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&st.Questions); err != nil {
		return nil, fmt.Errorf("counting questions: %w", err)
	}

	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), AVG(score) FROM feedback`).Scan(&st.Feedback, &avg)
	if err != nil {
		return nil, fmt.Errorf("aggregating feedback: %w", err)
	}
	st.AverageScore = avg.Float64

	rows, err := s.db.QueryContext(ctx,
		`SELECT source, COUNT(*), COALESCE(SUM(cost_usd), 0) FROM answers GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("aggregating answers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			source string
			n      int
			cost   float64
		)
		if err := rows.Scan(&source, &n, &cost); err != nil {
			return nil, fmt.Errorf("scanning answer stats: %w", err)
		}
		st.BySource[source] = n
		st.Answers += n
		st.TotalCostUSD += cost
	}
	return st, rows.Err()
}

func (s *Store) queryRated(ctx context.Context, query string, args ...any) ([]RatedExchange, error) {
	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying feedback: %w", err)
	}
	defer rows.Close()

	var out []RatedExchange
	for rows.Next() {
		var (
			r       RatedExchange
			asked   db.Timestamp
			rated   db.Timestamp
			comment sql.NullString
		)
		err := rows.Scan(
			&r.QuestionID, &r.AnswerID, &r.Question, &r.Answer, &r.Confidence, &r.Source, &r.Model, &r.CostUSD, &asked,
			&r.Feedback.ID, &r.Feedback.AnswerID, &r.Feedback.Score, &r.Feedback.WasHelpful, &comment, &rated,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning rated exchange: %w", err)
		}
		r.AskedAt = asked.Time
		r.Feedback.Comment = comment.String
		r.Feedback.CreatedAt = rated.Time
		out = append(out, r)
	}
	return out, rows.Err()
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFeedback(sc scanner) (Feedback, error) {
	var (
		f       Feedback
		comment sql.NullString
		created db.Timestamp
	)
	if err := sc.Scan(&f.ID, &f.AnswerID, &f.Score, &f.WasHelpful, &comment, &created); err != nil {
		return Feedback{}, fmt.Errorf("scanning feedback: %w", err)
	}
	f.Comment = comment.String
	f.CreatedAt = created.Time
	return f, nil
}

func scanExchange(sc scanner) (Exchange, error) {
	var (
		e     Exchange
		asked db.Timestamp
	)
	err := sc.Scan(&e.QuestionID, &e.AnswerID, &e.Question, &e.Answer, &e.Confidence, &e.Source, &e.Model, &e.CostUSD, &asked)
	if err != nil {
		return Exchange{}, fmt.Errorf("scanning exchange: %w", err)
	}
	e.AskedAt = asked.Time
	return e, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 50
	case limit > 500:
		return 500
	default:
		return limit
	}
}
