// Package concierge ties question resolution to the interaction log and
// exposes both over HTTP.
package concierge

import (
	"context"

	"go.uber.org/zap"

	"github.com/candidate-concierge/concierge/internal/interactions"
	"github.com/candidate-concierge/concierge/internal/logger"
	"github.com/candidate-concierge/concierge/internal/resolver"
)

// Recorder is the write side of the interaction log.
type Recorder interface {
	Record(ctx context.Context, in interactions.Interaction) (int64, error)
	AttachFeedback(ctx context.Context, answerID int64, in interactions.FeedbackInput) (int64, error)
}

// Answer is a resolved question plus the id feedback should reference.
// AnswerID is nil when the interaction could not be logged.
type Answer struct {
	resolver.Result
	AnswerID *int64 `json:"answer_id,omitempty"`
}

// Service answers questions and records them.
type Service struct {
	resolver *resolver.Resolver
	recorder Recorder
	log      *zap.Logger
}

// New creates a Service. recorder may be nil, in which case nothing is logged
// and feedback is rejected.
func New(r *resolver.Resolver, recorder Recorder, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{resolver: r, recorder: recorder, log: log}
}

// Resolver returns the underlying resolver.
func (s *Service) Resolver() *resolver.Resolver { return s.resolver }

// Ask resolves a question and logs the exchange. Logging failures are
// reported but never fail the call.
func (s *Service) Ask(ctx context.Context, question, sessionID string) Answer {
	res := s.resolver.Resolve(ctx, question)
	ans := Answer{Result: res}

	s.log.Info("answered question",
		logger.Question(question),
		zap.String("source", string(res.Source)),
		zap.Float64("confidence", res.Confidence),
	)

	if s.recorder == nil {
		return ans
	}

	in := interactions.Interaction{
		Question:   question,
		SessionID:  sessionID,
		Answer:     res.Text,
		Confidence: res.Confidence,
		Source:     string(res.Source),
	}
	if u := res.Usage; u != nil {
		in.Model = u.Model
		in.InputTokens = u.InputTokens
		in.OutputTokens = u.OutputTokens
		in.CostUSD = u.CostUSD
	}

	// The answer is already computed; a cancelled request should still be logged.
	id, err := s.recorder.Record(context.WithoutCancel(ctx), in)
	if err != nil {
		s.log.Warn("failed to record interaction", zap.Error(err))
		return ans
	}
	ans.AnswerID = &id
	return ans
}

// Feedback attaches a rating to a previously returned answer.
func (s *Service) Feedback(ctx context.Context, answerID int64, in interactions.FeedbackInput) (int64, error) {
	if s.recorder == nil {
		return 0, ErrLoggingDisabled
	}
	id, err := s.recorder.AttachFeedback(ctx, answerID, in)
	if err != nil {
		return 0, err
	}
	s.log.Info("feedback recorded",
		zap.Int64("answer_id", answerID),
		zap.Int("score", in.Score),
		zap.Bool("was_helpful", in.WasHelpful),
	)
	return id, nil
}
