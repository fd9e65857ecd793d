package resolver

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/candidate-concierge/concierge/internal/extractive"
	"github.com/candidate-concierge/concierge/internal/knowledge"
	"github.com/candidate-concierge/concierge/internal/llm"
	"github.com/candidate-concierge/concierge/internal/logger"
)

const systemPrompt = `You are a professional assistant answering questions about %s on their behalf.
Answer only from the résumé data provided. Keep answers short and factual, written in the third person.
If the question is unrelated to %s's professional background, politely decline and suggest asking about experience, skills or certifications.
Do not mention that you were given résumé data.`

// Options configures the optional strategies of a Resolver. A nil strategy
// is skipped.
type Options struct {
	Extractive        extractive.Provider
	Threshold         float64
	ExtractiveTimeout time.Duration

	Generative           llm.Provider
	GenerativeConfidence float64
	Model                string
	MaxTokens            int
	Temperature          float64
	GenerativeTimeout    time.Duration

	Logger *zap.Logger
}

// Resolver answers questions about one profile. It is safe for concurrent
// use; the profile is never modified.
type Resolver struct {
	kb         *knowledge.KnowledgeBase
	normalizer *Normalizer
	opts       Options
	log        *zap.Logger
	flat       string
	profile    string
}

// UnavailableError reports a strategy that could not produce an answer.
// The chain treats it as a miss and moves on.
type UnavailableError struct {
	Source Source
	Err    error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Source, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

var errEmptyAnswer = errors.New("empty answer")

// maxExtractiveConfidence keeps extractive answers below structured ones.
var maxExtractiveConfidence = math.Nextafter(StructuredConfidence, 0)

// New builds a Resolver. Zero thresholds and timeouts take their defaults.
func New(kb *knowledge.KnowledgeBase, opts Options) *Resolver {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultExtractiveThreshold
	}
	if opts.GenerativeConfidence <= 0 {
		opts.GenerativeConfidence = DefaultGenerativeConfidence
	}
	if opts.ExtractiveTimeout <= 0 {
		opts.ExtractiveTimeout = 20 * time.Second
	}
	if opts.GenerativeTimeout <= 0 {
		opts.GenerativeTimeout = 30 * time.Second
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 256
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		kb:         kb,
		normalizer: NewNormalizer(kb.Subject),
		opts:       opts,
		log:        log.Named("resolver"),
		flat:       kb.Flatten(),
		profile:    kb.JSON(),
	}
}

// Knowledge returns the profile the resolver answers from.
func (r *Resolver) Knowledge() *knowledge.KnowledgeBase { return r.kb }

// Normalize exposes the question normalizer.
func (r *Resolver) Normalize(q string) string { return r.normalizer.Normalize(q) }

// Resolve runs the chain: structured rules, extractive model, generative
// model, terminal reply. The first strategy that yields an answer wins.
// Rules and the extractive model see the normalized question; the
// generative model gets the visitor's own words.
func (r *Resolver) Resolve(ctx context.Context, question string) Result {
	q := r.normalizer.Normalize(question)

	if m := MatchRules(r.kb, q); m.Confidence > 0 {
		r.log.Debug("structured match", zap.String("rule", m.Rule), logger.Question(q))
		return Result{Text: m.Text, Confidence: m.Confidence, Source: SourceStructured, Rule: m.Rule}
	}

	if r.opts.Extractive != nil {
		res, err := r.extract(ctx, q)
		switch {
		case err != nil:
			r.log.Warn("extractive strategy failed", zap.Error(err))
		case res != nil:
			return *res
		}
	}

	if r.opts.Generative != nil {
		res, err := r.generate(ctx, strings.TrimSpace(question))
		if err == nil {
			return *res
		}
		r.log.Warn("generative strategy failed", zap.Error(err))
	}

	return r.terminal()
}

// extract returns nil without error when the model answered below threshold.
func (r *Resolver) extract(ctx context.Context, q string) (res *Result, err error) {
	defer recoverUnavailable(SourceExtractive, &err)

	ctx, cancel := context.WithTimeout(ctx, r.opts.ExtractiveTimeout)
	defer cancel()

	ans, err := r.opts.Extractive.Answer(ctx, q, r.flat)
	if err != nil {
		return nil, &UnavailableError{Source: SourceExtractive, Err: err}
	}
	if ans == nil || strings.TrimSpace(ans.Text) == "" {
		return nil, nil
	}
	if math.IsNaN(ans.Score) || ans.Score < 0 || ans.Score > 1 {
		return nil, &UnavailableError{Source: SourceExtractive, Err: fmt.Errorf("score %v outside [0, 1]", ans.Score)}
	}
	if ans.Score <= r.opts.Threshold {
		r.log.Debug("extractive answer below threshold",
			zap.Float64("score", ans.Score), zap.Float64("threshold", r.opts.Threshold))
		return nil, nil
	}
	return &Result{
		Text:       strings.TrimSpace(ans.Text),
		Confidence: min(ans.Score, maxExtractiveConfidence),
		Source:     SourceExtractive,
	}, nil
}

// generate asks the model with the question exactly as it was asked.
func (r *Resolver) generate(ctx context.Context, question string) (res *Result, err error) {
	defer recoverUnavailable(SourceGenerative, &err)

	ctx, cancel := context.WithTimeout(ctx, r.opts.GenerativeTimeout)
	defer cancel()

	req := llm.CompletionRequest{
		Model: r.opts.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: fmt.Sprintf(systemPrompt, r.kb.Subject, r.kb.Subject)},
			{Role: llm.RoleUser, Content: fmt.Sprintf("Résumé data:\n%s\n\nQuestion: %s", r.profile, question)},
		},
		MaxTokens:   r.opts.MaxTokens,
		Temperature: r.opts.Temperature,
	}

	start := time.Now()
	resp, err := r.opts.Generative.Complete(ctx, req)
	if err != nil {
		return nil, &UnavailableError{Source: SourceGenerative, Err: err}
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return nil, &UnavailableError{Source: SourceGenerative, Err: errEmptyAnswer}
	}

	resp.FillUsage(req)
	usage := &Usage{
		Provider:     r.opts.Generative.Name(),
		Model:        resp.Model,
		InputTokens:  resp.InputTokens,
		OutputTokens: resp.OutputTokens,
		CostUSD:      resp.Cost(),
	}

	r.log.Info("generated answer",
		zap.String("provider", usage.Provider),
		zap.String("model", usage.Model),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		Text:       strings.TrimSpace(resp.Content),
		Confidence: r.opts.GenerativeConfidence,
		Source:     SourceGenerative,
		Usage:      usage,
	}, nil
}

func (r *Resolver) terminal() Result {
	return Result{
		Text: fmt.Sprintf("I don't have that information, but I can answer questions about %s's "+
			"certifications, skills, experience, current role, location or contact details.", r.kb.Subject),
		Confidence: TerminalConfidence,
		Source:     SourceNone,
	}
}

func recoverUnavailable(src Source, err *error) {
	if p := recover(); p != nil {
		*err = &UnavailableError{Source: src, Err: fmt.Errorf("panic: %v", p)}
	}
}
