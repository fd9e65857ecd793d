package concierge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/candidate-concierge/concierge/internal/db"
	"github.com/candidate-concierge/concierge/internal/interactions"
	"github.com/candidate-concierge/concierge/internal/knowledge"
	"github.com/candidate-concierge/concierge/internal/resolver"
)

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, interactions.Interaction) (int64, error) {
	return 0, errors.New("disk full")
}

func (failingRecorder) AttachFeedback(context.Context, int64, interactions.FeedbackInput) (int64, error) {
	return 0, errors.New("disk full")
}

func newTestService(t *testing.T) (*Service, *interactions.Store) {
	t.Helper()
	database, err := db.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	kb, err := knowledge.Default(zap.NewNop())
	require.NoError(t, err)

	store := interactions.NewStore(database)
	return New(resolver.New(kb, resolver.Options{}), store, zap.NewNop()), store
}

func newRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	RegisterRoutes(r, svc)
	return r
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestAskRecordsInteraction(t *testing.T) {
	svc, store := newTestService(t)

	ans := svc.Ask(context.Background(), "What certifications do you have?", "s1")
	assert.Equal(t, resolver.SourceStructured, ans.Source)
	assert.Equal(t, 1.0, ans.Confidence)
	require.NotNil(t, ans.AnswerID)

	history, err := store.History(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, *ans.AnswerID, history[0].AnswerID)
	assert.Equal(t, "What certifications do you have?", history[0].Question)
	assert.Equal(t, "structured", history[0].Source)
}

func TestAskSurvivesRecorderFailure(t *testing.T) {
	kb, err := knowledge.Default(zap.NewNop())
	require.NoError(t, err)
	core, logs := observer.New(zap.WarnLevel)
	svc := New(resolver.New(kb, resolver.Options{}), failingRecorder{}, zap.New(core))

	ans := svc.Ask(context.Background(), "Where are you based?", "")
	assert.Contains(t, ans.Text, "Toronto")
	assert.Nil(t, ans.AnswerID)
	assert.Equal(t, 1, logs.FilterMessage("failed to record interaction").Len())
}

func TestAskWithoutRecorder(t *testing.T) {
	kb, err := knowledge.Default(zap.NewNop())
	require.NoError(t, err)
	svc := New(resolver.New(kb, resolver.Options{}), nil, nil)

	ans := svc.Ask(context.Background(), "Tell me a joke", "")
	assert.Equal(t, resolver.SourceNone, ans.Source)
	assert.Nil(t, ans.AnswerID)

	_, err = svc.Feedback(context.Background(), 1, interactions.FeedbackInput{Score: 3})
	assert.ErrorIs(t, err, ErrLoggingDisabled)
}

func TestAskRoute(t *testing.T) {
	svc, _ := newTestService(t)
	h := newRouter(svc)

	w := post(t, h, "/ask", `{"text":"What certifications do you have?"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Answer     string  `json:"answer"`
		Confidence float64 `json:"confidence"`
		Source     string  `json:"source"`
		AnswerID   int64   `json:"answer_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body.Answer, "Certified Scrum Master")
	assert.Equal(t, 1.0, body.Confidence)
	assert.Equal(t, "structured", body.Source)
	assert.Positive(t, body.AnswerID)
}

func TestAskRouteRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	h := newRouter(svc)

	assert.Equal(t, http.StatusBadRequest, post(t, h, "/ask", `{not json`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, post(t, h, "/ask", `{"text":"   "}`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, post(t, h, "/ask", `{}`).Code)
}

func TestFeedbackRoute(t *testing.T) {
	svc, store := newTestService(t)
	h := newRouter(svc)

	ans := svc.Ask(context.Background(), "What is your current role?", "")
	require.NotNil(t, ans.AnswerID)

	body := `{"answer_id":` + jsonInt(*ans.AnswerID) + `,"score":5,"was_helpful":true,"comment":"spot on"}`
	w := post(t, h, "/feedback", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp FeedbackResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Positive(t, resp.FeedbackID)

	fb, err := store.FeedbackFor(context.Background(), *ans.AnswerID)
	require.NoError(t, err)
	require.Len(t, fb, 1)
	assert.Equal(t, 5, fb[0].Score)
	assert.True(t, fb[0].WasHelpful)
	assert.Equal(t, "spot on", fb[0].Comment)
}

func TestFeedbackRouteUnknownAnswer(t *testing.T) {
	svc, store := newTestService(t)
	h := newRouter(svc)

	w := post(t, h, "/feedback", `{"answer_id":4242,"score":3,"was_helpful":false}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	stats, err := store.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Feedback)
}

func TestFeedbackRouteValidation(t *testing.T) {
	svc, _ := newTestService(t)
	h := newRouter(svc)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"malformed", `{"answer_id":`, http.StatusBadRequest},
		{"wrong type", `{"answer_id":"one","score":3,"was_helpful":true}`, http.StatusBadRequest},
		{"score too high", `{"answer_id":1,"score":6,"was_helpful":true}`, http.StatusUnprocessableEntity},
		{"score missing", `{"answer_id":1,"was_helpful":true}`, http.StatusUnprocessableEntity},
		{"helpful missing", `{"answer_id":1,"score":3}`, http.StatusUnprocessableEntity},
		{"answer id zero", `{"answer_id":0,"score":3,"was_helpful":true}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, post(t, h, "/feedback", tt.body).Code)
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(interactions.ErrAnswerNotFound))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(ErrLoggingDisabled))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func jsonInt(n int64) string {
	b, _ := json.Marshal(n)
	return string(b)
}
