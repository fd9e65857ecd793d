package concierge

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/candidate-concierge/concierge/internal/interactions"
)

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Text      string `json:"text" validate:"required,max=2000"`
	SessionID string `json:"session_id,omitempty" validate:"omitempty,max=64"`
}

// FeedbackRequest is the body of POST /feedback.
type FeedbackRequest struct {
	AnswerID   int64  `json:"answer_id" validate:"required,gt=0"`
	Score      int    `json:"score" validate:"required,min=1,max=5"`
	WasHelpful *bool  `json:"was_helpful" validate:"required"`
	Comment    string `json:"comment,omitempty" validate:"max=2000"`
}

// FeedbackResponse is returned after feedback is stored.
type FeedbackResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	FeedbackID int64  `json:"feedback_id"`
}

type handler struct {
	svc      *Service
	validate *validator.Validate
}

// RegisterRoutes mounts POST /ask and POST /feedback.
func RegisterRoutes(r chi.Router, svc *Service) {
	h := &handler{svc: svc, validate: validator.New()}
	r.Post("/ask", h.ask)
	r.Post("/feedback", h.feedback)
}

func (h *handler) ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, h.svc.Ask(r.Context(), req.Text, req.SessionID))
}

func (h *handler) feedback(w http.ResponseWriter, r *http.Request) {
	var req FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	id, err := h.svc.Feedback(r.Context(), req.AnswerID, interactions.FeedbackInput{
		Score:      req.Score,
		WasHelpful: *req.WasHelpful,
		Comment:    strings.TrimSpace(req.Comment),
	})
	if err != nil {
		status := HTTPStatus(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			h.svc.log.Error("storing feedback", zap.Error(err))
			msg = "failed to store feedback"
		}
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, FeedbackResponse{
		Status:     "success",
		Message:    "Feedback recorded",
		FeedbackID: id,
	})
}

// validationMessage reports the first failing field.
func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		f := ve[0]
		return fmt.Sprintf("validation error: %s - %s", f.Field(), f.Tag())
	}
	return "validation error: invalid request"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
