package interactions

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the read-only log endpoints.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Get("/history", handleHistory(store))
	r.Get("/feedback", handleFeedbackHistory(store))
	r.Get("/stats", handleStats(store))
}

func limitParam(r *http.Request) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func handleHistory(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		history, err := store.History(r.Context(), limitParam(r))
		if err != nil {
			http.Error(w, `{"error":"failed to load history"}`, http.StatusInternalServerError)
			return
		}
		if history == nil {
			history = []Exchange{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"history": history})
	}
}

func handleFeedbackHistory(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		feedback, err := store.FeedbackHistory(r.Context(), limitParam(r))
		if err != nil {
			http.Error(w, `{"error":"failed to load feedback"}`, http.StatusInternalServerError)
			return
		}
		if feedback == nil {
			feedback = []RatedExchange{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"feedback": feedback})
	}
}

func handleStats(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.Stats(r.Context())
		if err != nil {
			http.Error(w, `{"error":"failed to load stats"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	}
}
