package analytics

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the analytics endpoints.
func RegisterRoutes(r chi.Router, a *Analyzer) {
	r.Get("/analytics/report", handleReport(a))
	r.Get("/analytics/export", handleExport(a))
}

func intParam(r *http.Request, name string) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func handleReport(a *Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		report, err := a.Report(r.Context(), intParam(r, "days"))
		if err != nil {
			http.Error(w, `{"error":"failed to build report"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}

func handleExport(a *Analyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pairs, err := a.Export(r.Context(), intParam(r, "min_score"))
		if err != nil {
			http.Error(w, `{"error":"failed to export"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(pairs)
	}
}
