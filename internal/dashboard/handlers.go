package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/candidate-concierge/concierge/internal/interactions"
)

// profileResponse is the page header: who the assistant speaks for.
type profileResponse struct {
	Subject  string `json:"subject"`
	Title    string `json:"title,omitempty"`
	Location string `json:"location,omitempty"`
}

// statsResponse is the JSON response for the stats endpoint.
type statsResponse struct {
	Profile profileResponse     `json:"profile"`
	Stats   *interactions.Stats `json:"stats,omitempty"`
}

func (d *Dashboard) handleStats(w http.ResponseWriter, r *http.Request) {
	kb := d.svc.Resolver().Knowledge()
	resp := statsResponse{
		Profile: profileResponse{Subject: kb.Subject, Location: kb.Contact.Location},
	}
	if cur, ok := kb.CurrentRole(); ok {
		resp.Profile.Title = cur.Title
	}

	if d.store != nil {
		stats, err := d.store.Stats(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load stats"})
			return
		}
		resp.Stats = stats
	}

	writeJSON(w, http.StatusOK, resp)
}

func (d *Dashboard) handleRecent(w http.ResponseWriter, r *http.Request) {
	recent := []interactions.Exchange{}
	if d.store != nil {
		history, err := d.store.History(r.Context(), 10)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load history"})
			return
		}
		if history != nil {
			recent = history
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"recent": recent})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
