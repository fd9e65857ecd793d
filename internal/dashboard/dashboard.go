// Package dashboard serves the chat page. Questions arrive over a
// websocket, answers are rendered to HTML, and the page posts thumbs
// feedback to /feedback.
package dashboard

import (
	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/candidate-concierge/concierge/internal/concierge"
	"github.com/candidate-concierge/concierge/internal/interactions"
)

// Dashboard provides the chat interface and its supporting endpoints.
type Dashboard struct {
	svc   *concierge.Service
	store *interactions.Store
	md    goldmark.Markdown
	log   *zap.Logger
}

// New creates a Dashboard. store may be nil when logging is disabled.
func New(svc *concierge.Service, store *interactions.Store, log *zap.Logger) *Dashboard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dashboard{
		svc:   svc,
		store: store,
		md:    newMarkdown(),
		log:   log.Named("dashboard"),
	}
}

// RegisterRoutes mounts the page and JSON endpoints on api and the
// websocket on root, which carries no request timeout.
func (d *Dashboard) RegisterRoutes(root, api chi.Router) {
	api.Get("/", d.ServeIndex)
	api.Get("/api/dashboard/stats", d.handleStats)
	api.Get("/api/dashboard/recent", d.handleRecent)
	root.Get("/ws/chat", d.handleWebSocket)
}
