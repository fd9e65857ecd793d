package dashboard

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const maxQuestionLen = 2000

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatRequest is the incoming WebSocket message format.
type chatRequest struct {
	Type      string `json:"type"`       // "ask"
	SessionID string `json:"session_id"` // empty for new sessions
	Content   string `json:"content"`
}

// chatResponse is the outgoing WebSocket message format.
type chatResponse struct {
	Type       string  `json:"type"` // "answer" or "error"
	SessionID  string  `json:"session_id"`
	Content    string  `json:"content"`
	HTML       string  `json:"html,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Source     string  `json:"source,omitempty"`
	AnswerID   *int64  `json:"answer_id,omitempty"`
}

func (d *Dashboard) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		d.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				d.log.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var req chatRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			d.sendError(conn, "", "invalid message format")
			continue
		}

		req.Content = strings.TrimSpace(req.Content)
		switch {
		case req.Content == "":
			d.sendError(conn, req.SessionID, "content is required")
			continue
		case len(req.Content) > maxQuestionLen:
			d.sendError(conn, req.SessionID, "question is too long")
			continue
		}

		switch req.Type {
		case "ask", "":
			d.handleAsk(conn, r, req)
		default:
			d.sendError(conn, req.SessionID, "unknown message type: "+req.Type)
		}
	}
}

func (d *Dashboard) handleAsk(conn *websocket.Conn, r *http.Request, req chatRequest) {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	ans := d.svc.Ask(r.Context(), req.Content, sessionID)
	d.send(conn, chatResponse{
		Type:       "answer",
		SessionID:  sessionID,
		Content:    ans.Text,
		HTML:       d.renderHTML(ans.Text),
		Confidence: ans.Confidence,
		Source:     string(ans.Source),
		AnswerID:   ans.AnswerID,
	})
}

func (d *Dashboard) send(conn *websocket.Conn, resp chatResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		d.log.Warn("websocket write", zap.Error(err))
	}
}

func (d *Dashboard) sendError(conn *websocket.Conn, sessionID, message string) {
	d.send(conn, chatResponse{
		Type:      "error",
		SessionID: sessionID,
		Content:   message,
	})
}
