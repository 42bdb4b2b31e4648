package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/pixlet/internal/dom"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// maxMessageSize bounds a single client event.
const maxMessageSize = 16 << 10

// RegisterRoutes mounts the page socket on the given router.
func (m *Manager) RegisterRoutes(r chi.Router) {
	r.Get("/ws/session/{id}", m.HandleSocket)
}

// HandleSocket upgrades the request and relays events for one page.
func (m *Manager) HandleSocket(w http.ResponseWriter, r *http.Request) {
	s, err := m.Get(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if s.Connected() {
		http.Error(w, ErrAlreadyConnected.Error(), http.StatusConflict)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("websocket upgrade", "session", s.id, "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	first, err := s.attach(conn, m.now())
	if err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()))
		return
	}
	defer func() { s.detach(m.now()) }()

	ctx := r.Context()
	// Reconnects of the same page do not open home again.
	if first && m.cfg.AutoOpenHome {
		s.boot.OpenHomeOnLoad(ctx)
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Warn("websocket read", "session", s.id, "error", err)
			}
			return
		}
		s.touch(m.now())
		m.handleMessage(ctx, s, raw)
	}
}

func (m *Manager) handleMessage(ctx context.Context, s *Session, raw []byte) {
	var msg clientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.deliver(serverMessage{Type: msgError, Message: "invalid message format"})
		return
	}
	if msg.Type != msgEvent {
		s.deliver(serverMessage{Type: msgError, Message: "unknown message type: " + msg.Type})
		return
	}

	_, err := s.doc.Dispatch(ctx, dom.Event{
		Type:     msg.Event,
		TargetID: msg.Target,
		Value:    msg.Value,
		Fields:   msg.Fields,
	})
	switch {
	case err == nil:
	case errors.Is(err, dom.ErrUnknownTarget), errors.Is(err, dom.ErrEmptyEventType):
		s.deliver(serverMessage{Type: msgError, Message: err.Error()})
	default:
		m.logger.Error("dispatching event", "session", s.id, "event", msg.Event, "error", err)
		s.deliver(serverMessage{Type: msgError, Message: "event could not be handled"})
	}
}
