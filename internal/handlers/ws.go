package handlers

import (
	"net/http"
	"time"

	"github.com/alfagnish/userbook/internal/events"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const wsWriteWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins (CORS is handled at the middleware level).
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventsHandler streams registration events over a WebSocket.
type EventsHandler struct {
	hub *events.Hub
	log *zap.Logger
}

// NewEventsHandler creates a new EventsHandler.
func NewEventsHandler(hub *events.Hub, log *zap.Logger) *EventsHandler {
	return &EventsHandler{hub: hub, log: log}
}

// Routes registers the WebSocket endpoint.
func (h *EventsHandler) Routes(r chi.Router) {
	r.Get("/ws", h.Stream)
}

// Stream upgrades the connection and writes every hub event as a JSON text
// frame until the client goes away. The subscription is taken before the
// upgrade so that no event published after the handshake is missed.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id, ch := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	// Clients never send anything meaningful; reading only detects close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Debug("websocket read", zap.Error(err))
				}
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				h.log.Debug("websocket write", zap.Error(err))
				return
			}
		}
	}
}
