package realtime

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated requests to websocket sessions.
type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// Serve - websocket endpoint for realtime hire notifications. The session is
// bound to the identity the JWT middleware authenticated on this request;
// the protocol has no client-sent identity message at all, so a connection
// can only ever receive events addressed to its own user.
func (h *Handler) Serve(c echo.Context) error {
	userID, ok := c.Get("user_id").(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	s := NewSession(userID)
	h.registry.Subscribe(s)

	go writePump(ws, s)

	// Read loop: client frames are discarded, the protocol is server push.
	// A read error means the connection is gone, whatever the cause.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	h.registry.Unsubscribe(s)
	s.Close()
	_ = ws.Close()
	return nil
}

func writePump(ws *websocket.Conn, s *Session) {
	for {
		select {
		case ev := <-s.Events():
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			if err := ws.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-s.Done():
			_ = ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
