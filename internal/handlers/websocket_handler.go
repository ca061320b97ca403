package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/arkodeep/vibely/backend/internal/realtime"
	"github.com/arkodeep/vibely/backend/pkg/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler upgrades authenticated requests to a realtime
// connection. Authentication happened once in the JWT middleware (the
// token rides the ?token= query parameter); there is no per-message
// re-auth.
type WebSocketHandler struct {
	hub *realtime.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *realtime.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// RegisterWebSocketRoutes registers the websocket upgrade route
func (h *WebSocketHandler) RegisterWebSocketRoutes(g *echo.Group) {
	g.GET("/ws", h.Connect)
}

// Connect upgrades the request and hands the connection to the hub
func (h *WebSocketHandler) Connect(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logging.Error().Err(err).Msg("websocket upgrade failed")
		return err
	}

	client := realtime.NewClient(h.hub, conn, currentUserID)
	client.Start()
	return nil
}
