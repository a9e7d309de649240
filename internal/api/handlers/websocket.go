package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"
	gorilla "github.com/gorilla/websocket"
	"github.com/mins/twogether/internal/domain"
	"github.com/mins/twogether/internal/service"
	"github.com/mins/twogether/internal/websocket"
)

type WebSocketHandler struct {
	hub         *websocket.Hub
	authService *service.AuthService
}

func NewWebSocketHandler(hub *websocket.Hub, authService *service.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
	}
}

var upgrader = gorilla.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handle upgrades the connection and subscribes the caller to their
// couple's event channel. Browsers cannot set headers on websocket
// requests, so the token travels as a query parameter.
func (h *WebSocketHandler) Handle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Token required", http.StatusUnauthorized)
		return
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	userIDStr, ok := (*claims)["sub"].(string)
	if !ok {
		writeError(w, domain.ErrUnauthenticated)
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		writeError(w, domain.ErrUnauthenticated)
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !user.IsPaired() {
		writeError(w, domain.ErrCoupleNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := websocket.NewClient(h.hub, conn, userID, *user.CoupleID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
