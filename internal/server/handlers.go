// Package server exposes HTTP handlers, including WebSocket upgrades, health
// checks, and the online-user listing.
package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
)

// Handlers serves the HTTP side of relaychat.
type Handlers struct {
	hub      *Hub
	log      *slog.Logger
	upgrader websocket.Upgrader
	maxLine  int64
}

// NewHandlers builds the HTTP handlers for hub.
func NewHandlers(hub *Hub, log *slog.Logger, cfg Config) *Handlers {
	origins := newOriginPolicy(cfg.AllowedOrigins, log)
	return &Handlers{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     origins.check,
		},
		maxLine: int64(cfg.MaxLineLength),
	}
}

// usersResponse is the /users payload.
type usersResponse struct {
	Online int      `json:"online"`
	Users  []string `json:"users"`
}

// WebSocket upgrades the request and attaches the connection to the hub.
// The session speaks the same line protocol as TCP clients.
func (h *Handlers) WebSocket(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. WebSocket endpoint only accepts GET requests.", http.StatusMethodNotAllowed)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("WebSocket upgrade failed", "addr", r.RemoteAddr, "error", err)
		return
	}

	if err := h.hub.Attach(NewWSConn(conn, r.RemoteAddr, h.maxLine), TransportWebSocket); err != nil {
		h.log.Warn("Rejecting WebSocket client", "addr", r.RemoteAddr, "error", err)
		_ = conn.Close()
	}
}

// Health provides a simple health check endpoint that returns server status.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = fmt.Fprintf(w, "relaychat server is running! %d users online", len(h.hub.Online()))
}

// Users lists the online usernames in registration order.
func (h *Handlers) Users(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	names := h.hub.Online()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(usersResponse{Online: len(names), Users: names}); err != nil {
		h.log.Warn("Error writing users response", "error", err)
	}
}
