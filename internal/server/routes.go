// Package server wires HTTP handlers into a ServeMux for relaychat via
// routing helpers.
package server

import (
	"log/slog"
	"net/http"
)

// SetupRoutes configures and returns an HTTP ServeMux with all application routes.
// It sets up handlers for health check, the WebSocket chat endpoint and the user list.
func SetupRoutes(hub *Hub, log *slog.Logger, cfg Config) *http.ServeMux {
	h := NewHandlers(hub, log, cfg)
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.Health)
	mux.HandleFunc("/ws", h.WebSocket)
	mux.HandleFunc("/users", h.Users)
	return mux
}
