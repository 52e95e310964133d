// Package server coordinates session start-up, the shared registry, and
// connection cleanup for relaychat via the Hub type.
package server

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Tyrowin/relaychat/internal/chat"
)

// Hub owns the online-user registry and runs one chat.Session per attached
// connection, whatever transport it came from. It keeps track of live
// sessions so they can be closed on shutdown.
type Hub struct {
	registry *chat.Registry
	router   *chat.Broadcaster
	log      *slog.Logger
	session  chat.SessionConfig

	mutex    sync.Mutex
	sessions map[*chat.Session]struct{}
	closed   bool
	wg       sync.WaitGroup
}

// NewHub creates a Hub with an empty registry.
func NewHub(log *slog.Logger, cfg chat.SessionConfig) *Hub {
	registry := chat.NewRegistry()
	return &Hub{
		registry: registry,
		router:   chat.NewBroadcaster(registry, log),
		log:      log,
		session:  cfg,
		sessions: make(map[*chat.Session]struct{}),
	}
}

// Attach starts a session for conn in its own goroutine and returns at once.
func (h *Hub) Attach(conn chat.Conn, transport string) error {
	session := chat.NewSession(conn, h.registry, h.router, h.log.With("transport", transport), h.session)

	h.mutex.Lock()
	if h.closed {
		h.mutex.Unlock()
		return ErrHubClosed
	}
	h.sessions[session] = struct{}{}
	count := len(h.sessions)
	h.wg.Add(1)
	h.mutex.Unlock()

	h.log.Debug("Session attached", "session", session.ID(), "addr", conn.RemoteAddr(), "transport", transport, "connections", count)

	go func() {
		defer h.wg.Done()
		defer h.detach(session)
		session.Run()
	}()
	return nil
}

func (h *Hub) detach(session *chat.Session) {
	h.mutex.Lock()
	delete(h.sessions, session)
	count := len(h.sessions)
	h.mutex.Unlock()
	h.log.Debug("Session detached", "session", session.ID(), "connections", count, "online", h.registry.Len())
}

// Online returns the registered usernames in registration order.
func (h *Hub) Online() []string {
	return h.registry.Names()
}

// Connections returns the number of live sessions, named or not.
func (h *Hub) Connections() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.sessions)
}

// Shutdown refuses new connections, closes every live session and waits for
// their cleanup, up to timeout.
func (h *Hub) Shutdown(timeout time.Duration) error {
	h.log.Info("Initiating hub shutdown...")

	h.mutex.Lock()
	h.closed = true
	sessions := make([]*chat.Session, 0, len(h.sessions))
	for session := range h.sessions {
		sessions = append(sessions, session)
	}
	h.mutex.Unlock()

	for _, session := range sessions {
		session.Close()
	}
	h.log.Info("Closed client connections", "count", len(sessions))

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		h.log.Info("Hub shutdown completed successfully")
		return nil
	case <-time.After(timeout):
		h.log.Warn("Hub shutdown timeout reached, some sessions may still be running")
		return context.DeadlineExceeded
	}
}
