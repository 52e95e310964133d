package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
)

// Listener accepts TCP chat clients and attaches each one to the Hub.
type Listener struct {
	ln      net.Listener
	hub     *Hub
	log     *slog.Logger
	maxLine int
}

// Listen binds addr.
func Listen(addr string, hub *Hub, log *slog.Logger, maxLine int) (*Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return NewListener(ln, hub, log, maxLine), nil
}

// NewListener serves chat clients on an existing listener.
func NewListener(ln net.Listener, hub *Hub, log *slog.Logger, maxLine int) *Listener {
	return &Listener{ln: ln, hub: hub, log: log, maxLine: maxLine}
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

// Serve accepts connections until ctx is cancelled, in which case it returns
// nil. Any other accept failure is returned; the caller treats it as fatal.
func (l *Listener) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		if err := l.ln.Close(); err != nil && !isExpectedCloseError(err) {
			l.log.Warn("Error closing listener", "error", err)
		}
	})
	defer stop()

	l.log.Info("Chat server listening", "address", l.ln.Addr().String())
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				l.log.Info("Chat listener stopped")
				return nil
			}
			return fmt.Errorf("accept on %s: %w", l.ln.Addr(), err)
		}

		l.log.Debug("Client connected", "addr", conn.RemoteAddr().String())
		if err := l.hub.Attach(NewTCPConn(conn, l.maxLine), TransportTCP); err != nil {
			_ = conn.Close()
			if errors.Is(err, ErrHubClosed) {
				return nil
			}
			return err
		}
	}
}
