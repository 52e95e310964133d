package server

import (
	"errors"
	"net"
	"strings"
)

// Transport names used in logs.
const (
	TransportTCP       = "tcp"
	TransportWebSocket = "websocket"
)

// ErrHubClosed is returned by Hub.Attach once shutdown has begun.
var ErrHubClosed = errors.New("server: hub is shut down")

// isExpectedCloseError checks if an error is expected during connection closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "connection reset by peer")
}
