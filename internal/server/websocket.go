// Package server adapts WebSocket connections to the chat line protocol:
// each text frame carries one or more newline separated lines.
package server

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// WSConn is a chat.Conn over a WebSocket.
type WSConn struct {
	conn    *websocket.Conn
	addr    string
	maxLine int64
	pending []string
}

// NewWSConn wraps an upgraded connection. Frames larger than maxLine bytes
// end the connection.
func NewWSConn(conn *websocket.Conn, addr string, maxLine int64) *WSConn {
	if maxLine <= 0 {
		maxLine = defaultMaxLineLength
	}
	conn.SetReadLimit(maxLine)
	return &WSConn{conn: conn, addr: addr, maxLine: maxLine}
}

// ReadLine returns the next line. A text frame holding several lines is
// split and its lines are returned one per call, so no line handed to the
// chat ever contains a line break. Binary frames are skipped.
func (c *WSConn) ReadLine() (string, error) {
	for len(c.pending) == 0 {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return "", c.readError(err)
		}
		if kind != websocket.TextMessage {
			continue
		}
		c.pending = splitLines(string(data))
	}

	line := c.pending[0]
	c.pending = c.pending[1:]
	return line, nil
}

// splitLines breaks a frame on "\n", dropping a trailing "\r" from every line
// and the empty remainder after a final terminator. Any other "\r" is turned
// into a space so it cannot rewrite a terminal line.
func splitLines(frame string) []string {
	frame = strings.TrimSuffix(frame, "\n")
	lines := strings.Split(frame, "\n")
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		lines[i] = strings.ReplaceAll(line, "\r", " ")
	}
	return lines
}

func (c *WSConn) readError(err error) error {
	if errors.Is(err, websocket.ErrReadLimit) {
		return fmt.Errorf("message exceeds %d bytes: %w", c.maxLine, err)
	}

	if websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
		websocket.CloseAbnormalClosure) {
		return io.EOF
	}

	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) || isExpectedCloseError(err) {
		return io.EOF
	}
	return err
}

// WriteLine sends line as one text frame.
func (c *WSConn) WriteLine(line string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, []byte(line))
}

// Close sends a close frame, best effort, and closes the connection.
func (c *WSConn) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return c.conn.Close()
}

// RemoteAddr returns the peer address reported by the HTTP request.
func (c *WSConn) RemoteAddr() string {
	return c.addr
}
