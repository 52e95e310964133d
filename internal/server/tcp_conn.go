package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

const writeWait = 10 * time.Second

// TCPConn reads and writes newline-delimited lines over a stream connection.
type TCPConn struct {
	conn    net.Conn
	lines   *bufio.Scanner
	maxLine int
}

// NewTCPConn wraps conn. Lines longer than maxLine bytes end the connection.
func NewTCPConn(conn net.Conn, maxLine int) *TCPConn {
	if maxLine <= 0 {
		maxLine = defaultMaxLineLength
	}
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, min(maxLine+1, 4096)), maxLine+1)
	return &TCPConn{conn: conn, lines: scanner, maxLine: maxLine}
}

// ReadLine returns the next line without its terminator. A stray "\r" inside
// the line becomes a space. It returns io.EOF
// when the peer closed the stream or the connection was closed locally.
func (c *TCPConn) ReadLine() (string, error) {
	if c.lines.Scan() {
		line := strings.TrimSuffix(c.lines.Text(), "\r")
		return strings.ReplaceAll(line, "\r", " "), nil
	}

	err := c.lines.Err()
	switch {
	case err == nil, isExpectedCloseError(err):
		return "", io.EOF
	case errors.Is(err, bufio.ErrTooLong):
		return "", fmt.Errorf("line exceeds %d bytes: %w", c.maxLine, err)
	default:
		return "", err
	}
}

// WriteLine writes line followed by a newline.
func (c *TCPConn) WriteLine(line string) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	_, err := io.WriteString(c.conn, line+"\n")
	return err
}

// Close closes the underlying connection.
func (c *TCPConn) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the peer address.
func (c *TCPConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}
