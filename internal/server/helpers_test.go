package server

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/relaychat/internal/chat"
)

const (
	testOriginURL = "http://localhost:8080"
	readTimeout   = 2 * time.Second
)

func testLogger() *slog.Logger {
	return logs.GetLoggerFromLevel(slog.LevelDebug)
}

func testConfig() Config {
	cfg := NewConfig()
	cfg.Host = "127.0.0.1"
	cfg.Port = 0
	cfg.RateLimit.Burst = 0
	cfg.AllowedOrigins = []string{testOriginURL}
	return cfg
}

// startChat runs a hub and a TCP listener on an ephemeral port. Both are
// stopped when the test ends.
func startChat(t *testing.T, cfg Config) (*Hub, *Listener) {
	t.Helper()
	log := testLogger()
	hub := NewHub(log, cfg.SessionConfig())
	listener, err := Listen(cfg.Address(), hub, log, cfg.MaxLineLength)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- listener.Serve(ctx) }()

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-served)
		require.NoError(t, hub.Shutdown(2*time.Second))
	})
	return hub, listener
}

// startHTTP serves the HTTP routes of hub through httptest.
func startHTTP(t *testing.T, hub *Hub, cfg Config) *httptest.Server {
	t.Helper()
	testServer := httptest.NewServer(SetupRoutes(hub, testLogger(), cfg))
	t.Cleanup(testServer.Close)
	return testServer
}

// lineClient is a TCP chat client for tests.
type lineClient struct {
	t      *testing.T
	conn   net.Conn
	reader *bufio.Reader
}

func dialChat(t *testing.T, addr string) *lineClient {
	t.Helper()
	conn, err := net.DialTimeout("tcp", addr, readTimeout)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &lineClient{t: t, conn: conn, reader: bufio.NewReader(conn)}
}

func (c *lineClient) send(line string) {
	c.t.Helper()
	_, err := c.conn.Write([]byte(line + "\n"))
	require.NoError(c.t, err)
}

func (c *lineClient) readLine() (string, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
		return "", err
	}
	line, err := c.reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

func (c *lineClient) expect(want string) {
	c.t.Helper()
	got, err := c.readLine()
	require.NoError(c.t, err, "waiting for %q", want)
	require.Equal(c.t, want, got)
}

func (c *lineClient) expectClosed() {
	c.t.Helper()
	_, err := c.readLine()
	require.Error(c.t, err)
}

// join negotiates name and waits for the welcome line.
func (c *lineClient) join(name string) *lineClient {
	c.t.Helper()
	c.expect(chat.PromptUsername)
	c.send(name)
	c.expect(chat.WelcomeLine(name))
	return c
}

// wsClient is a WebSocket chat client for tests.
type wsClient struct {
	t    *testing.T
	conn *websocket.Conn
}

func buildWebSocketURL(serverURL string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") + "/ws"
}

func dialWebSocket(t *testing.T, serverURL, origin string) *wsClient {
	t.Helper()
	header := http.Header{}
	header.Set("Origin", origin)
	conn, resp, err := websocket.DefaultDialer.Dial(buildWebSocketURL(serverURL), header)
	require.NoError(t, err)
	_ = resp.Body.Close()
	t.Cleanup(func() { _ = conn.Close() })
	return &wsClient{t: t, conn: conn}
}

func (c *wsClient) send(line string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.WriteMessage(websocket.TextMessage, []byte(line)))
}

func (c *wsClient) expect(want string) {
	c.t.Helper()
	require.NoError(c.t, c.conn.SetReadDeadline(time.Now().Add(readTimeout)))
	kind, data, err := c.conn.ReadMessage()
	require.NoError(c.t, err, "waiting for %q", want)
	require.Equal(c.t, websocket.TextMessage, kind)
	require.Equal(c.t, want, string(data))
}

func (c *wsClient) join(name string) *wsClient {
	c.t.Helper()
	c.expect(chat.PromptUsername)
	c.send(name)
	c.expect(chat.WelcomeLine(name))
	return c
}
