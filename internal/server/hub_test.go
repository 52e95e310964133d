package server

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Tyrowin/relaychat/internal/chat"
)

// TestHubShutdownClosesSessions tests that Shutdown disconnects every client,
// named or not, and leaves the registry empty.
func TestHubShutdownClosesSessions(t *testing.T) {
	req := require.New(t)
	log := testLogger()
	hub := NewHub(log, chat.SessionConfig{})
	listener, err := Listen("127.0.0.1:0", hub, log, 0)
	req.NoError(err)
	t.Cleanup(func() { _ = listener.ln.Close() })

	go func() { _ = listener.Serve(t.Context()) }()
	addr := listener.Addr().String()

	alice := dialChat(t, addr).join("alice")
	pending := dialChat(t, addr)
	pending.expect(chat.PromptUsername)
	req.Eventually(func() bool { return hub.Connections() == 2 }, readTimeout, 10*time.Millisecond)

	req.NoError(hub.Shutdown(2 * time.Second))

	alice.expectClosed()
	pending.expectClosed()
	req.Zero(hub.Connections())
	req.Empty(hub.Online())
}

// TestHubAttachAfterShutdown tests that a closed hub refuses connections.
func TestHubAttachAfterShutdown(t *testing.T) {
	hub := NewHub(testLogger(), chat.SessionConfig{})
	require.NoError(t, hub.Shutdown(time.Second))

	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	err := hub.Attach(NewTCPConn(server, 0), TransportTCP)

	require.ErrorIs(t, err, ErrHubClosed)
	require.Zero(t, hub.Connections())
}
