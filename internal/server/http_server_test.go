package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestCreateServer tests the production timeouts.
func TestCreateServer(t *testing.T) {
	req := require.New(t)
	mux := http.NewServeMux()

	srv := CreateServer("127.0.0.1:0", mux)

	req.Equal("127.0.0.1:0", srv.Addr)
	req.Equal(15*time.Second, srv.ReadTimeout)
	req.Equal(15*time.Second, srv.WriteTimeout)
	req.Equal(60*time.Second, srv.IdleTimeout)
}

// TestStartAndShutdownServer tests that a graceful shutdown is not reported
// as a failure.
func TestStartAndShutdownServer(t *testing.T) {
	srv := CreateServer("127.0.0.1:0", http.NewServeMux())

	started := make(chan error, 1)
	go func() { started <- StartServer(srv, testLogger()) }()

	require.NoError(t, ShutdownServer(srv, time.Second, testLogger()))
	select {
	case err := <-started:
		require.NoError(t, err)
	case <-time.After(readTimeout):
		t.Fatal("StartServer did not return after shutdown")
	}
}

// TestStartServerBindFailure tests that a bad address is reported.
func TestStartServerBindFailure(t *testing.T) {
	srv := CreateServer("256.0.0.1:http", http.NewServeMux())

	require.Error(t, StartServer(srv, testLogger()))
}
