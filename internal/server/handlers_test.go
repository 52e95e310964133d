package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Tyrowin/relaychat/internal/chat"
)

func newTestHandlers(t *testing.T) (*Handlers, *Hub) {
	t.Helper()
	hub := NewHub(testLogger(), chat.SessionConfig{})
	return NewHandlers(hub, testLogger(), testConfig()), hub
}

// TestHealthHandler tests the health handler for every method it accepts.
func TestHealthHandler(t *testing.T) {
	h, _ := newTestHandlers(t)

	for _, method := range []string{"GET", "POST", "HEAD"} {
		t.Run(method, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Health(rr, httptest.NewRequest(method, "/", http.NoBody))

			if rr.Code != http.StatusOK {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
			}
			if got := rr.Header().Get("Content-Type"); got != "text/plain" {
				t.Errorf("unexpected content type: %q", got)
			}
			if method != "HEAD" && rr.Body.String() != "relaychat server is running! 0 users online" {
				t.Errorf("handler returned unexpected body: %q", rr.Body.String())
			}
		})
	}
}

// TestUsersHandler tests the online-user listing against a live chat.
func TestUsersHandler(t *testing.T) {
	cfg := testConfig()
	hub, listener := startChat(t, cfg)
	h := NewHandlers(hub, testLogger(), cfg)

	dialChat(t, listener.Addr().String()).join("alice")
	dialChat(t, listener.Addr().String()).join("bob")

	rr := httptest.NewRecorder()
	h.Users(rr, httptest.NewRequest("GET", "/users", http.NoBody))

	if rr.Code != http.StatusOK {
		t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, http.StatusOK)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("unexpected content type: %q", got)
	}

	var body usersResponse
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Online != 2 || strings.Join(body.Users, ",") != "alice,bob" {
		t.Errorf("unexpected users payload: %+v", body)
	}
}

// TestMethodNotAllowed tests that /ws and /users only accept GET.
func TestMethodNotAllowed(t *testing.T) {
	h, _ := newTestHandlers(t)

	tests := []struct {
		name    string
		handler http.HandlerFunc
		path    string
	}{
		{name: "websocket", handler: h.WebSocket, path: "/ws"},
		{name: "users", handler: h.Users, path: "/users"},
	}

	for _, tt := range tests {
		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			t.Run(tt.name+"_"+method, func(t *testing.T) {
				rr := httptest.NewRecorder()
				tt.handler(rr, httptest.NewRequest(method, tt.path, http.NoBody))

				if rr.Code != http.StatusMethodNotAllowed {
					t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
				}
			})
		}
	}
}

// TestWebSocketRequiresUpgrade tests that a plain GET on /ws is rejected and
// never reaches the hub.
func TestWebSocketRequiresUpgrade(t *testing.T) {
	h, hub := newTestHandlers(t)

	rr := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/ws", http.NoBody)
	r.Header.Set("Origin", testOriginURL)
	h.WebSocket(rr, r)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
	if hub.Connections() != 0 {
		t.Errorf("expected no sessions, got %d", hub.Connections())
	}
}

// TestSetupRoutes tests that every route is registered.
func TestSetupRoutes(t *testing.T) {
	hub := NewHub(testLogger(), chat.SessionConfig{})
	testServer := startHTTP(t, hub, testConfig())

	for path, want := range map[string]int{
		"/":      http.StatusOK,
		"/users": http.StatusOK,
		"/ws":    http.StatusBadRequest,
	} {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Get(testServer.URL + path)
			if err != nil {
				t.Fatalf("GET %s: %v", path, err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != want {
				t.Errorf("GET %s: expected status %d, got %d", path, want, resp.StatusCode)
			}
		})
	}
}
