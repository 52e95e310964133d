// Package server puts relaychat on the network.
//
// A TCP Listener and an optional HTTP server with a WebSocket endpoint both
// hand their connections to a shared Hub, which runs one chat.Session per
// connection against a single registry. Configuration, origin checks and
// connection adapters live here as well.
package server
