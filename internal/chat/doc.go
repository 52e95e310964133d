// Package chat implements the relaychat core: the online-user registry, the
// per-connection session state machine, command parsing, and message routing.
//
// The package is transport agnostic. Anything that can read and write whole
// lines (a TCP socket, a WebSocket) satisfies Conn and can be handed to a
// Session.
package chat
