package chat

import "errors"

var (
	// ErrOutboxFull is returned by a session sink whose queue has no room left.
	ErrOutboxFull = errors.New("chat: outbox full")
	// ErrOutboxClosed is returned by a session sink after its session closed.
	ErrOutboxClosed = errors.New("chat: outbox closed")

	// ErrUserNotFound is returned by Broadcaster.SendPrivate when the target is
	// not online.
	ErrUserNotFound = errors.New("chat: user not found")

	// ErrEmptyLine is returned by ParseCommand for blank input.
	ErrEmptyLine = errors.New("chat: empty line")
	// ErrPrivateMessageUsage is returned by ParseCommand for a /pm without a
	// target or a body.
	ErrPrivateMessageUsage = errors.New("chat: /pm needs a user and a message")
)
