package chat

import (
	"fmt"
	"strings"
)

// Lines sent to peers. The wording is what users read; tests should go through
// these helpers rather than repeat literals.
const (
	PromptUsername  = "Enter username:"
	RetryUsername   = "Username already taken or invalid. Enter another:"
	UsagePrivate    = "Usage: /pm <user> <message>"
	QuitAck         = "You have disconnected."
	RateLimitNotice = "You are sending messages too fast. Message discarded."
)

// WelcomeLine greets a freshly registered user and lists the commands.
func WelcomeLine(name string) string {
	return fmt.Sprintf("Welcome %s! Commands: /quit | /list | /pm <user> <msg>", name)
}

// JoinLine announces name to everyone else.
func JoinLine(name string) string {
	return fmt.Sprintf("[%s] joined the chat.", name)
}

// LeaveLine announces the departure of name.
func LeaveLine(name string) string {
	return fmt.Sprintf("[%s] left the chat.", name)
}

// ChatLine is a broadcast message as seen by the other users.
func ChatLine(sender, body string) string {
	return fmt.Sprintf("[%s]: %s", sender, body)
}

// UserListLine renders the /list reply.
func UserListLine(names []string) string {
	return "Online Users: " + strings.Join(names, ", ")
}

// PrivateFromLine is what the target of a /pm receives.
func PrivateFromLine(sender, body string) string {
	return fmt.Sprintf("[PM from %s]: %s", sender, body)
}

// PrivateToLine is the echo the sender of a /pm receives.
func PrivateToLine(target, body string) string {
	return fmt.Sprintf("[PM to %s]: %s", target, body)
}

// PrivateUndeliveredLine tells the sender of a /pm that the target is online
// but its queue refused the message.
func PrivateUndeliveredLine(target string) string {
	return fmt.Sprintf("Message to %s was not delivered. Try again later.", target)
}

// UserNotFoundLine reports an unknown /pm target.
func UserNotFoundLine(target string) string {
	return "User not found: " + target
}
