package chat

import (
	"strings"
	"unicode"
)

// Command is one parsed line of an active session: Quit, List,
// PrivateMessage or Broadcast.
type Command interface {
	command()
}

// Quit ends the session.
type Quit struct{}

// List asks for the online users.
type List struct{}

// PrivateMessage is a /pm addressed to a single user.
type PrivateMessage struct {
	Target string
	Body   string
}

// Broadcast is plain text for every other user.
type Broadcast struct {
	Body string
}

func (Quit) command()           {}
func (List) command()           {}
func (PrivateMessage) command() {}
func (Broadcast) command()      {}

const (
	keywordQuit    = "/quit"
	keywordList    = "/list"
	keywordPrivate = "/pm"
)

// ParseCommand trims line and classifies it. Command keywords match without
// regard to case. A /pm with fewer than a target and a body yields
// ErrPrivateMessageUsage; blank input yields ErrEmptyLine.
func ParseCommand(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, ErrEmptyLine
	}

	keyword, rest := splitField(line)
	switch {
	case strings.EqualFold(line, keywordQuit):
		return Quit{}, nil
	case strings.EqualFold(line, keywordList):
		return List{}, nil
	case strings.EqualFold(keyword, keywordPrivate):
		target, body := splitField(rest)
		if target == "" || body == "" {
			return nil, ErrPrivateMessageUsage
		}
		return PrivateMessage{Target: target, Body: body}, nil
	}
	return Broadcast{Body: line}, nil
}

// splitField cuts s at its first run of white space. The remainder keeps its
// inner spacing.
func splitField(s string) (field, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeftFunc(s[i:], unicode.IsSpace)
}
