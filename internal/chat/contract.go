//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=mocks/mock_contract.go -package=mocks
package chat

// Sink is the outbound side of a registered session. Send must not block and
// must be safe for concurrent callers; each call delivers one whole line.
type Sink interface {
	Send(line string) error
}

// Directory is the shared view of who is online.
type Directory interface {
	Register(name string, sink Sink) bool
	Unregister(name string)
	Lookup(name string) (Sink, bool)
	Names() []string
	Snapshot() []Entry
}

// Conn is a line-oriented connection to one remote peer. ReadLine returns
// io.EOF once the peer has gone away.
type Conn interface {
	ReadLine() (string, error)
	WriteLine(line string) error
	Close() error
	RemoteAddr() string
}
