package chat

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultOutboxSize   = 256
	DefaultDrainTimeout = 2 * time.Second
)

// SessionConfig tunes a single session.
type SessionConfig struct {
	// OutboxSize is the number of lines that may wait for the writer.
	OutboxSize int
	// DrainTimeout bounds how long a closing session waits for queued lines
	// to reach the peer before the connection is torn down.
	DrainTimeout time.Duration
	RateLimit    RateLimit
}

// Session drives one connection from username negotiation to close. It owns
// its Conn: only the session's writer goroutine writes to it.
type Session struct {
	id      string
	conn    Conn
	dir     Directory
	router  *Broadcaster
	log     *slog.Logger
	out     *outbox
	limiter *rateLimiter
	drain   time.Duration

	state atomic.Int32

	mu   sync.RWMutex
	name string

	closeConnOnce sync.Once
	finishOnce    sync.Once
	writerDone    chan struct{}
	done          chan struct{}
}

// NewSession prepares a session for conn. Nothing is read or written until
// Run is called.
func NewSession(conn Conn, dir Directory, router *Broadcaster, log *slog.Logger, cfg SessionConfig) *Session {
	id := uuid.NewString()
	drain := cfg.DrainTimeout
	if drain <= 0 {
		drain = DefaultDrainTimeout
	}
	return &Session{
		id:         id,
		conn:       conn,
		dir:        dir,
		router:     router,
		log:        log.With("session", id, "addr", conn.RemoteAddr()),
		out:        newOutbox(cfg.OutboxSize),
		limiter:    newRateLimiter(cfg.RateLimit),
		drain:      drain,
		writerDone: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string { return s.id }

// Name returns the registered username, or "" while negotiating.
func (s *Session) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

// State returns the current lifecycle state.
func (s *Session) State() State { return State(s.state.Load()) }

// Done is closed once the session reached StateClosed.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close tears down the connection. The session goroutine notices the failed
// read and runs its normal cleanup.
func (s *Session) Close() {
	s.closeConn()
}

// Run blocks until the peer disconnects, sends /quit, or the connection fails.
// Cleanup runs exactly once on every path.
func (s *Session) Run() {
	defer s.finish()

	go s.write()

	s.setState(StateNegotiating)
	name, ok := s.negotiate()
	if !ok {
		return
	}

	s.mu.Lock()
	s.name = name
	s.mu.Unlock()
	s.setState(StateActive)

	s.log.Info("User joined", "user", name)
	s.router.Broadcast(JoinLine(name), name)

	s.serve(name)
}

// negotiate prompts until a free, non-empty username is registered, and
// queues the welcome as the first line the new name receives. It reports
// false when the peer went away first.
func (s *Session) negotiate() (string, bool) {
	s.reply(PromptUsername)
	for {
		line, err := s.conn.ReadLine()
		if err != nil {
			s.logReadError(err)
			return "", false
		}

		name := strings.TrimSpace(line)
		if name == "" {
			s.reply(RetryUsername)
			continue
		}
		registered := s.out.admit(WelcomeLine(name), func() bool {
			return s.dir.Register(name, s.out)
		})
		if registered {
			return name, true
		}
		s.reply(RetryUsername)
	}
}

func (s *Session) serve(name string) {
	for {
		line, err := s.conn.ReadLine()
		if err != nil {
			s.logReadError(err)
			return
		}

		cmd, err := ParseCommand(line)
		if errors.Is(err, ErrEmptyLine) {
			continue
		}
		if _, quit := cmd.(Quit); !quit && !s.limiter.allow() {
			s.log.Warn("Rate limit exceeded; discarding line", "user", name)
			s.reply(RateLimitNotice)
			continue
		}
		if errors.Is(err, ErrPrivateMessageUsage) {
			s.reply(UsagePrivate)
			continue
		}

		if !s.dispatch(name, cmd) {
			return
		}
	}
}

// dispatch executes cmd and reports whether the session should keep reading.
func (s *Session) dispatch(name string, cmd Command) bool {
	switch c := cmd.(type) {
	case Quit:
		s.reply(QuitAck)
		return false
	case List:
		s.reply(UserListLine(s.dir.Names()))
	case PrivateMessage:
		err := s.router.SendPrivate(c.Target, PrivateFromLine(name, c.Body))
		switch {
		case err == nil:
			s.reply(PrivateToLine(c.Target, c.Body))
		case errors.Is(err, ErrOutboxFull):
			s.reply(PrivateUndeliveredLine(c.Target))
		default:
			// a closed outbox means the target is already leaving
			s.reply(UserNotFoundLine(c.Target))
		}
	case Broadcast:
		n := s.router.Broadcast(ChatLine(name, c.Body), name)
		s.log.Debug("Broadcast message", "user", name, "recipients", n)
	}
	return true
}

// reply queues line for this session's own peer.
func (s *Session) reply(line string) {
	if err := s.out.Send(line); err != nil {
		s.log.Debug("Reply dropped", "error", err)
	}
}

// write is the only goroutine that writes to conn.
func (s *Session) write() {
	defer close(s.writerDone)

	for line := range s.out.queue {
		if err := s.conn.WriteLine(line); err != nil {
			s.log.Debug("Write failed; closing connection", "error", err)
			s.closeConn()
			for range s.out.queue {
			}
			return
		}
	}
}

func (s *Session) finish() {
	s.finishOnce.Do(func() {
		s.setState(StateClosing)

		if name := s.Name(); name != "" {
			s.dir.Unregister(name)
			s.router.Broadcast(LeaveLine(name), name)
			s.log.Info("User left", "user", name)
		}

		s.out.close()
		select {
		case <-s.writerDone:
		case <-time.After(s.drain):
			s.log.Warn("Outbox not drained before close", "timeout", s.drain)
		}
		s.closeConn()
		<-s.writerDone

		s.setState(StateClosed)
		close(s.done)
	})
}

func (s *Session) closeConn() {
	s.closeConnOnce.Do(func() {
		if err := s.conn.Close(); err != nil {
			s.log.Debug("Error closing connection", "error", err)
		}
	})
}

func (s *Session) logReadError(err error) {
	if errors.Is(err, io.EOF) {
		s.log.Info("Client disconnected")
		return
	}
	s.log.Warn("Read failed", "error", err)
}

func (s *Session) setState(state State) {
	s.state.Store(int32(state))
}
