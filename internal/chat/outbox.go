package chat

import "sync"

// outbox is the Sink of a session: a bounded FIFO drained by the session's
// single writer goroutine. Senders never block; a full queue drops the line.
type outbox struct {
	mu     sync.RWMutex
	closed bool
	queue  chan string
}

func newOutbox(size int) *outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &outbox{queue: make(chan string, size)}
}

// Send enqueues line for delivery.
func (o *outbox) Send(line string) error {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return ErrOutboxClosed
	}
	select {
	case o.queue <- line:
		return nil
	default:
		return ErrOutboxFull
	}
}

// admit runs register with the queue held, so no other sender can slip a line
// in between. When register reports true, first is queued ahead of anything
// sent afterwards.
func (o *outbox) admit(first string, register func() bool) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed || !register() {
		return false
	}
	select {
	case o.queue <- first:
	default:
	}
	return true
}

// close stops accepting lines. Lines already queued are still delivered.
func (o *outbox) close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.closed = true
	close(o.queue)
}
