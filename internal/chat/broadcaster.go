package chat

import (
	"log/slog"

	"github.com/samber/lo"
)

// Broadcaster routes lines to registered sessions. It holds no state of its
// own; every call works on the directory's current snapshot.
type Broadcaster struct {
	dir Directory
	log *slog.Logger
}

// NewBroadcaster returns a Broadcaster reading from dir.
func NewBroadcaster(dir Directory, log *slog.Logger) *Broadcaster {
	return &Broadcaster{dir: dir, log: log}
}

// Broadcast sends line to every online user except exclude. An empty exclude
// reaches everyone. A failed send to one recipient does not stop the others.
// It returns the number of recipients the line was queued for.
func (b *Broadcaster) Broadcast(line, exclude string) int {
	recipients := lo.Filter(b.dir.Snapshot(), func(e Entry, _ int) bool {
		return e.Name != exclude
	})

	delivered := 0
	for _, recipient := range recipients {
		if err := recipient.Sink.Send(line); err != nil {
			b.log.Debug("Broadcast delivery failed", "recipient", recipient.Name, "error", err)
			continue
		}
		delivered++
	}
	return delivered
}

// SendPrivate sends line to target only. It returns ErrUserNotFound when
// target is not online, or the sink error when its queue refused the line.
func (b *Broadcaster) SendPrivate(target, line string) error {
	sink, ok := b.dir.Lookup(target)
	if !ok {
		return ErrUserNotFound
	}
	if err := sink.Send(line); err != nil {
		b.log.Debug("Private delivery failed", "recipient", target, "error", err)
		return err
	}
	return nil
}
