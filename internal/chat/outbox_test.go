package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOutbox_Drops_When_Full_And_Refuses_When_Closed(t *testing.T) {
	req := require.New(t)
	out := newOutbox(2)

	req.NoError(out.Send("one"))
	req.NoError(out.Send("two"))
	req.ErrorIs(out.Send("three"), ErrOutboxFull)

	out.close()
	out.close()
	req.ErrorIs(out.Send("four"), ErrOutboxClosed)

	var drained []string
	for line := range out.queue {
		drained = append(drained, line)
	}
	req.Equal([]string{"one", "two"}, drained)
}

func TestOutbox_Admit_Queues_First_Line_Ahead_Of_Concurrent_Senders(t *testing.T) {
	req := require.New(t)
	out := newOutbox(4)
	sent := make(chan error, 1)

	// Given a sender racing the registration
	admitted := out.admit("welcome", func() bool {
		go func() { sent <- out.Send("early") }()
		time.Sleep(20 * time.Millisecond)
		return true
	})

	// Then the first line still leads
	req.True(admitted)
	req.NoError(<-sent)
	req.Equal("welcome", <-out.queue)
	req.Equal("early", <-out.queue)
}

func TestOutbox_Admit_Refused(t *testing.T) {
	req := require.New(t)
	out := newOutbox(4)

	req.False(out.admit("welcome", func() bool { return false }))
	req.NoError(out.Send("next"))
	req.Equal("next", <-out.queue)

	out.close()
	req.False(out.admit("welcome", func() bool {
		t.Fatal("register must not run on a closed outbox")
		return true
	}))
}
