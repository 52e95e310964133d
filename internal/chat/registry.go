package chat

import (
	"sync"

	"github.com/samber/lo"
)

// Entry pairs a username with the sink of the session that owns it.
type Entry struct {
	Name string
	Sink Sink
}

// Registry maps online usernames to their session sinks. Names are kept in
// registration order so listings are stable between calls.
type Registry struct {
	mu    sync.RWMutex
	sinks map[string]Sink
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[string]Sink),
	}
}

// Register stores sink under name only if the name is free. It reports
// whether the registration took place.
func (r *Registry) Register(name string, sink Sink) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.sinks[name]; taken {
		return false
	}
	r.sinks[name] = sink
	r.order = append(r.order, name)
	return true
}

// Unregister removes name. Removing an absent name is a no-op.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sinks[name]; !ok {
		return
	}
	delete(r.sinks, name)
	r.order = lo.Without(r.order, name)
}

// Lookup returns the sink registered under name.
func (r *Registry) Lookup(name string) (Sink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sink, ok := r.sinks[name]
	return sink, ok
}

// Names returns the online usernames in registration order, read at a single
// instant.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Snapshot returns every entry in registration order, read at a single
// instant. Sends to the returned sinks happen outside the registry lock.
func (r *Registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Map(r.order, func(name string, _ int) Entry {
		return Entry{Name: name, Sink: r.sinks[name]}
	})
}

// Len returns the number of online users.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sinks)
}
