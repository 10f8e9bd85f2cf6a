package event

import (
	"context"
	"sync"

	"github.com/timeclock/backend/internal/domain/shared"
)

// InProcessBroadcaster implements shared.Broadcaster for single-process deployments.
// Delivery is synchronous and loses nothing, which makes it the default for
// tests and for deployments without Redis.
type InProcessBroadcaster struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string]map[int]func([]byte)
	closed bool
}

// NewInProcessBroadcaster creates an in-process broadcaster
func NewInProcessBroadcaster() *InProcessBroadcaster {
	return &InProcessBroadcaster{subs: make(map[string]map[int]func([]byte))}
}

// Broadcast delivers payload to all subscribers of topic in this process
func (b *InProcessBroadcaster) Broadcast(_ context.Context, topic string, payload []byte) error {
	b.mu.RLock()
	fns := make([]func([]byte), 0, len(b.subs[topic]))
	for _, fn := range b.subs[topic] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(payload)
	}
	return nil
}

// Subscribe registers fn for topic
func (b *InProcessBroadcaster) Subscribe(topic string, fn func(payload []byte)) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]func([]byte))
	}
	id := b.nextID
	b.nextID++
	b.subs[topic][id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs[topic], id)
		if len(b.subs[topic]) == 0 {
			delete(b.subs, topic)
		}
	}, nil
}

// Close drops all subscriptions
func (b *InProcessBroadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = make(map[string]map[int]func([]byte))
	b.closed = true
	return nil
}

var _ shared.Broadcaster = (*InProcessBroadcaster)(nil)
