package shared

import (
	"context"
	"time"
)

// CancelHandle stops a scheduled callback. Cancel is idempotent.
type CancelHandle interface {
	Cancel()
}

// Scheduler is the injectable timer capability. Production wiring uses
// wall-clock timers; tests drive a virtual clock instead of sleeping.
type Scheduler interface {
	// After runs fn once after d elapses
	After(d time.Duration, fn func()) CancelHandle
	// Every runs fn repeatedly with period d until cancelled
	Every(d time.Duration, fn func()) CancelHandle
}

// Broadcaster is the cross-instance fan-out port: a best-effort pub/sub
// channel keyed by topic name. Engine instances broadcast real-time updates
// through it so other instances sharing the same store can refetch; a missed
// message is tolerable because periodic sync self-corrects within one
// interval.
type Broadcaster interface {
	// Broadcast publishes payload to every subscriber of topic, including
	// subscribers in other processes
	Broadcast(ctx context.Context, topic string, payload []byte) error
	// Subscribe registers fn for messages on topic and returns an
	// unsubscribe function. fn runs on the broadcaster's delivery goroutine.
	Subscribe(topic string, fn func(payload []byte)) (func(), error)
	// Close releases all subscriptions and underlying connections
	Close() error
}
