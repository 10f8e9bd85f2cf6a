package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/timeclock/backend/internal/domain/shared"
	"github.com/timeclock/backend/internal/infrastructure/config"
)

const redisConnectTimeout = 5 * time.Second

// RedisBroadcaster implements shared.Broadcaster over Redis Pub/Sub so engine
// instances in different processes see each other's updates. Delivery is
// best-effort: Redis Pub/Sub drops messages for absent subscribers, which
// matches the availability-over-consistency contract of the update channel.
type RedisBroadcaster struct {
	client     *redis.Client
	ownsClient bool
	logger     *zap.Logger

	mu     sync.Mutex
	cancel []context.CancelFunc
	closed bool
}

// RedisBroadcasterOption is a functional option for configuring the broadcaster
type RedisBroadcasterOption func(*RedisBroadcaster)

// WithBroadcasterLogger sets the logger for the broadcaster
func WithBroadcasterLogger(logger *zap.Logger) RedisBroadcasterOption {
	return func(b *RedisBroadcaster) {
		b.logger = logger
	}
}

// NewRedisBroadcaster dials Redis and returns a broadcaster owning the client
func NewRedisBroadcaster(cfg config.RedisConfig, opts ...RedisBroadcasterOption) (*RedisBroadcaster, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	b := &RedisBroadcaster{
		client:     client,
		ownsClient: true,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// NewRedisBroadcasterWithClient wraps an existing client; the caller retains
// ownership of the client and is responsible for closing it.
func NewRedisBroadcasterWithClient(client *redis.Client, opts ...RedisBroadcasterOption) *RedisBroadcaster {
	b := &RedisBroadcaster{
		client: client,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Broadcast publishes payload to topic on the shared Redis channel
func (b *RedisBroadcaster) Broadcast(ctx context.Context, topic string, payload []byte) error {
	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("redis publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe starts a delivery goroutine for topic and returns its unsubscribe
func (b *RedisBroadcaster) Subscribe(topic string, fn func(payload []byte)) (func(), error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, fmt.Errorf("broadcaster is closed")
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = append(b.cancel, cancel)
	b.mu.Unlock()

	sub := b.client.Subscribe(ctx, topic)
	// Force the subscription to establish before returning
	if _, err := sub.Receive(ctx); err != nil {
		cancel()
		return nil, fmt.Errorf("redis subscribe to %s: %w", topic, err)
	}

	ch := sub.Channel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fn([]byte(msg.Payload))
			}
		}
	}()

	return func() {
		cancel()
		if err := sub.Close(); err != nil {
			b.logger.Warn("failed to close redis subscription",
				zap.String("topic", topic),
				zap.Error(err),
			)
		}
		<-done
	}, nil
}

// Close cancels every subscription and closes the client if owned
func (b *RedisBroadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	for _, cancel := range b.cancel {
		cancel()
	}
	if b.ownsClient {
		return b.client.Close()
	}
	return nil
}

var _ shared.Broadcaster = (*RedisBroadcaster)(nil)
