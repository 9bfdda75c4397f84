package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Handler receives a published event.
type Handler func(ctx context.Context, routingKey string, payload []byte)

// InProcessBus delivers events synchronously to subscribed handlers. Used in
// local mode (no RabbitMQ) and in tests.
type InProcessBus struct {
	logger *slog.Logger

	mu       sync.Mutex
	handlers map[string][]Handler
}

// NewInProcessBus creates a new in-process bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{
		logger:   logger,
		handlers: make(map[string][]Handler),
	}
}

// Subscribe registers a handler for a routing key.
func (b *InProcessBus) Subscribe(routingKey string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[routingKey] = append(b.handlers[routingKey], handler)
}

// Publish dispatches the event synchronously to all handlers for the key.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.Lock()
	handlers := append([]Handler(nil), b.handlers[routingKey]...)
	b.mu.Unlock()

	for _, handler := range handlers {
		handler(ctx, routingKey, payload)
	}

	b.logger.Debug("event dispatched",
		"routing_key", routingKey,
		"handlers", len(handlers),
	)
	return nil
}

// Close is a no-op for the in-process bus.
func (b *InProcessBus) Close() error {
	return nil
}

// NoopPublisher is a publisher that does nothing, for disabled event output.
type NoopPublisher struct{}

// Publish discards the event.
func (NoopPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	return nil
}

// Close is a no-op.
func (NoopPublisher) Close() error { return nil }
