package events

import (
	"context"
	"log/slog"
	"sync"

	"parkly/internal/domain"
)

// Publisher delivers drained aggregate events. Services depend on this
// interface so the outbox, the in-process bus, or a test fake can sit behind
// it interchangeably.
type Publisher interface {
	Publish(ctx context.Context, events ...domain.Event) error
}

// Handler reacts to a single domain event.
type Handler interface {
	Handle(ctx context.Context, event domain.Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, event domain.Event) error

func (f HandlerFunc) Handle(ctx context.Context, event domain.Event) error {
	return f(ctx, event)
}

// Bus is the in-process dispatcher for the cross-aggregate consistency
// reactions. Events dispatch in publication order; handlers for the same
// event run sequentially in registration order. A failing handler is logged
// and does not stop the remaining handlers: reactions are best-effort
// follow-ups, not part of the originating transaction.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
	onError  func(eventName string)
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithErrorCounter installs a callback invoked once per failed handler,
// typically a metrics counter.
func WithErrorCounter(fn func(eventName string)) BusOption {
	return func(b *Bus) { b.onError = fn }
}

func NewBus(logger *slog.Logger, opts ...BusOption) *Bus {
	b := &Bus{
		handlers: make(map[string][]Handler),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Register subscribes a handler to one event name.
func (b *Bus) Register(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches each event to its registered handlers synchronously.
func (b *Bus) Publish(ctx context.Context, events ...domain.Event) error {
	for _, event := range events {
		b.mu.RLock()
		handlers := b.handlers[event.EventName()]
		b.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler.Handle(ctx, event); err != nil {
				b.logger.Warn("event handler failed",
					"event", event.EventName(),
					"aggregate_id", event.AggregateID(),
					"error", err,
				)
				if b.onError != nil {
					b.onError(event.EventName())
				}
			}
		}
	}
	return nil
}
