package outbox

import (
	"context"
	"log/slog"
	"time"

	"parkly/internal/clock"
	"parkly/internal/domain"
	"parkly/internal/events"
)

const (
	defaultPollInterval = 200 * time.Millisecond
	defaultBatchSize    = 100
)

// Dispatcher drains pending outbox entries, decodes them, forwards them to
// the in-process bus (and any extra sinks such as kafka), then marks them
// dispatched. Entries whose sink delivery fails stay pending and are retried
// on the next tick; delivery is therefore at-least-once and handlers must
// tolerate replays.
type Dispatcher struct {
	store        Store
	bus          *events.Bus
	sinks        []events.Publisher
	clock        clock.Clock
	logger       *slog.Logger
	pollInterval time.Duration
	batchSize    int
	onDispatch   func(eventName string)
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithSink adds an extra publisher, such as the kafka producer, invoked
// after the in-process bus.
func WithSink(sink events.Publisher) DispatcherOption {
	return func(d *Dispatcher) { d.sinks = append(d.sinks, sink) }
}

// WithPollInterval overrides the drain cadence.
func WithPollInterval(interval time.Duration) DispatcherOption {
	return func(d *Dispatcher) { d.pollInterval = interval }
}

// WithDispatchCounter installs a callback invoked once per dispatched entry.
func WithDispatchCounter(fn func(eventName string)) DispatcherOption {
	return func(d *Dispatcher) { d.onDispatch = fn }
}

func NewDispatcher(store Store, bus *events.Bus, clk clock.Clock, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:        store,
		bus:          bus,
		clock:        clk,
		logger:       logger,
		pollInterval: defaultPollInterval,
		batchSize:    defaultBatchSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := d.Drain(ctx); err != nil {
				d.logger.Error("outbox drain failed", "error", err)
			}
		}
	}
}

// Drain processes one batch of pending entries. Exported so tests and the
// memory wiring can pump the outbox without a ticker.
func (d *Dispatcher) Drain(ctx context.Context) error {
	pending, err := d.store.PendingBatch(ctx, d.batchSize)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	dispatched := make([]int64, 0, len(pending))
	for _, entry := range pending {
		event, err := events.Decode(entry.EventName, entry.Payload)
		if err != nil {
			// Undecodable entries would wedge the queue; mark them
			// dispatched and move on.
			d.logger.Error("dropping undecodable outbox entry",
				"id", entry.ID, "event", entry.EventName, "error", err)
			dispatched = append(dispatched, entry.ID)
			continue
		}

		if err := d.deliver(ctx, event); err != nil {
			d.logger.Warn("outbox delivery failed, will retry",
				"id", entry.ID, "event", entry.EventName, "error", err)
			break
		}
		dispatched = append(dispatched, entry.ID)
		if d.onDispatch != nil {
			d.onDispatch(entry.EventName)
		}
	}

	if len(dispatched) == 0 {
		return nil
	}
	return d.store.MarkDispatched(ctx, dispatched, d.clock.Now())
}

// deliver fans one event out to the bus and every extra sink. The bus never
// fails (handler errors are contained there); sink errors propagate so the
// entry stays pending.
func (d *Dispatcher) deliver(ctx context.Context, event domain.Event) error {
	if err := d.bus.Publish(ctx, event); err != nil {
		return err
	}
	for _, sink := range d.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
