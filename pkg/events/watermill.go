// Package events is the in-process pub/sub bus, built on Watermill's
// gochannel transport.
//
// A subscriber receives every message published to its topic after it
// subscribed. Nothing is persisted, so a restart drops undelivered messages.
// Failed handlers are retried with exponential backoff; a message whose
// retries run out is reported on the subscription's error channel and then
// acknowledged. Trace context travels in message metadata, so handler spans
// join the publisher's trace.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/itemstore/pkg/logger"
)

const (
	maxRetries      = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	outputBuffer    = 64
	errBuffer       = 100
)

// ErrClosed is returned by Publish, Subscribe and Ping after Close.
var ErrClosed = errors.New("events: bus closed")

// Handler processes one message. A non-nil error triggers a retry.
type Handler func(ctx context.Context, msg *message.Message) error

// EventBus is an in-process pub/sub bus.
type EventBus struct {
	pubsub *gochannel.GoChannel
	log    logger.Logger
	retry  retryPolicy
	wg     sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewEventBus returns a ready EventBus. Call Close on shutdown.
func NewEventBus(log logger.Logger) *EventBus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: outputBuffer},
		watermill.NewSlogLogger(log.With("component", "events").ToSlog()),
	)
	return &EventBus{
		pubsub: pubsub,
		log:    log,
		retry:  retryPolicy{attempts: maxRetries, baseDelay: retryBaseDelay},
	}
}

// Publish sends msgs to topic, stamping each with the trace context of ctx.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	for _, msg := range msgs {
		injectTrace(ctx, msg)
	}
	if err := b.pubsub.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// Subscribe runs handler for every message on topic in a background
// goroutine until ctx is canceled or the bus is closed.
//
// The returned channel receives one error per message that exhausted its
// retries. It is buffered, closed when the subscription ends, and must be
// drained by the caller.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, ErrClosed
	}

	ch, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errBuffer)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)
		for msg := range ch {
			b.deliver(ctx, topic, msg, handler, errCh)
		}
	}()
	return errCh, nil
}

// deliver always Acks: gochannel redelivers a Nacked message immediately
// and without limit.
func (b *EventBus) deliver(ctx context.Context, topic string, msg *message.Message, handler Handler, errCh chan<- error) {
	defer msg.Ack()

	msgCtx := extractTrace(ctx, msg)
	err := b.retry.run(msgCtx, b.log, func(ctx context.Context) error {
		return handler(ctx, msg)
	})
	if err == nil {
		return
	}
	select {
	case errCh <- fmt.Errorf("%s message %s: %w", topic, msg.UUID, err):
	default:
		b.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
			"topic", topic, "message_id", msg.UUID, "error", err)
	}
}

// Ping reports whether the bus still accepts messages.
func (b *EventBus) Ping(_ context.Context) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}
	return nil
}

// Close stops all subscriptions and waits up to 30 s for in-flight handlers.
// Later calls are no-ops.
func (b *EventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	if err := b.pubsub.Close(); err != nil {
		return fmt.Errorf("events: close pubsub: %w", err)
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		b.log.Error("events: timed out waiting for in-flight handlers")
	}
	return nil
}

// retryPolicy runs a function up to attempts times, doubling the pause
// after each failure.
type retryPolicy struct {
	attempts  int
	baseDelay time.Duration
}

func (p retryPolicy) run(ctx context.Context, log logger.Logger, fn func(context.Context) error) error {
	delay := p.baseDelay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt >= p.attempts {
			return fmt.Errorf("handler failed after %d attempts: %w", p.attempts, err)
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt, "next_delay", delay, "error", err)

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}

// message.Metadata and propagation.MapCarrier share an underlying type.

func injectTrace(ctx context.Context, msg *message.Message) {
	if msg.Metadata == nil {
		msg.Metadata = make(message.Metadata)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(msg.Metadata))
}

func extractTrace(ctx context.Context, msg *message.Message) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(msg.Metadata))
}
