// Package events is the storefront's domain event bus: Watermill over the
// MySQL store, with a transactional outbox.
//
// Repositories publish inside the same *sql.Tx as the business write
// (PublishTx), so an order row and its order.placed event commit or roll back
// together. Those messages land on the forwarder queue; the worker process
// runs the Forwarder, which moves them to their real topics, and subscribes
// to the topics it handles.
//
// Handlers must be idempotent. A failing handler is retried with exponential
// backoff and then Nacked for redelivery.
package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/gamercart/pkg/logger"
)

const (
	maxRetries      = 3
	retryBaseDelay  = time.Second
	shutdownTimeout = 30 * time.Second
	forwarderTopic  = "outbox_forwarder"
)

// ErrNoBus is returned by Publish calls on a nil *EventBus.
var ErrNoBus = errors.New("events: bus not configured")

// Handler processes one message. The context carries the publisher's trace.
type Handler func(ctx context.Context, msg *message.Message) error

// EventBus publishes and consumes domain events stored in MySQL tables.
// It does not own the *sql.DB it was given.
type EventBus struct {
	db            *sql.DB
	publisher     message.Publisher
	subscriber    *watermillsql.Subscriber
	fwd           *forwarder.Forwarder
	log           logger.Logger
	consumerGroup string
	wg            sync.WaitGroup
}

// NewEventBus builds the outbox publisher and a subscriber in consumerGroup.
// Instances sharing a consumer group split the messages between them.
func NewEventBus(db *sql.DB, consumerGroup string, log logger.Logger) (*EventBus, error) {
	wlog := newWatermillLogger(log)

	pub, err := newSQLPublisher(db, true, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: new publisher: %w", err)
	}

	sub, err := newSQLSubscriber(db, consumerGroup, wlog)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("events: new subscriber: %w", err)
	}

	return &EventBus{
		db:            db,
		publisher:     forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic}),
		subscriber:    sub,
		log:           log,
		consumerGroup: consumerGroup,
	}, nil
}

func newSQLPublisher(db watermillsql.ContextExecutor, autoInit bool, wlog *watermillLogger) (*watermillsql.Publisher, error) {
	return watermillsql.NewPublisher(db, watermillsql.PublisherConfig{
		SchemaAdapter:        watermillsql.DefaultMySQLSchema{},
		AutoInitializeSchema: autoInit,
	}, wlog)
}

func newSQLSubscriber(db *sql.DB, consumerGroup string, wlog *watermillLogger) (*watermillsql.Subscriber, error) {
	return watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    watermillsql.DefaultMySQLSchema{},
		OffsetsAdapter:   watermillsql.DefaultMySQLOffsetsAdapter{},
		InitializeSchema: true,
		ConsumerGroup:    consumerGroup,
	}, wlog)
}

// StartForwarder runs the daemon that drains the outbox queue into the real
// topics. Only the worker process calls it, once.
func (b *EventBus) StartForwarder(ctx context.Context) error {
	if b.fwd != nil {
		return errors.New("events: forwarder already started")
	}
	wlog := newWatermillLogger(b.log)

	fwdSub, err := newSQLSubscriber(b.db, "outbox-forwarder", wlog)
	if err != nil {
		return fmt.Errorf("events: new forwarder subscriber: %w", err)
	}
	targetPub, err := newSQLPublisher(b.db, true, wlog)
	if err != nil {
		_ = fwdSub.Close()
		return fmt.Errorf("events: new forwarder publisher: %w", err)
	}
	fwd, err := forwarder.NewForwarder(fwdSub, targetPub, wlog, forwarder.Config{ForwarderTopic: forwarderTopic})
	if err != nil {
		_ = targetPub.Close()
		_ = fwdSub.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	b.fwd = fwd

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.log.InfoContext(ctx, "events: forwarder started")
		if err := fwd.Run(ctx); err != nil {
			b.log.ErrorContext(ctx, "events: forwarder stopped", "error", err)
		}
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// Publish sends msgs to topic outside any business transaction.
func (b *EventBus) Publish(ctx context.Context, topic string, msgs ...*message.Message) error {
	if b == nil {
		return ErrNoBus
	}
	injectTrace(ctx, msgs)
	if err := b.publisher.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

// PublishTx writes msgs into the outbox within tx. They become visible to
// consumers only if tx commits.
func (b *EventBus) PublishTx(ctx context.Context, tx *sql.Tx, topic string, msgs ...*message.Message) error {
	if b == nil {
		return ErrNoBus
	}
	pub, err := newSQLPublisher(tx, false, newWatermillLogger(b.log))
	if err != nil {
		return fmt.Errorf("events: new tx publisher: %w", err)
	}
	outbox := forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})

	injectTrace(ctx, msgs)
	if err := outbox.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s: %w", topic, err)
	}
	return nil
}

func injectTrace(ctx context.Context, msgs []*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

// Subscribe consumes topic in the background until ctx is done.
//
//   - handler returns nil   → Ack
//   - handler returns error → retried 3 times (1s, 2s, 4s), then Nack and the
//     error is sent on the returned channel
//
// The error channel is buffered; callers must drain it.
func (b *EventBus) Subscribe(ctx context.Context, topic string, handler Handler) (<-chan error, error) {
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, 100)
	propagator := otel.GetTextMapPropagator()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(errCh)

		for msg := range ch {
			carrier := propagation.MapCarrier{}
			for k, v := range msg.Metadata {
				carrier[k] = v
			}
			msgCtx := propagator.Extract(ctx, carrier)

			if err := retryWithBackoff(msgCtx, msg, handler, maxRetries, retryBaseDelay, b.log); err != nil {
				msg.Nack()
				select {
				case errCh <- fmt.Errorf("%s: %w", topic, err):
				default:
					b.log.ErrorContext(msgCtx, "events: error channel full, dropping error", "error", err, "topic", topic)
				}
				continue
			}
			msg.Ack()
		}
	}()

	return errCh, nil
}

func retryWithBackoff(ctx context.Context, msg *message.Message, handler Handler, attempts int, delay time.Duration, log logger.Logger) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = handler(ctx, msg); err == nil {
			return nil
		}
		if attempt == attempts {
			break
		}
		log.WarnContext(ctx, "events: handler failed, retrying",
			"attempt", attempt, "next_delay", delay, "message_uuid", msg.UUID, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("events: handler failed after %d attempts: %w", attempts, err)
}

// Ping checks the database that stores the event tables.
func (b *EventBus) Ping(ctx context.Context) error {
	if err := b.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops consuming, waits for in-flight handlers (bounded) and closes the
// publisher. The *sql.DB stays open; its owner closes it.
func (b *EventBus) Close() error {
	if err := b.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if b.fwd != nil {
		if err := b.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
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

	if err := b.publisher.Close(); err != nil {
		return fmt.Errorf("events: close publisher: %w", err)
	}
	return nil
}
