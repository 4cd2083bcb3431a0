// Package service provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package service

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "net"
    "sync"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/lagos-signal-directory/internal/config"
    "github.com/iliyamo/lagos-signal-directory/internal/logger"
    "github.com/iliyamo/lagos-signal-directory/internal/metrics"
    q "github.com/iliyamo/lagos-signal-directory/internal/queue"
)

// MissPublisher publishes lookup-miss events.
type MissPublisher interface {
    PublishMiss(ctx context.Context, ev q.LookupMissedEvent) error
}

// NopPublisher drops every event.  It is used when events are disabled.
type NopPublisher struct{}

// PublishMiss implements MissPublisher.
func (NopPublisher) PublishMiss(context.Context, q.LookupMissedEvent) error { return nil }

// ErrBrokerBackoff is returned while the publisher waits out a failed
// connect instead of dialing again.
var ErrBrokerBackoff = errors.New("rabbitmq: waiting before reconnect")

// NewMissPublisher returns a NopPublisher when events are disabled.
// Otherwise it returns a RabbitMQ publisher behind an AsyncPublisher, so
// callers never wait on the broker.
func NewMissPublisher(cfg config.EventsConfig) MissPublisher {
    if !cfg.Enabled {
        return NopPublisher{}
    }
    return NewAsyncPublisher(NewRabbitPublisher(cfg), cfg.Buffer, cfg.Timeout)
}

// RabbitPublisher keeps one connection and channel open and reopens them
// after any failure.  Messages are persistent on a durable queue.
type RabbitPublisher struct {
    url     string
    queue   string
    backoff time.Duration

    mu      sync.Mutex
    conn    *amqp.Connection
    ch      *amqp.Channel
    retryAt time.Time
    now     func() time.Time
}

// NewRabbitPublisher builds a publisher; nothing is dialed until the first event.
func NewRabbitPublisher(cfg config.EventsConfig) *RabbitPublisher {
    return &RabbitPublisher{url: cfg.URL, queue: cfg.Queue, backoff: cfg.Backoff, now: time.Now}
}

// dialContext returns a dialer for amqp.Config that gives up when ctx ends
// and bounds the AMQP handshake by the ctx deadline.  The library clears
// the deadline once the connection is open.
func dialContext(ctx context.Context) func(network, addr string) (net.Conn, error) {
    return func(network, addr string) (net.Conn, error) {
        var d net.Dialer
        conn, err := d.DialContext(ctx, network, addr)
        if err != nil {
            return nil, err
        }
        if dl, ok := ctx.Deadline(); ok {
            if err := conn.SetDeadline(dl); err != nil {
                _ = conn.Close()
                return nil, err
            }
        }
        return conn, nil
    }
}

func (p *RabbitPublisher) channel(ctx context.Context) (*amqp.Channel, error) {
    if p.ch != nil {
        return p.ch, nil
    }
    if now := p.now(); now.Before(p.retryAt) {
        return nil, fmt.Errorf("%w (%s left)", ErrBrokerBackoff, p.retryAt.Sub(now).Round(time.Millisecond))
    }
    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      dialContext(ctx),
    })
    if err != nil {
        p.retryAt = p.now().Add(p.backoff)
        return nil, err
    }
    ch, err := conn.Channel()
    if err != nil {
        _ = conn.Close()
        return nil, err
    }
    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        p.queue, // name
        true,    // durable
        false,   // autoDelete
        false,   // exclusive
        false,   // noWait
        nil,     // args
    ); err != nil {
        _ = ch.Close()
        _ = conn.Close()
        return nil, err
    }
    p.conn, p.ch = conn, ch
    return ch, nil
}

func (p *RabbitPublisher) reset() {
    if p.ch != nil {
        _ = p.ch.Close()
    }
    if p.conn != nil {
        _ = p.conn.Close()
    }
    p.conn, p.ch = nil, nil
}

// PublishMiss implements MissPublisher.
func (p *RabbitPublisher) PublishMiss(ctx context.Context, ev q.LookupMissedEvent) error {
    body, err := json.Marshal(ev)
    if err != nil {
        logger.L().Errorf("rabbitmq: marshal event failed: %v", err)
        return err
    }

    p.mu.Lock()
    defer p.mu.Unlock()

    ch, err := p.channel(ctx)
    if err != nil {
        if !errors.Is(err, ErrBrokerBackoff) {
            logger.L().Warnf("rabbitmq: connect failed: %v", err)
        }
        metrics.MissEventsTotal.WithLabelValues("error").Inc()
        return err
    }
    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx,
        "",      // default exchange
        p.queue, // routing key = queue name
        false,   // mandatory
        false,   // immediate
        pub,
    ); err != nil {
        logger.L().Warnf("rabbitmq: publish failed: %v", err)
        metrics.MissEventsTotal.WithLabelValues("error").Inc()
        p.reset()
        return err
    }
    metrics.MissEventsTotal.WithLabelValues("published").Inc()
    return nil
}

// Close releases the broker connection.
func (p *RabbitPublisher) Close() error {
    p.mu.Lock()
    defer p.mu.Unlock()
    p.reset()
    return nil
}
