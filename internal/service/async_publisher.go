package service

import (
    "context"
    "errors"
    "io"
    "sync"
    "time"

    "github.com/iliyamo/lagos-signal-directory/internal/metrics"
    q "github.com/iliyamo/lagos-signal-directory/internal/queue"
)

// ErrMissQueueFull is returned when an event is dropped because the
// publisher has fallen behind.
var ErrMissQueueFull = errors.New("miss event queue full")

// ErrPublisherClosed is returned after Close.
var ErrPublisherClosed = errors.New("miss publisher closed")

// AsyncPublisher queues events for a single worker that forwards them to
// next, one at a time.  PublishMiss never blocks: when the queue is full
// the event is dropped.
type AsyncPublisher struct {
    next   MissPublisher
    wait   time.Duration
    events chan q.LookupMissedEvent
    stop   chan struct{}
    done   chan struct{}
    once   sync.Once
}

// NewAsyncPublisher starts the worker.  size is the queue capacity and
// wait bounds each forwarded publish.
func NewAsyncPublisher(next MissPublisher, size int, wait time.Duration) *AsyncPublisher {
    if size < 1 {
        size = 1
    }
    if wait <= 0 {
        wait = 3 * time.Second
    }
    a := &AsyncPublisher{
        next:   next,
        wait:   wait,
        events: make(chan q.LookupMissedEvent, size),
        stop:   make(chan struct{}),
        done:   make(chan struct{}),
    }
    go a.run()
    return a
}

// PublishMiss implements MissPublisher.  ctx is not used: the event
// outlives the request that produced it.
func (a *AsyncPublisher) PublishMiss(_ context.Context, ev q.LookupMissedEvent) error {
    select {
    case <-a.stop:
        return ErrPublisherClosed
    default:
    }
    select {
    case a.events <- ev:
        return nil
    default:
        metrics.MissEventsTotal.WithLabelValues("dropped").Inc()
        return ErrMissQueueFull
    }
}

func (a *AsyncPublisher) run() {
    defer close(a.done)
    for {
        select {
        case <-a.stop:
            return
        case ev := <-a.events:
            ctx, cancel := context.WithTimeout(context.Background(), a.wait)
            _ = a.next.PublishMiss(ctx, ev)
            cancel()
        }
    }
}

// Close stops the worker, discarding queued events, and closes next when
// it can be closed.  The publish in flight, if any, finishes first.
func (a *AsyncPublisher) Close() error {
    a.once.Do(func() { close(a.stop) })
    <-a.done
    if c, ok := a.next.(io.Closer); ok {
        return c.Close()
    }
    return nil
}
