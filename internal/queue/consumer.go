// Package queue contains the background consumer that listens to the
// lookup-miss queue and appends structured lines to lookup_miss.log.
package queue

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/lagos-signal-directory/internal/config"
    "github.com/iliyamo/lagos-signal-directory/internal/logger"
)

// MissLogFile is the file name the consumer appends to inside the log dir.
const MissLogFile = "lookup_miss.log"

// StartMissConsumer connects to RabbitMQ, declares the miss queue (durable)
// and consumes it forever.  Broker failures trigger a reconnect with
// exponential backoff capped at 30s; a message that cannot be handled is
// rejected without requeue so one bad payload cannot stall the queue.
func StartMissConsumer(cfg config.EventsConfig) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(cfg.URL)
        if err != nil {
            logger.L().Warnf("miss-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
            time.Sleep(backoff)
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second

        if err := consumeLoop(conn, cfg); err != nil {
            logger.L().Warnf("miss-consumer: consume loop ended: %v; reconnecting", err)
            _ = conn.Close()
            time.Sleep(2 * time.Second)
            continue
        }
    }
}

func consumeLoop(conn *amqp.Connection, cfg config.EventsConfig) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        logger.L().Warnf("miss-consumer: set QoS failed: %v", err)
    }

    if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }

    msgs, err := ch.Consume(cfg.Queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for d := range msgs {
        if err := HandleMessage(cfg.LogDir, d.Body); err != nil {
            logger.L().Errorf("miss-consumer: handle message failed: %v", err)
            _ = d.Nack(false, false)
            continue
        }
        _ = d.Ack(false)
    }
    return errors.New("deliveries channel closed")
}

// HandleMessage decodes one event and appends it to dir/lookup_miss.log.
func HandleMessage(dir string, body []byte) error {
    var ev LookupMissedEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Kind == "" {
        return errors.New("event without kind")
    }
    if err := os.MkdirAll(dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", dir, err)
    }
    f, err := os.OpenFile(filepath.Join(dir, MissLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(FormatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// FormatLine renders an event as a single human-friendly log line.
func FormatLine(ev LookupMissedEvent) string {
    line := fmt.Sprintf("[%s] Lookup missed | kind=%s | query=%q", ev.MissedAt, ev.Kind, ev.Query)
    if ev.Location != "" {
        line += fmt.Sprintf(" | location=%q", ev.Location)
    }
    if ev.Network != "" {
        line += fmt.Sprintf(" | network=%q", ev.Network)
    }
    if ev.RequestID != "" {
        line += " | request_id=" + ev.RequestID
    }
    return line + "\n"
}
