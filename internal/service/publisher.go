package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/classhub/classhub-web/internal/config"
	"github.com/classhub/classhub-web/internal/queue"
)

// EventPublisher publishes payment result events.  Publishing is
// best-effort: callers log and ignore the returned error.
type EventPublisher interface {
	PublishPaymentResult(ctx context.Context, ev queue.PaymentResultEvent) error
}

// NopPublisher drops every event.  It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) PublishPaymentResult(context.Context, queue.PaymentResultEvent) error {
	return nil
}

// dialTimeout bounds the broker dial so a missing broker delays a result
// page by at most this long.
const dialTimeout = 2 * time.Second

// RabbitPublisher publishes to a durable RabbitMQ queue.  It dials per
// event; result pages are rare enough that a pooled connection is not worth
// its reconnect handling.
type RabbitPublisher struct {
	url   string
	queue string
}

// NewPublisher returns a RabbitPublisher when events are enabled and a
// NopPublisher otherwise.
func NewPublisher(cfg config.QueueConfig) EventPublisher {
	if !cfg.Enabled {
		return NopPublisher{}
	}
	return &RabbitPublisher{url: cfg.URL, queue: cfg.Queue}
}

// PublishPaymentResult sends ev as a persistent JSON message routed to the
// configured queue.  Any error is logged and returned.
func (p *RabbitPublisher) PublishPaymentResult(ctx context.Context, ev queue.PaymentResultEvent) error {
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
