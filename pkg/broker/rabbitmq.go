// Package broker publishes domain events to RabbitMQ.
package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// dialTimeout caps the TCP connect and AMQP handshake of one publish.
const dialTimeout = 5 * time.Second

// Publisher sends one JSON message to a durable queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, payload any) error
}

type rabbitPublisher struct {
	url    string
	config amqp.Config
	log    *zap.Logger
}

// NewRabbitPublisher dials the broker per message. Booking confirmations are
// rare enough that a long-lived channel is not worth the reconnect handling.
func NewRabbitPublisher(url string, log *zap.Logger) Publisher {
	return &rabbitPublisher{
		url: url,
		config: amqp.Config{
			Dial:      amqp.DefaultDial(dialTimeout),
			Heartbeat: 10 * time.Second,
			Locale:    "en_US",
		},
		log: log.With(zap.String("broker", "rabbitmq")),
	}
}

func (p *rabbitPublisher) Publish(ctx context.Context, queue string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", queue, err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", queue, err)
	}

	conn, err := amqp.DialConfig(p.url, p.config)
	if err != nil {
		p.log.Error("Failed to dial broker", zap.Error(err))
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Error("Failed to open channel", zap.Error(err))
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.log.Error("Failed to declare queue", zap.Error(err), zap.String("queue", queue))
		return fmt.Errorf("declare queue %s: %w", queue, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		p.log.Error("Failed to publish message", zap.Error(err), zap.String("queue", queue))
		return fmt.Errorf("publish to %s: %w", queue, err)
	}

	p.log.Debug("Message published", zap.String("queue", queue), zap.Int("bytes", len(body)))
	return nil
}
