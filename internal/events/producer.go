// Package events publishes domain events for the external notification layer.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Routing keys for published events
const (
	RouteOTPRequested    = "recovery.otp.requested"
	RoutePasswordReset   = "recovery.password.reset"
	RouteTransferDone    = "ledger.transfer.completed"
	RouteAccountFrozen   = "account.frozen"
	RouteAccountUnfrozen = "account.unfrozen"
)

// Publisher is implemented by types that can publish domain events
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
	Close()
}

// Producer publishes events to a durable RabbitMQ topic exchange
type Producer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewProducer connects to RabbitMQ and declares the exchange
func NewProducer(amqpURL, exchange string) (*Producer, error) {
	conn, err := amqp.DialConfig(amqpURL, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %q: %w", exchange, err)
	}

	return &Producer{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish sends a JSON message to the exchange with the given routing key
func (p *Producer) Publish(ctx context.Context, routingKey string, body any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal event body: %w", err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now(),
			Body:        jsonBody,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %q: %w", routingKey, err)
	}

	return nil
}

// Close shuts down the channel and connection
func (p *Producer) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// NoopPublisher logs events instead of publishing them. Used when RabbitMQ is
// not configured or unavailable at startup so the service can still run.
type NoopPublisher struct {
	Logger *slog.Logger
}

func (p *NoopPublisher) Publish(_ context.Context, routingKey string, body any) error {
	if p.Logger != nil {
		p.Logger.Debug("event publishing disabled, dropping event", "routing_key", routingKey, "body", body)
	}
	return nil
}

func (p *NoopPublisher) Close() {}

var (
	_ Publisher = (*Producer)(nil)
	_ Publisher = (*NoopPublisher)(nil)
)
