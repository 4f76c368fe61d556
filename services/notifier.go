package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Notification routing keys consumed by the email-notification worker.
const (
	NotifyMailReceived     = "mail.received"
	NotifyMatchCreated     = "match.created"
	NotifyBookingConfirmed = "booking.confirmed"
	NotifyBookingCancelled = "booking.cancelled"
	NotifySessionEnded     = "session.ended"
)

// DefaultNotifier is wired in main when AMQP_URL is configured. A nil
// notifier drops every event, so the service runs without a broker in
// development.
var DefaultNotifier *Notifier

// Notifier publishes notification events to a RabbitMQ topic exchange.
type Notifier struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   *slog.Logger
}

func NewNotifier(amqpURL, exchange string, logger *slog.Logger) (*Notifier, error) {
	if amqpURL == "" {
		return nil, nil
	}

	conn, err := amqp091.Dial(amqpURL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &Notifier{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// Publish sends an event with the given routing key. Failures are logged,
// not returned: notifications never block the business operation.
func (n *Notifier) Publish(ctx context.Context, routingKey string, body interface{}) {
	if n == nil {
		return
	}

	payload, err := json.Marshal(body)
	if err != nil {
		n.logger.Error("failed to marshal notification", "routing_key", routingKey, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = n.channel.PublishWithContext(ctx,
		n.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         payload,
		})
	if err != nil {
		n.logger.Error("failed to publish notification", "routing_key", routingKey, "error", err)
	}
}

func (n *Notifier) Close() {
	if n == nil {
		return
	}
	if n.channel != nil {
		n.channel.Close()
	}
	if n.conn != nil {
		n.conn.Close()
	}
}
