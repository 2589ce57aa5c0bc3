// Package events announces story lifecycle changes to other services.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bedtime-server/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher announces saved stories.
type Publisher interface {
	PublishStoryCreated(ctx context.Context, event domain.StoryCreatedEvent) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) PublishStoryCreated(context.Context, domain.StoryCreatedEvent) error { return nil }
func (Noop) Close() error                                                       { return nil }

// RabbitMQPublisher publishes JSON events to a durable fanout exchange.
type RabbitMQPublisher struct {
	ch       *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewRabbitMQPublisher opens a channel on conn and declares the exchange.
// The connection stays owned by the caller.
func NewRabbitMQPublisher(conn *amqp.Connection, exchange string, logger *zap.Logger) (*RabbitMQPublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("rabbitmq connection is nil")
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"fanout", // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to declare exchange '%s': %w", exchange, err)
	}
	logger.Info("Story event exchange declared", zap.String("exchange", exchange))

	return &RabbitMQPublisher{ch: ch, exchange: exchange, logger: logger.Named("StoryEventPublisher")}, nil
}

func (p *RabbitMQPublisher) PublishStoryCreated(ctx context.Context, event domain.StoryCreatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal story event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		p.exchange, // exchange
		"",         // routing key, fanout ignores it
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         "story.created",
			MessageId:    event.StoryID.String(),
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		p.logger.Error("Failed to publish story event", zap.Stringer("storyID", event.StoryID), zap.Error(err))
		return fmt.Errorf("failed to publish story event: %w", err)
	}
	p.logger.Debug("Story event published", zap.Stringer("storyID", event.StoryID))
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	if p.ch != nil {
		return p.ch.Close()
	}
	return nil
}

// Dial connects to the broker, retrying a few times while it starts up.
func Dial(ctx context.Context, url string, maxRetries int, retryDelay time.Duration, logger *zap.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < maxRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			return conn, nil
		}
		logger.Warn("Не удалось подключиться к RabbitMQ",
			zap.Int("attempt", i+1),
			zap.Int("max_attempts", maxRetries),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("rabbitmq unreachable after %d attempts: %w", maxRetries, err)
}
