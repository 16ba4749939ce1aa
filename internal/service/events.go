package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/videotube/videotube-api/internal/config"
	"github.com/videotube/videotube-api/internal/models"
	"github.com/videotube/videotube-api/pkg/logger"
)

const confirmTimeout = 5 * time.Second

// ActivityPublisher publishes relationship activity events to a RabbitMQ
// topic exchange with publisher confirms. Each publish waits on its own
// deferred confirmation, outside the lock.
type ActivityPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	config  *config.RabbitMQConfig
	mu      sync.Mutex
}

// NewActivityPublisher connects and declares the exchange and queue.
func NewActivityPublisher(cfg *config.RabbitMQConfig) (*ActivityPublisher, error) {
	ap := &ActivityPublisher{
		config: cfg,
	}

	if err := ap.connect(); err != nil {
		return nil, err
	}

	return ap, nil
}

func (ap *ActivityPublisher) connect() error {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	connURL := fmt.Sprintf("amqp://%s:%s@%s:%d/",
		ap.config.User, ap.config.Password, ap.config.Host, ap.config.Port)

	conn, err := amqp.Dial(connURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	if err := ch.ExchangeDeclare(
		ap.config.Exchange, // name
		"topic",            // type
		true,               // durable
		false,              // auto-deleted
		false,              // internal
		false,              // no-wait
		nil,                // arguments
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = ch.QueueDeclare(
		ap.config.Queue, // name
		true,            // durable
		false,           // delete when unused
		false,           // exclusive
		false,           // no-wait
		amqp.Table{
			"x-message-ttl": 86400000, // 24 hours
			"x-max-length":  100000,
		},
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := ch.QueueBind(
		ap.config.Queue,      // queue name
		ap.config.RoutingKey, // routing key
		ap.config.Exchange,   // exchange
		false,
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	ap.conn = conn
	ap.channel = ch

	logger.Log.Info("Connected to RabbitMQ",
		zap.String("exchange", ap.config.Exchange),
		zap.String("queue", ap.config.Queue),
	)

	return nil
}

// PublishEdgeToggled publishes the event and waits for the broker to
// confirm that delivery tag.
func (ap *ActivityPublisher) PublishEdgeToggled(ctx context.Context, event *models.EdgeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	confirmation, err := ap.publish(ctx, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		MessageId:    event.ID.String(),
		Type:         "edge.toggled",
	})
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	acked, err := confirmation.WaitContext(waitCtx)
	switch {
	case err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("timeout waiting for publish confirmation (tag %d)", confirmation.DeliveryTag)
	case err != nil:
		return err
	case !acked:
		return fmt.Errorf("message %d was not acknowledged by broker", confirmation.DeliveryTag)
	}

	logger.Log.Debug("Published edge event",
		zap.String("eventId", event.ID.String()),
		zap.Uint64("deliveryTag", confirmation.DeliveryTag),
		zap.String("routingKey", ap.config.RoutingKey),
	)

	return nil
}

// publish sends under the lock and hands back the confirmation to wait on.
func (ap *ActivityPublisher) publish(ctx context.Context, msg amqp.Publishing) (*amqp.DeferredConfirmation, error) {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	if ap.channel == nil || ap.channel.IsClosed() {
		return nil, fmt.Errorf("channel is not open")
	}

	confirmation, err := ap.channel.PublishWithDeferredConfirmWithContext(
		ctx,
		ap.config.Exchange,   // exchange
		ap.config.RoutingKey, // routing key
		false,                // mandatory
		false,                // immediate
		msg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to publish message: %w", err)
	}
	if confirmation == nil {
		return nil, fmt.Errorf("channel is not in confirm mode")
	}
	return confirmation, nil
}

// Close closes the channel and the connection.
func (ap *ActivityPublisher) Close() error {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	var errs []error
	if ap.channel != nil && !ap.channel.IsClosed() {
		if err := ap.channel.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if ap.conn != nil && !ap.conn.IsClosed() {
		if err := ap.conn.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing publisher: %v", errs)
	}

	logger.Log.Info("RabbitMQ publisher closed")
	return nil
}

// IsHealthy reports whether the connection and channel are open.
func (ap *ActivityPublisher) IsHealthy() bool {
	ap.mu.Lock()
	defer ap.mu.Unlock()

	return ap.conn != nil && !ap.conn.IsClosed() && ap.channel != nil && !ap.channel.IsClosed()
}
