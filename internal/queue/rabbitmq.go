package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type RabbitMQBroker struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	url        string
	maxRetries int
	retryDelay time.Duration
	logger     *zap.SugaredLogger
	mu         sync.RWMutex
}

type Config struct {
	URL           string
	MaxRetries    int
	RetryDelay    time.Duration
	PrefetchCount int
}

func NewRabbitMQBroker(cfg Config, logger *zap.SugaredLogger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := channel.Qos(cfg.PrefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	broker := &RabbitMQBroker{
		conn:       conn,
		channel:    channel,
		url:        cfg.URL,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     logger,
	}

	queues := []string{
		QueueCartClear,
		QueueMenuImport,
		QueueCartClearDLQ,
		QueueMenuImportDLQ,
	}

	for _, queueName := range queues {
		if err := broker.declareQueue(queueName); err != nil {
			broker.Close()
			return nil, err
		}
	}

	return broker, nil
}

func (b *RabbitMQBroker) declareQueue(queueName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	_, err := b.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	return nil
}

func (b *RabbitMQBroker) Publish(ctx context.Context, queueName string, message []byte) error {
	return b.publish(ctx, queueName, amqp.Publishing{
		ContentType: "application/json",
		Body:        message,
	})
}

func (b *RabbitMQBroker) publish(ctx context.Context, queueName string, msg amqp.Publishing) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	msg.DeliveryMode = amqp.Persistent
	msg.Timestamp = time.Now()
	if msg.MessageId == "" {
		msg.MessageId = uuid.NewString()
	}

	err := b.channel.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		msg,
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	return nil
}

func (b *RabbitMQBroker) Subscribe(ctx context.Context, queueName string, handler MessageHandler) error {
	b.mu.RLock()
	msgs, err := b.channel.Consume(
		queueName, // queue
		"",        // consumer
		false,     // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	b.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				b.handleMessage(ctx, msg, handler, queueName)
			}
		}
	}()

	return nil
}

// handleMessage acks every delivery. Failed messages are republished with
// an incremented x-retry-count after an exponential delay, and moved to the
// queue's DLQ once retries are exhausted.
func (b *RabbitMQBroker) handleMessage(ctx context.Context, msg amqp.Delivery, handler MessageHandler, queueName string) {
	err := handler(ctx, msg.Body)
	if err == nil {
		msg.Ack(false)
		return
	}

	retryCount := 0
	if count, ok := msg.Headers["x-retry-count"].(int32); ok {
		retryCount = int(count)
	}

	if retryCount < b.maxRetries {
		// retry 1: 1x delay, retry 2: 2x delay, retry 3: 4x delay
		delay := b.retryDelay * time.Duration(1<<retryCount)
		select {
		case <-ctx.Done():
			msg.Nack(false, true)
			return
		case <-time.After(delay):
		}

		pubErr := b.publish(ctx, queueName, amqp.Publishing{
			ContentType: msg.ContentType,
			MessageId:   msg.MessageId,
			Body:        msg.Body,
			Headers: amqp.Table{
				"x-retry-count": int32(retryCount + 1),
			},
		})
		if pubErr != nil {
			b.logger.Errorw("failed to requeue message", "queue", queueName, "message_id", msg.MessageId, "error", pubErr)
			msg.Nack(false, true)
			return
		}

		b.logger.Warnw("message requeued", "queue", queueName, "message_id", msg.MessageId, "retry", retryCount+1, "error", err)
		msg.Ack(false)
		return
	}

	dlqName := queueName + "-dlq"
	pubErr := b.publish(ctx, dlqName, amqp.Publishing{
		ContentType: msg.ContentType,
		MessageId:   msg.MessageId,
		Body:        msg.Body,
		Headers: amqp.Table{
			"x-original-queue": queueName,
			"x-retry-count":    int32(retryCount),
			"x-error":          err.Error(),
		},
	})
	if pubErr != nil {
		b.logger.Errorw("failed to dead-letter message", "queue", queueName, "message_id", msg.MessageId, "error", pubErr)
		msg.Nack(false, true)
		return
	}

	b.logger.Errorw("message dead-lettered", "queue", dlqName, "message_id", msg.MessageId, "error", err)
	msg.Ack(false)
}

func (b *RabbitMQBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
