package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/anjaliconnect/api/infrastructure/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	DeadLetterExchange = "dlx"
	deadLetterSuffix   = ".dlq"
)

// ErrPermanent marks a handler failure that a redelivery cannot fix.
var ErrPermanent = errors.New("permanent message failure")

func Permanent(err error) error {
	return fmt.Errorf("%w: %w", ErrPermanent, err)
}

type MessageHandler func(ctx context.Context, msg amqp.Delivery) error

type RabbitMQ struct {
	conn    *amqp.Connection
	Channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQ(uri string, log *logger.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(uri)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return &RabbitMQ{
		conn:    conn,
		Channel: ch,
		logger:  log,
	}, nil
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		r.Channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}

// DeclareQueue declares a durable queue whose rejected messages are routed
// to <name>.dlq through the dead-letter exchange.
func (r *RabbitMQ) DeclareQueue(name string) error {
	if err := r.Channel.ExchangeDeclare(DeadLetterExchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare dead-letter exchange: %w", err)
	}

	dlq, err := r.Channel.QueueDeclare(name+deadLetterSuffix, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare dead-letter queue: %w", err)
	}
	if err := r.Channel.QueueBind(dlq.Name, name, DeadLetterExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind dead-letter queue: %w", err)
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DeadLetterExchange,
		"x-dead-letter-routing-key": name,
	}
	if _, err := r.Channel.QueueDeclare(
		name,  // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		args,
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	return nil
}

// ConsumeMessages delivers messages to handler one at a time until ctx is
// done or the channel closes. Failed messages are requeued once and then
// dead-lettered. Permanent failures are dead-lettered immediately.
func (r *RabbitMQ) ConsumeMessages(ctx context.Context, queue string, prefetch int, handler MessageHandler) error {
	if prefetch <= 0 {
		prefetch = 1
	}
	if err := r.Channel.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	deliveries, err := r.Channel.ConsumeWithContext(ctx, queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to consume %s: %w", queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("delivery channel closed")
			}
			r.dispatch(ctx, queue, d, handler)
		}
	}
}

func (r *RabbitMQ) dispatch(ctx context.Context, queue string, d amqp.Delivery, handler MessageHandler) {
	err := handler(ctx, d)
	if err == nil {
		if ackErr := d.Ack(false); ackErr != nil {
			r.logger.Error("failed to ack message", zap.Error(ackErr), zap.String("queue", queue))
		}
		return
	}

	requeue := !d.Redelivered && !errors.Is(err, ErrPermanent)
	r.logger.Warn("message handler failed",
		zap.Error(err),
		zap.String("queue", queue),
		zap.String("messageID", d.MessageId),
		zap.Bool("requeue", requeue),
	)
	if nackErr := d.Nack(false, requeue); nackErr != nil {
		r.logger.Error("failed to nack message", zap.Error(nackErr), zap.String("queue", queue))
	}
}
