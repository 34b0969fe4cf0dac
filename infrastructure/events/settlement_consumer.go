package events

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/anjaliconnect/api/application/usecases/payment"
	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/anjaliconnect/api/infrastructure/messaging"
	"github.com/getsentry/sentry-go"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type SettlementConsumer struct {
	rabbitmq       *messaging.RabbitMQ
	paymentUseCase payment.PaymentUseCase
	queue          string
	prefetch       int
	logger         *logger.Logger
}

func NewSettlementConsumer(
	rabbitmq *messaging.RabbitMQ,
	paymentUseCase payment.PaymentUseCase,
	queue string,
	prefetch int,
	logger *logger.Logger,
) *SettlementConsumer {
	return &SettlementConsumer{
		rabbitmq:       rabbitmq,
		paymentUseCase: paymentUseCase,
		queue:          queue,
		prefetch:       prefetch,
		logger:         logger,
	}
}

// Listen blocks until ctx is done or the broker connection drops.
func (c *SettlementConsumer) Listen(ctx context.Context) error {
	if err := c.rabbitmq.DeclareQueue(c.queue); err != nil {
		return err
	}

	c.logger.Info("Settlement consumer listening", zap.String("queue", c.queue))
	return c.rabbitmq.ConsumeMessages(ctx, c.queue, c.prefetch, func(ctx context.Context, msg amqp.Delivery) error {
		return c.handle(ctx, msg.Body)
	})
}

func (c *SettlementConsumer) handle(ctx context.Context, body []byte) error {
	var event payment.SettlementEvent
	if err := json.Unmarshal(body, &event); err != nil {
		c.logger.Warn("malformed settlement event", zap.Error(err))
		return messaging.Permanent(err)
	}

	err := c.paymentUseCase.Settle(ctx, event)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errs.ErrNotFound):
		c.logger.Warn("settlement event rejected",
			zap.Error(err),
			zap.String("paymentID", event.PaymentID),
		)
		return messaging.Permanent(err)
	default:
		c.logger.Error("settlement event failed",
			zap.Error(err),
			zap.String("paymentID", event.PaymentID),
		)
		sentry.CaptureException(err)
		return err
	}
}
