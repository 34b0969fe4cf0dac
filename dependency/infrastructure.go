package dependency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anjaliconnect/api/application/usecases/payment"
	"github.com/anjaliconnect/api/application/usecases/reminder"
	"github.com/anjaliconnect/api/infrastructure/cache"
	"github.com/anjaliconnect/api/infrastructure/events"
	"github.com/anjaliconnect/api/infrastructure/jobs"
	"github.com/anjaliconnect/api/infrastructure/messaging"
	"github.com/anjaliconnect/api/infrastructure/metrics"
	"github.com/anjaliconnect/api/infrastructure/metrics/exporters"
	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

func (c *Container) initInfrastructure() error {
	if c.Config.Sentry.Dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:            c.Config.Sentry.Dsn,
			Debug:          c.Config.Sentry.Debug,
			SendDefaultPII: c.Config.Sentry.SendDefaultPII,
			Environment:    c.Config.Server.RunMode,
			Release:        c.Config.Jaeger.ServiceVersion,
		}); err != nil {
			c.Logger.Error("failed to initialize Sentry", zap.Error(err))
		} else {
			c.Logger.Info("Sentry initialized successfully")
		}
	}

	tracerProvider, err := exporters.InitJaegerExporter(c.Config)
	if err != nil {
		c.Logger.Error("failed to initialize Jaeger exporter", zap.Error(err))
		c.Logger.Warn("Using noop tracer provider as fallback")
	} else {
		c.TracerProvider = tracerProvider
		c.Logger.Info("Jaeger exporter initialized successfully",
			zap.String("endpoint", c.Config.Jaeger.Endpoint),
			zap.String("service", c.Config.Jaeger.ServiceName),
		)
	}

	meter, meterProvider, err := exporters.Prometheus(c.Config.Jaeger.ServiceName, c.Config.Jaeger.ServiceVersion)
	if err != nil {
		return fmt.Errorf("failed to initialize Prometheus exporter: %w", err)
	}
	c.MeterProvider = meterProvider

	c.MetricsManager = metrics.NewMetricsManager(meter, c.Logger)
	c.registerMetrics()

	c.Logger.Info("Metrics initialized successfully")

	if err := cache.InitRedis(c.Config); err != nil {
		c.Logger.Warn("Redis unavailable, rate limiting disabled", zap.Error(err))
	}

	return nil
}

func (c *Container) registerMetrics() {
	c.MetricsManager.NewGauge("app_go_routines", "Number of goroutines")
	c.MetricsManager.NewGauge("app_sys_memory_alloc", "Bytes allocated and in use")
	c.MetricsManager.NewGauge("app_go_numGC", "Number of completed GC cycles")

	c.MetricsManager.NewCounter(metrics.HTTPRequestsTotal, "Total number of HTTP requests")
	c.MetricsManager.NewHistogram(metrics.HTTPRequestDuration, "HTTP request duration in seconds",
		0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0)

	c.MetricsManager.NewCounter(reminder.RemindersSentTotal, "Reminder emails delivered")
	c.MetricsManager.NewCounter(reminder.RemindersFailedTotal, "Reminder emails that failed to deliver")
	c.MetricsManager.NewUpDownCounter(reminder.RemindersInFlight, "Reminder recipients currently being processed")
	c.MetricsManager.NewHistogram(reminder.BatchDuration, "Duration of one reminder dispatch batch in seconds",
		0.5, 1, 5, 15, 30, 60, 120, 300, 900)
	c.MetricsManager.NewCounter(payment.ReceiptsSentTotal, "Payment receipts delivered")
}

// StartBackground launches the monthly reminder schedule and the settlement
// consumer. Both stop when Shutdown is called.
func (c *Container) StartBackground() error {
	c.ctx, c.cancel = context.WithCancel(context.Background())

	location, err := c.Config.ReminderLocation()
	if err != nil {
		return fmt.Errorf("invalid reminder time zone: %w", err)
	}

	c.ReminderJob, err = jobs.NewReminderJob(c.ReminderUC, c.Logger, c.Config.Reminder.Schedule, location)
	if err != nil {
		return err
	}
	go c.ReminderJob.Start(c.ctx)

	if c.Config.RabbitMQ.URI == "" {
		c.Logger.Warn("RabbitMQ URI not configured, settlement events accepted over HTTP only")
		return nil
	}

	c.RabbitMQ, err = messaging.NewRabbitMQ(c.Config.RabbitMQ.URI, c.Logger)
	if err != nil {
		c.Logger.Error("failed to connect to RabbitMQ, settlement events accepted over HTTP only", zap.Error(err))
		return nil
	}

	c.SettlementConsumer = events.NewSettlementConsumer(
		c.RabbitMQ,
		c.PaymentUC,
		c.Config.RabbitMQ.SettlementQueue,
		c.Config.RabbitMQ.Prefetch,
		c.Logger,
	)
	go func() {
		if err := c.SettlementConsumer.Listen(c.ctx); err != nil && !errors.Is(err, context.Canceled) {
			c.Logger.Error("settlement consumer stopped", zap.Error(err))
			sentry.CaptureException(err)
		}
	}()

	c.Logger.Info("Background workers started")
	return nil
}

func (c *Container) shutdownTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if c.TracerProvider != nil {
		if err := c.TracerProvider.Shutdown(ctx); err != nil {
			c.Logger.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if c.MeterProvider != nil {
		if err := c.MeterProvider.Shutdown(ctx); err != nil {
			c.Logger.Error("failed to shutdown meter provider", zap.Error(err))
		}
	}

	sentry.Flush(2 * time.Second)
}
