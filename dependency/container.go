package dependency

import (
	"context"
	"fmt"

	applicationUseCase "github.com/anjaliconnect/api/application/usecases/application"
	dashboardUseCase "github.com/anjaliconnect/api/application/usecases/dashboard"
	memberUseCase "github.com/anjaliconnect/api/application/usecases/member"
	paymentUseCase "github.com/anjaliconnect/api/application/usecases/payment"
	reminderUseCase "github.com/anjaliconnect/api/application/usecases/reminder"
	"github.com/anjaliconnect/api/domain/repository"
	"github.com/anjaliconnect/api/infrastructure/config"
	"github.com/anjaliconnect/api/infrastructure/events"
	"github.com/anjaliconnect/api/infrastructure/jobs"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/anjaliconnect/api/infrastructure/mailer"
	"github.com/anjaliconnect/api/infrastructure/messaging"
	"github.com/anjaliconnect/api/infrastructure/metrics"
	"github.com/anjaliconnect/api/infrastructure/security"
	"github.com/anjaliconnect/api/infrastructure/sign"
	"github.com/anjaliconnect/api/presentation/controllers/application"
	"github.com/anjaliconnect/api/presentation/controllers/dashboard"
	"github.com/anjaliconnect/api/presentation/controllers/member"
	"github.com/anjaliconnect/api/presentation/controllers/payment"
	"github.com/anjaliconnect/api/presentation/controllers/reminder"
	metricSdk "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
)

type Container struct {
	Config *config.Config
	Logger *logger.Logger

	TracerProvider *trace.TracerProvider
	MeterProvider  *metricSdk.MeterProvider
	MetricsManager metrics.Manager

	MemberRepo   repository.MemberRepository
	PaymentRepo  repository.PaymentRepository
	AuditLogRepo repository.AuditLogRepository

	Mailer        *mailer.SMTPSender
	Renderer      *mailer.TemplateRenderer
	TokenVerifier *security.AdminTokenVerifier
	WebhookSigner sign.ISign

	ApplicationUC applicationUseCase.ApplicationUseCase
	MemberUC      memberUseCase.MemberUseCase
	PaymentUC     paymentUseCase.PaymentUseCase
	ReminderUC    reminderUseCase.ReminderUseCase
	DashboardUC   dashboardUseCase.DashboardUseCase

	ApplicationController application.ApplicationController
	MemberController      member.MemberController
	PaymentController     payment.PaymentController
	ReminderController    reminder.ReminderController
	DashboardController   dashboard.DashboardController

	ReminderJob        *jobs.ReminderJob
	RabbitMQ           *messaging.RabbitMQ
	SettlementConsumer *events.SettlementConsumer

	ctx    context.Context
	cancel context.CancelFunc
}

func NewContainer() (*Container, error) {
	c := &Container{}

	c.Config = config.GetConfig()

	loggerInstance, err := c.newLogger()
	if err != nil {
		return nil, fmt.Errorf("error initializing logger: %w", err)
	}
	c.Logger = loggerInstance

	c.Logger.Info("Initializing Anjali Connect API dependencies", zap.String("mode", c.Config.Server.RunMode))

	if err := c.initInfrastructure(); err != nil {
		return nil, fmt.Errorf("error initializing infrastructure: %w", err)
	}

	if err := c.initPersistence(); err != nil {
		return nil, fmt.Errorf("error initializing persistence: %w", err)
	}

	if err := c.initNotifications(); err != nil {
		return nil, fmt.Errorf("error initializing notifications: %w", err)
	}

	if err := c.initUseCases(); err != nil {
		return nil, fmt.Errorf("error initializing use cases: %w", err)
	}

	c.initControllers()

	c.Logger.Info("All dependencies initialized successfully")

	return c, nil
}

func (c *Container) newLogger() (*logger.Logger, error) {
	if c.Config.IsDevelopment() {
		return logger.NewDevelopmentLogger()
	}
	return logger.NewLogger(c.Config.Logger)
}
