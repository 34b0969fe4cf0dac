package dependency

import (
	"fmt"
	"time"

	applicationUseCase "github.com/anjaliconnect/api/application/usecases/application"
	dashboardUseCase "github.com/anjaliconnect/api/application/usecases/dashboard"
	memberUseCase "github.com/anjaliconnect/api/application/usecases/member"
	paymentUseCase "github.com/anjaliconnect/api/application/usecases/payment"
	reminderUseCase "github.com/anjaliconnect/api/application/usecases/reminder"
	"github.com/anjaliconnect/api/infrastructure/common"
	"github.com/anjaliconnect/api/infrastructure/mailer"
	"github.com/anjaliconnect/api/infrastructure/metrics/exporters"
	"github.com/anjaliconnect/api/infrastructure/security"
	"github.com/anjaliconnect/api/infrastructure/sign"
)

func (c *Container) initNotifications() error {
	sender, err := mailer.NewSMTPSender(c.Config.Mail, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to configure SMTP sender: %w", err)
	}
	c.Mailer = sender

	renderer, err := mailer.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("failed to parse email templates: %w", err)
	}
	c.Renderer = renderer

	c.TokenVerifier = security.NewAdminTokenVerifier(c.Config.Auth.JWTSecret, c.Config.Auth.JWTIssuer, time.Now)
	if c.Config.Auth.WebhookSecret != "" {
		c.WebhookSigner = sign.NewHMACSign([]byte(c.Config.Auth.WebhookSecret))
	}

	c.Logger.Info("Notification components initialized successfully")
	return nil
}

func (c *Container) initUseCases() error {
	clock := common.SystemClock{}

	location, err := c.Config.ReminderLocation()
	if err != nil {
		return fmt.Errorf("invalid reminder time zone: %w", err)
	}

	c.ApplicationUC = applicationUseCase.NewApplicationUseCase(c.MemberRepo, clock, c.Logger)
	c.MemberUC = memberUseCase.NewMemberUseCase(c.MemberRepo, c.Logger)
	c.PaymentUC = paymentUseCase.NewPaymentUseCase(
		c.PaymentRepo,
		c.MemberRepo,
		c.Mailer,
		c.Renderer,
		c.MetricsManager,
		clock,
		c.Logger,
	)
	c.ReminderUC = reminderUseCase.NewReminderUseCase(
		c.MemberRepo,
		c.AuditLogRepo,
		c.Mailer,
		c.Renderer,
		c.MetricsManager,
		exporters.Tracer(),
		clock,
		reminderUseCase.Options{
			Concurrency: c.Config.ReminderConcurrency(),
			Location:    location,
			PaymentURL:  c.Config.ReminderPaymentURL(),
		},
		c.Logger,
	)
	c.DashboardUC = dashboardUseCase.NewDashboardUseCase(c.MemberRepo, c.PaymentRepo, c.Logger)

	c.Logger.Info("Use cases initialized successfully")
	return nil
}
