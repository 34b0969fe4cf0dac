// Package mailer delivers notifications over SMTP and renders their HTML bodies.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/anjaliconnect/api/domain/notification"
	"github.com/anjaliconnect/api/infrastructure/config"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultSendRate    = 5
	defaultSendBurst   = 5
	defaultSendTimeout = 15 * time.Second
)

type SMTPSender struct {
	client   *mail.Client
	limiter  *rate.Limiter
	fromName string
	fromAddr string
	logger   *logger.Logger
}

func NewSMTPSender(cfg config.MailConfig, log *logger.Logger) (*SMTPSender, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(timeout),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	perSecond := cfg.RatePerSecond
	if perSecond <= 0 {
		perSecond = defaultSendRate
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultSendBurst
	}

	return &SMTPSender{
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), burst),
		fromName: cfg.FromName,
		fromAddr: cfg.FromAddress,
		logger:   log,
	}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg notification.Message) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("send throttled: %w", err)
	}

	m := mail.NewMsg()
	if err := m.FromFormat(s.fromName, s.fromAddr); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		s.logger.Warn("smtp send failed",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err),
		)
		return fmt.Errorf("smtp send: %w", err)
	}

	s.logger.Debug("smtp message sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

func (s *SMTPSender) Close() error {
	return s.client.Close()
}
