package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/notification"
	"github.com/anjaliconnect/api/domain/repository"
	"github.com/anjaliconnect/api/infrastructure/common"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/anjaliconnect/api/infrastructure/metrics"
	"github.com/getsentry/sentry-go"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const ReceiptsSentTotal = "receipts_sent_total"

type RecordIntentInput struct {
	Name     string
	Email    string
	Phone    string
	Amount   int
	Type     string
	Message  string
	MemberID string
}

// SettlementEvent is the gateway's report that a payment reached a final state.
type SettlementEvent struct {
	PaymentID        string `json:"payment_id"`
	Status           string `json:"status"`
	GatewayReference string `json:"gateway_reference"`
}

type ListFilter struct {
	Status string
	Type   string
	Limit  int
}

type PaymentUseCase interface {
	RecordIntent(ctx context.Context, in RecordIntentInput) (*model.Payment, error)
	Settle(ctx context.Context, event SettlementEvent) error
	OnSettlementConfirmed(ctx context.Context, paymentID string)
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	List(ctx context.Context, f ListFilter) ([]model.Payment, error)
	Summary(ctx context.Context) (repository.PaymentTotals, error)
}

type paymentUseCase struct {
	payments repository.PaymentRepository
	members  repository.MemberRepository
	sender   notification.Sender
	renderer notification.Renderer
	metrics  metrics.Manager
	clock    common.Clock
	validate *validator.Validate
	logger   *logger.Logger
}

func NewPaymentUseCase(
	payments repository.PaymentRepository,
	members repository.MemberRepository,
	sender notification.Sender,
	renderer notification.Renderer,
	metricsManager metrics.Manager,
	clock common.Clock,
	logger *logger.Logger,
) PaymentUseCase {
	return &paymentUseCase{
		payments: payments,
		members:  members,
		sender:   sender,
		renderer: renderer,
		metrics:  metricsManager,
		clock:    clock,
		validate: validator.New(),
		logger:   logger,
	}
}

func (uc *paymentUseCase) RecordIntent(ctx context.Context, in RecordIntentInput) (*model.Payment, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.MemberID = strings.TrimSpace(in.MemberID)

	switch {
	case in.Name == "":
		return nil, errs.Validation("name", "is required")
	case in.Email == "":
		return nil, errs.Validation("email", "is required")
	case in.Phone == "":
		return nil, errs.Validation("phone", "is required")
	case in.Amount < model.MinimumDonation:
		return nil, errs.Validation("amount", fmt.Sprintf("must be at least %d", model.MinimumDonation))
	}
	if err := uc.validate.Var(in.Email, "email"); err != nil {
		return nil, errs.Validation("email", "must be a valid email address")
	}

	paymentType, err := model.ParsePaymentType(in.Type)
	if err != nil {
		return nil, errs.Validation("type", err.Error())
	}

	payment := &model.Payment{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Amount:    in.Amount,
		Type:      paymentType,
		Status:    model.PaymentPending,
		CreatedAt: uc.clock.Now(),
	}
	if msg := strings.TrimSpace(in.Message); msg != "" {
		payment.Message = &msg
	}

	if in.MemberID != "" {
		if _, err := uc.members.GetByID(ctx, in.MemberID); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, errs.Validation("member_id", "unknown member")
			}
			return nil, fmt.Errorf("failed to resolve member: %w", err)
		}
		payment.MemberID = &in.MemberID
	}

	if err := uc.payments.Create(ctx, payment); err != nil {
		uc.logger.Error("failed to record payment intent", zap.Error(err), zap.String("email", payment.Email))
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}

	uc.logger.Info("payment intent recorded",
		zap.String("paymentID", payment.ID),
		zap.Int("amount", payment.Amount),
		zap.String("type", string(payment.Type)),
	)
	return payment, nil
}

// Settle records the gateway's final status for a payment. A payment that
// is already final is left untouched and the event is acknowledged. Every
// completed report reaches OnSettlementConfirmed, redeliveries included.
func (uc *paymentUseCase) Settle(ctx context.Context, event SettlementEvent) error {
	event.PaymentID = strings.TrimSpace(event.PaymentID)
	if event.PaymentID == "" {
		return errs.Validation("payment_id", "is required")
	}

	status, err := model.ParsePaymentStatus(event.Status)
	if err != nil || !status.IsTerminal() {
		return errs.Validation("status", "must be completed or failed")
	}

	payment, err := uc.payments.GetByID(ctx, event.PaymentID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return err
		}
		return errs.Systemic("get payment", err)
	}

	settledAt := uc.clock.Now()
	applied, err := uc.payments.Settle(ctx, payment.ID, status, event.GatewayReference, settledAt)
	if err != nil {
		uc.logger.Error("failed to settle payment", zap.Error(err), zap.String("paymentID", payment.ID))
		return errs.Systemic("settle payment", err)
	}
	if !applied {
		uc.logger.Info("settlement ignored, payment already final",
			zap.String("paymentID", payment.ID),
			zap.String("reported", string(status)),
		)
		if status == model.PaymentCompleted {
			uc.OnSettlementConfirmed(ctx, payment.ID)
		}
		return nil
	}

	uc.logger.Info("payment settled",
		zap.String("paymentID", payment.ID),
		zap.String("status", string(status)),
	)

	if status != model.PaymentCompleted {
		return nil
	}

	if payment.MemberID != nil {
		uc.markMemberPaid(ctx, *payment.MemberID, payment.ID, settledAt)
	}

	uc.OnSettlementConfirmed(ctx, payment.ID)
	return nil
}

// markMemberPaid reconciles the linked member so the next scheduled run no
// longer selects them. Failures are reported, not returned: the payment is
// already final and a redelivered event would not reach this point again.
func (uc *paymentUseCase) markMemberPaid(ctx context.Context, memberID, paymentID string, at time.Time) {
	paid := model.MemberPaymentPaid
	_, err := uc.members.Update(ctx, memberID, repository.MemberUpdate{
		PaymentStatus:   &paid,
		LastPaymentDate: &at,
	})
	if err != nil {
		uc.logger.Error("failed to reconcile member payment status",
			zap.Error(err),
			zap.String("memberID", memberID),
			zap.String("paymentID", paymentID),
		)
		sentry.CaptureException(fmt.Errorf("reconcile member %s for payment %s: %w", memberID, paymentID, err))
		return
	}

	uc.logger.Info("member marked paid", zap.String("memberID", memberID), zap.String("paymentID", paymentID))
}

// OnSettlementConfirmed sends the donor a receipt for a completed payment.
// Failures are logged and reported, never returned.
func (uc *paymentUseCase) OnSettlementConfirmed(ctx context.Context, paymentID string) {
	payment, err := uc.payments.GetByID(ctx, paymentID)
	if err != nil {
		uc.logger.Error("failed to load settled payment", zap.Error(err), zap.String("paymentID", paymentID))
		sentry.CaptureException(err)
		return
	}
	if payment.Status != model.PaymentCompleted {
		uc.logger.Debug("no receipt for unsettled payment",
			zap.String("paymentID", paymentID),
			zap.String("status", string(payment.Status)),
		)
		return
	}

	if err := uc.sendReceipt(ctx, payment, uc.clock.Now()); err != nil {
		uc.logger.Error("failed to send payment receipt", zap.Error(err), zap.String("paymentID", paymentID))
		sentry.CaptureException(err)
		return
	}

	uc.metrics.IncrementCounter(ctx, ReceiptsSentTotal)
	uc.logger.Info("payment receipt sent", zap.String("paymentID", paymentID), zap.String("email", payment.Email))
}

func (uc *paymentUseCase) sendReceipt(ctx context.Context, payment *model.Payment, at time.Time) error {
	msg, err := uc.renderer.RenderReceipt(notification.ReceiptContent{
		PaymentID: payment.ID,
		DonorName: payment.Name,
		Email:     payment.Email,
		Amount:    payment.Amount,
		Type:      string(payment.Type),
		Date:      at,
	})
	if err != nil {
		return errs.Delivery(payment.Email, err)
	}

	if err := uc.sender.Send(ctx, msg); err != nil {
		return errs.Delivery(payment.Email, err)
	}
	return nil
}

func (uc *paymentUseCase) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	payment, err := uc.payments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

func (uc *paymentUseCase) List(ctx context.Context, f ListFilter) ([]model.Payment, error) {
	var q repository.PaymentQuery
	if f.Status != "" {
		status, err := model.ParsePaymentStatus(f.Status)
		if err != nil {
			return nil, errs.Validation("status", err.Error())
		}
		q.Status = &status
	}
	if f.Type != "" {
		paymentType, err := model.ParsePaymentType(f.Type)
		if err != nil {
			return nil, errs.Validation("type", err.Error())
		}
		q.Type = &paymentType
	}
	q.Limit = f.Limit

	payments, err := uc.payments.List(ctx, q)
	if err != nil {
		uc.logger.Error("failed to list payments", zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (uc *paymentUseCase) Summary(ctx context.Context) (repository.PaymentTotals, error) {
	totals, err := uc.payments.Totals(ctx)
	if err != nil {
		uc.logger.Error("failed to compute payment totals", zap.Error(err))
		return repository.PaymentTotals{}, fmt.Errorf("failed to compute payment summary: %w", err)
	}
	return totals, nil
}
