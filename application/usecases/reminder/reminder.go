package reminder

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/notification"
	"github.com/anjaliconnect/api/domain/repository"
	"github.com/anjaliconnect/api/infrastructure/common"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/anjaliconnect/api/infrastructure/metrics"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	RemindersSentTotal   = "reminders_sent_total"
	RemindersFailedTotal = "reminders_failed_total"
	RemindersInFlight    = "reminders_in_flight"
	BatchDuration        = "reminder_batch_duration_seconds"

	defaultConcurrency = 10
)

type Options struct {
	// Concurrency bounds the number of recipients processed at once.
	Concurrency int
	Location    *time.Location
	PaymentURL  string
}

type ManualInput struct {
	Caller    model.Caller
	MemberIDs []string
}

// DispatchSummary is what a caller learns about a batch: how many
// recipients were attempted. Per-recipient outcomes live in the audit log.
type DispatchSummary struct {
	BatchID    string `json:"batch_id,omitempty"`
	Dispatched int    `json:"dispatched_count"`
}

type ReminderUseCase interface {
	DispatchScheduled(ctx context.Context) (DispatchSummary, error)
	DispatchManual(ctx context.Context, in ManualInput) (DispatchSummary, error)
	AuditTrail(ctx context.Context, q repository.AuditLogQuery) ([]model.AuditLog, error)
}

type reminderUseCase struct {
	members   repository.MemberRepository
	auditLogs repository.AuditLogRepository
	sender    notification.Sender
	renderer  notification.Renderer
	metrics   metrics.Manager
	tracer    trace.Tracer
	clock     common.Clock
	opts      Options
	logger    *logger.Logger
}

func NewReminderUseCase(
	members repository.MemberRepository,
	auditLogs repository.AuditLogRepository,
	sender notification.Sender,
	renderer notification.Renderer,
	metricsManager metrics.Manager,
	tracer trace.Tracer,
	clock common.Clock,
	opts Options,
	logger *logger.Logger,
) ReminderUseCase {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	return &reminderUseCase{
		members:   members,
		auditLogs: auditLogs,
		sender:    sender,
		renderer:  renderer,
		metrics:   metricsManager,
		tracer:    tracer,
		clock:     clock,
		opts:      opts,
		logger:    logger,
	}
}

func (uc *reminderUseCase) DispatchScheduled(ctx context.Context) (DispatchSummary, error) {
	pending := model.MemberPaymentPending
	monthly := model.DonationMonthly
	active := true

	members, err := uc.members.Query(ctx, repository.MemberQuery{
		PaymentStatus:      &pending,
		DonationPreference: &monthly,
		Active:             &active,
	})
	if err != nil {
		uc.logger.Error("failed to query members due for reminder", zap.Error(err))
		return DispatchSummary{}, errs.Systemic("query eligible members", err)
	}

	if len(members) == 0 {
		uc.logger.Info("no members due for a monthly reminder")
		return DispatchSummary{}, nil
	}

	return uc.dispatch(ctx, notification.ReminderMonthly, model.DispatchMonthlyReminder, members)
}

func (uc *reminderUseCase) DispatchManual(ctx context.Context, in ManualInput) (DispatchSummary, error) {
	if !in.Caller.Authenticated {
		return DispatchSummary{}, &errs.UnauthenticatedError{}
	}

	seen := mapset.NewThreadUnsafeSet[string]()
	ids := make([]string, 0, len(in.MemberIDs))
	for _, id := range in.MemberIDs {
		id = strings.TrimSpace(id)
		if id != "" && seen.Add(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return DispatchSummary{}, errs.Validation("member_ids", "at least one member id is required")
	}

	members := make([]model.Member, 0, len(ids))
	for _, id := range ids {
		member, err := uc.members.GetByID(ctx, id)
		if errors.Is(err, errs.ErrNotFound) {
			continue
		}
		if err != nil {
			uc.logger.Error("failed to resolve member for manual reminder", zap.Error(err), zap.String("memberID", id))
			return DispatchSummary{}, errs.Systemic("get member", err)
		}
		members = append(members, *member)
	}

	uc.logger.Info("manual reminder requested",
		zap.String("requestedBy", in.Caller.Identity),
		zap.Int("requested", len(ids)),
		zap.Int("resolved", len(members)),
	)

	if len(members) == 0 {
		return DispatchSummary{}, nil
	}

	return uc.dispatch(ctx, notification.ReminderManual, model.DispatchManualReminder, members)
}

func (uc *reminderUseCase) AuditTrail(ctx context.Context, q repository.AuditLogQuery) ([]model.AuditLog, error) {
	entries, err := uc.auditLogs.List(ctx, q)
	if err != nil {
		uc.logger.Error("failed to list audit entries", zap.Error(err))
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}

// dispatch notifies every member independently. A delivery failure only
// marks that recipient's entry as failed. Audit append failures do not stop
// the other recipients but are returned once the batch completes.
func (uc *reminderUseCase) dispatch(ctx context.Context, kind notification.ReminderKind, dispatchType model.DispatchType, members []model.Member) (DispatchSummary, error) {
	start := time.Now()
	batchID := uuid.NewString()
	period := uc.periodLabel()

	ctx, span := uc.tracer.Start(ctx, "reminder.dispatch", trace.WithAttributes(
		attribute.String("batch.id", batchID),
		attribute.String("batch.type", string(dispatchType)),
		attribute.Int("batch.size", len(members)),
	))
	defer span.End()

	// Recipients run to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)

	var (
		sent, failed atomic.Int64
		mu           sync.Mutex
		appendErrs   []error
	)

	// Workers never cancel each other; Wait reports whether any append failed
	// and appendErrs keeps every failure.
	g := new(errgroup.Group)
	g.SetLimit(uc.opts.Concurrency)

	for _, member := range members {
		g.Go(func() error {
			uc.metrics.DeltaUpDownCounter(ctx, RemindersInFlight, 1, "type", string(dispatchType))
			defer uc.metrics.DeltaUpDownCounter(ctx, RemindersInFlight, -1, "type", string(dispatchType))

			entry := uc.remind(ctx, kind, dispatchType, batchID, period, member)
			if entry.Status == model.DeliverySent {
				sent.Add(1)
				uc.metrics.IncrementCounter(ctx, RemindersSentTotal, "type", string(dispatchType))
			} else {
				failed.Add(1)
				uc.metrics.IncrementCounter(ctx, RemindersFailedTotal, "type", string(dispatchType))
			}

			if _, err := uc.auditLogs.Append(ctx, entry); err != nil {
				uc.logger.Error("failed to append audit entry",
					zap.Error(err),
					zap.String("batchID", batchID),
					zap.String("memberID", member.ID),
				)
				err = fmt.Errorf("member %s: %w", member.ID, err)
				mu.Lock()
				appendErrs = append(appendErrs, err)
				mu.Unlock()
				return err
			}
			return nil
		})
	}
	waitErr := g.Wait()

	summary := DispatchSummary{
		BatchID:    batchID,
		Dispatched: len(members),
	}

	uc.metrics.RecordHistogram(ctx, BatchDuration, time.Since(start).Seconds(), "type", string(dispatchType))
	span.SetAttributes(
		attribute.Int64("batch.sent", sent.Load()),
		attribute.Int64("batch.failed", failed.Load()),
	)

	uc.logger.Info("reminder batch completed",
		zap.String("batchID", batchID),
		zap.String("type", string(dispatchType)),
		zap.String("period", period),
		zap.Int("dispatched", summary.Dispatched),
		zap.Int64("sent", sent.Load()),
		zap.Int64("failed", failed.Load()),
		zap.Duration("took", time.Since(start)),
	)

	if waitErr != nil {
		err := errs.Systemic("append audit entries", errors.Join(appendErrs...))
		span.RecordError(err)
		return summary, err
	}
	return summary, nil
}

// remind renders and sends one reminder and returns the audit entry that
// describes the outcome.
func (uc *reminderUseCase) remind(ctx context.Context, kind notification.ReminderKind, dispatchType model.DispatchType, batchID, period string, member model.Member) model.AuditLog {
	err := uc.send(ctx, kind, period, member)

	now := uc.clock.Now()
	entry := model.AuditLog{
		CreatedAt: now,
		EventID:   uuid.NewString(),
		BatchID:   batchID,
		Type:      dispatchType,
		MemberID:  member.ID,
		Email:     member.Email,
		SentAt:    now,
		Status:    model.DeliverySent,
	}
	if err != nil {
		uc.logger.Warn("reminder delivery failed",
			zap.Error(err),
			zap.String("batchID", batchID),
			zap.String("memberID", member.ID),
		)
		entry.Status = model.DeliveryFailed
		entry.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	}
	return entry
}

func (uc *reminderUseCase) send(ctx context.Context, kind notification.ReminderKind, period string, member model.Member) error {
	msg, err := uc.renderer.RenderReminder(notification.ReminderContent{
		Kind:          kind,
		MemberID:      member.ID,
		RecipientName: member.FullName,
		Email:         member.Email,
		Amount:        member.MonthlyAmount,
		Period:        period,
		PaymentURL:    uc.opts.PaymentURL,
	})
	if err != nil {
		return errs.Delivery(member.Email, err)
	}

	if err := uc.sender.Send(ctx, msg); err != nil {
		return errs.Delivery(member.Email, err)
	}
	return nil
}

// periodLabel names the current month in the configured zone, e.g. "March 2024".
func (uc *reminderUseCase) periodLabel() string {
	return uc.clock.Now().In(uc.opts.Location).Format("January 2006")
}
