package repository

import (
	"context"
	"time"

	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type paymentRepository struct {
	*BaseRepository[model.Payment]
}

func NewPaymentRepository(db *gorm.DB, zapLogger *zap.Logger, tracer trace.Tracer) repository.PaymentRepository {
	return &paymentRepository{
		BaseRepository: NewBaseRepository[model.Payment](db, zapLogger, tracer),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) (err error) {
	ctx, span := r.startSpan(ctx, "paymentRepository.Create",
		attribute.String("payment.id", payment.ID),
		attribute.Int("payment.amount", payment.Amount),
	)
	defer func() { endSpan(span, err, "payment created") }()

	return r.BaseRepository.Create(ctx, payment)
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (_ *model.Payment, err error) {
	ctx, span := r.startSpan(ctx, "paymentRepository.GetByID", attribute.String("payment.id", id))
	defer func() { endSpan(span, err, "payment found") }()

	payment, err := r.BaseRepository.GetByID(ctx, id)
	if isNotFound(err) {
		return nil, errs.NotFound("payment", id)
	}
	return payment, err
}

func (r *paymentRepository) List(ctx context.Context, q repository.PaymentQuery) (_ []model.Payment, err error) {
	ctx, span := r.startSpan(ctx, "paymentRepository.List")
	defer func() { endSpan(span, err, "payments listed") }()

	db := r.database.WithContext(ctx)
	if q.Status != nil {
		db = db.Where("status = ?", *q.Status)
	}
	if q.Type != nil {
		db = db.Where("type = ?", *q.Type)
	}
	if q.MemberID != nil {
		db = db.Where("member_id = ?", *q.MemberID)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var payments []model.Payment
	if err := db.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, errors.Wrap(err, "list payments")
	}
	return payments, nil
}

func (r *paymentRepository) Settle(ctx context.Context, id string, status model.PaymentStatus, reference string, at time.Time) (_ bool, err error) {
	ctx, span := r.startSpan(ctx, "paymentRepository.Settle",
		attribute.String("payment.id", id),
		attribute.String("payment.status", string(status)),
	)
	defer func() { endSpan(span, err, "payment settled") }()

	fields := map[string]any{
		"status":     status,
		"settled_at": at.UTC(),
	}
	if reference != "" {
		fields["gateway_reference"] = reference
	}

	result := r.database.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.PaymentPending).
		Updates(fields)
	if result.Error != nil {
		r.logger.Error(ctx, "%s", result.Error.Error())
		return false, errors.Wrapf(result.Error, "settle payment %s", id)
	}

	return result.RowsAffected == 1, nil
}

func (r *paymentRepository) Totals(ctx context.Context) (_ repository.PaymentTotals, err error) {
	ctx, span := r.startSpan(ctx, "paymentRepository.Totals")
	defer func() { endSpan(span, err, "payment totals computed") }()

	var totals repository.PaymentTotals
	err = r.database.WithContext(ctx).
		Model(&model.Payment{}).
		Select(`COALESCE(SUM(amount), 0) AS total_amount,
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS completed_amount,
			COUNT(CASE WHEN status = ? THEN 1 END) AS completed_count,
			COUNT(CASE WHEN status = ? THEN 1 END) AS pending_count,
			COUNT(CASE WHEN status = ? THEN 1 END) AS failed_count`,
			model.PaymentCompleted, model.PaymentCompleted, model.PaymentPending, model.PaymentFailed).
		Scan(&totals).
		Error
	if err != nil {
		return repository.PaymentTotals{}, errors.Wrap(err, "payment totals")
	}

	return totals, nil
}
