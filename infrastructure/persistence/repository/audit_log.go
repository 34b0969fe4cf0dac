package repository

import (
	"context"

	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultAuditLogLimit = 100

type auditLogRepository struct {
	*BaseRepository[model.AuditLog]
}

func NewAuditLogRepository(db *gorm.DB, zapLogger *zap.Logger, tracer trace.Tracer) repository.AuditLogRepository {
	return &auditLogRepository{
		BaseRepository: NewBaseRepository[model.AuditLog](db, zapLogger, tracer),
	}
}

// Append inserts a; a replayed EventID is ignored.
func (r *auditLogRepository) Append(ctx context.Context, a model.AuditLog) (_ model.AuditLog, err error) {
	ctx, span := r.startSpan(ctx, "auditLogRepository.Append",
		attribute.String("audit.event_id", a.EventID),
		attribute.String("audit.batch_id", a.BatchID),
		attribute.String("audit.status", string(a.Status)),
	)
	defer func() { endSpan(span, err, "audit entry appended") }()

	result := r.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(&a)

	if result.Error != nil {
		r.logger.Error(ctx, "%s", result.Error.Error())
		return a, errors.Wrap(result.Error, "append audit entry")
	}

	return a, nil
}

func (r *auditLogRepository) List(ctx context.Context, q repository.AuditLogQuery) (_ []model.AuditLog, err error) {
	ctx, span := r.startSpan(ctx, "auditLogRepository.List")
	defer func() { endSpan(span, err, "audit entries listed") }()

	db := r.database.WithContext(ctx)
	if q.MemberID != "" {
		db = db.Where("member_id = ?", q.MemberID)
	}
	if q.BatchID != "" {
		db = db.Where("batch_id = ?", q.BatchID)
	}
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultAuditLogLimit
	}

	var entries []model.AuditLog
	if err := db.Order("sent_at DESC, id DESC").Limit(limit).Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "list audit entries")
	}
	return entries, nil
}
