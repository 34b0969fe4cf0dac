package repository

import (
	"context"

	"github.com/anjaliconnect/api/domain/filter"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/anjaliconnect/api/infrastructure/persistence/database"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type BaseRepository[TEntity any] struct {
	database *gorm.DB
	logger   *logger.GormZapLogger
	tracer   trace.Tracer
}

func NewBaseRepository[TEntity any](db *gorm.DB, zapLogger *zap.Logger, tracer trace.Tracer) *BaseRepository[TEntity] {
	return &BaseRepository[TEntity]{
		database: db,
		logger:   logger.NewGormLogger(zapLogger),
		tracer:   tracer,
	}
}

func (r BaseRepository[TEntity]) Create(ctx context.Context, entity *TEntity) error {
	tx := r.database.WithContext(ctx).Begin()
	if err := tx.Create(entity).Error; err != nil {
		tx.Rollback()
		r.logger.Error(ctx, "%s", err.Error())
		return errors.Wrap(err, "create")
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

// GetByID returns gorm.ErrRecordNotFound (wrapped) when no row matches.
func (r BaseRepository[TEntity]) GetByID(ctx context.Context, id string) (*TEntity, error) {
	model := new(TEntity)

	err := r.database.WithContext(ctx).
		Where("id = ?", id).
		First(model).
		Error
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", id)
	}

	return model, nil
}

func (r BaseRepository[TEntity]) GetByFilter(ctx context.Context, req filter.PaginationInputWithFilter) (int64, []TEntity, error) {
	model := new(TEntity)
	var items []TEntity
	var totalRows int64

	err := database.ApplyDynamicFilter[TEntity](r.database.WithContext(ctx).Model(model), &filter.DynamicFilter{Filter: req.Filter}).
		Count(&totalRows).
		Error
	if err != nil {
		return 0, nil, errors.Wrap(err, "count by filter")
	}

	err = database.ApplyDynamicFilter[TEntity](r.database.WithContext(ctx), &req.DynamicFilter).
		Offset(req.GetOffset()).
		Limit(req.GetPageSize()).
		Find(&items).
		Error
	if err != nil {
		return 0, nil, errors.Wrap(err, "find by filter")
	}

	return totalRows, items, nil
}

func (r BaseRepository[TEntity]) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := r.tracer.Start(ctx, name)
	span.SetAttributes(attrs...)
	return ctx, span
}

func endSpan(span trace.Span, err error, okMessage string) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, okMessage)
	}
	span.End()
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
