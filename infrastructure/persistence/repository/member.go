package repository

import (
	"context"
	"time"

	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/domain/filter"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type memberRepository struct {
	*BaseRepository[model.Member]
}

func NewMemberRepository(db *gorm.DB, zapLogger *zap.Logger, tracer trace.Tracer) repository.MemberRepository {
	return &memberRepository{
		BaseRepository: NewBaseRepository[model.Member](db, zapLogger, tracer),
	}
}

func (r *memberRepository) Create(ctx context.Context, member *model.Member) (err error) {
	ctx, span := r.startSpan(ctx, "memberRepository.Create", attribute.String("member.id", member.ID))
	defer func() { endSpan(span, err, "member created") }()

	return r.BaseRepository.Create(ctx, member)
}

func (r *memberRepository) GetByID(ctx context.Context, id string) (_ *model.Member, err error) {
	ctx, span := r.startSpan(ctx, "memberRepository.GetByID", attribute.String("member.id", id))
	defer func() { endSpan(span, err, "member found") }()

	member, err := r.BaseRepository.GetByID(ctx, id)
	if isNotFound(err) {
		return nil, errs.NotFound("member", id)
	}
	return member, err
}

func (r *memberRepository) Query(ctx context.Context, q repository.MemberQuery) (_ []model.Member, err error) {
	ctx, span := r.startSpan(ctx, "memberRepository.Query")
	defer func() { endSpan(span, err, "members queried") }()

	var members []model.Member
	db := applyMemberQuery(r.database.WithContext(ctx), q)
	if q.NewestFirst {
		db = db.Order("application_date DESC")
	} else {
		db = db.Order("application_date ASC")
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	if err := db.Find(&members).Error; err != nil {
		return nil, errors.Wrap(err, "query members")
	}

	span.SetAttributes(attribute.Int("members.count", len(members)))
	return members, nil
}

func (r *memberRepository) Count(ctx context.Context, q repository.MemberQuery) (_ int64, err error) {
	ctx, span := r.startSpan(ctx, "memberRepository.Count")
	defer func() { endSpan(span, err, "members counted") }()

	var count int64
	if err := applyMemberQuery(r.database.WithContext(ctx).Model(&model.Member{}), q).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "count members")
	}
	return count, nil
}

func (r *memberRepository) Update(ctx context.Context, id string, u repository.MemberUpdate) (_ *model.Member, err error) {
	ctx, span := r.startSpan(ctx, "memberRepository.Update", attribute.String("member.id", id))
	defer func() { endSpan(span, err, "member updated") }()

	fields := memberUpdateColumns(u)
	if len(fields) > 0 {
		result := r.database.WithContext(ctx).
			Model(&model.Member{}).
			Where("id = ?", id).
			Updates(fields)
		if result.Error != nil {
			r.logger.Error(ctx, "%s", result.Error.Error())
			return nil, errors.Wrapf(result.Error, "update member %s", id)
		}
		if result.RowsAffected == 0 {
			return nil, errs.NotFound("member", id)
		}
	}

	return r.GetByID(ctx, id)
}

func (r *memberRepository) TransitionApplication(ctx context.Context, id string, from model.ApplicationStatus, u repository.MemberUpdate) (_ bool, err error) {
	ctx, span := r.startSpan(ctx, "memberRepository.TransitionApplication",
		attribute.String("member.id", id),
		attribute.String("application.from", string(from)),
	)
	defer func() { endSpan(span, err, "application transitioned") }()

	result := r.database.WithContext(ctx).
		Model(&model.Member{}).
		Where("id = ? AND application_status = ?", id, from).
		Updates(memberUpdateColumns(u))
	if result.Error != nil {
		r.logger.Error(ctx, "%s", result.Error.Error())
		return false, errors.Wrapf(result.Error, "transition member %s", id)
	}

	return result.RowsAffected == 1, nil
}

func (r *memberRepository) GetByFilter(ctx context.Context, req filter.PaginationInputWithFilter) (_ int64, _ []model.Member, err error) {
	ctx, span := r.startSpan(ctx, "memberRepository.GetByFilter")
	defer func() { endSpan(span, err, "members filtered") }()

	if !req.HasSort() {
		req.Sort = []filter.Sort{{ColID: "ApplicationDate", Sort: filter.SortDesc}}
	}
	return r.BaseRepository.GetByFilter(ctx, req)
}

func applyMemberQuery(db *gorm.DB, q repository.MemberQuery) *gorm.DB {
	if q.ApplicationStatus != nil {
		db = db.Where("application_status = ?", *q.ApplicationStatus)
	}
	if q.PaymentStatus != nil {
		db = db.Where("payment_status = ?", *q.PaymentStatus)
	}
	if q.DonationPreference != nil {
		db = db.Where("donation_preference = ?", *q.DonationPreference)
	}
	if q.Active != nil {
		db = db.Where("active = ?", *q.Active)
	}
	return db
}

func memberUpdateColumns(u repository.MemberUpdate) map[string]any {
	fields := map[string]any{}

	setString := func(column string, v *string) {
		if v != nil {
			fields[column] = *v
		}
	}
	setTime := func(column string, v *time.Time) {
		if v != nil {
			fields[column] = v.UTC()
		}
	}

	setString("full_name", u.FullName)
	setString("email", u.Email)
	setString("phone", u.Phone)
	setString("address", u.Address)
	setString("city", u.City)
	setString("state", u.State)
	setString("pincode", u.Pincode)
	setString("approved_by", u.ApprovedBy)
	setString("rejection_reason", u.RejectionReason)

	setTime("last_payment_date", u.LastPaymentDate)
	setTime("member_since", u.MemberSince)
	setTime("approved_date", u.ApprovedDate)

	if u.DonationPreference != nil {
		fields["donation_preference"] = *u.DonationPreference
	}
	if u.MonthlyAmount != nil {
		fields["monthly_amount"] = *u.MonthlyAmount
	}
	if u.PaymentStatus != nil {
		fields["payment_status"] = *u.PaymentStatus
	}
	if u.ApplicationStatus != nil {
		fields["application_status"] = *u.ApplicationStatus
	}
	if u.Active != nil {
		fields["active"] = *u.Active
	}
	if len(fields) > 0 {
		fields["updated_at"] = time.Now().UTC()
	}

	return fields
}
