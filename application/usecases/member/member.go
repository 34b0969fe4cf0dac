package member

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/domain/filter"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"go.uber.org/zap"
)

// searchableColumns are the Member fields a dynamic search may filter or sort on.
var searchableColumns = []string{
	"FullName", "Email", "Phone", "City", "State", "Pincode",
	"DonationPreference", "MonthlyAmount", "PaymentStatus", "LastPaymentDate",
	"ApplicationStatus", "ApplicationDate", "Active", "MemberSince",
}

// UpdateInput is an administrator edit. Nil fields are left unchanged.
type UpdateInput struct {
	FullName *string
	Email    *string
	Phone    *string
	Address  *string
	City     *string
	State    *string
	Pincode  *string

	DonationPreference *string
	MonthlyAmount      *int
	PaymentStatus      *string
	Active             *bool
}

type MemberUseCase interface {
	List(ctx context.Context, req filter.PaginationInputWithFilter) (filter.PagedList[model.Member], error)
	GetByID(ctx context.Context, id string) (*model.Member, error)
	Update(ctx context.Context, id string, in UpdateInput) (*model.Member, error)
}

type memberUseCase struct {
	members repository.MemberRepository
	logger  *logger.Logger
}

func NewMemberUseCase(members repository.MemberRepository, logger *logger.Logger) MemberUseCase {
	return &memberUseCase{
		members: members,
		logger:  logger,
	}
}

func (uc *memberUseCase) List(ctx context.Context, req filter.PaginationInputWithFilter) (filter.PagedList[model.Member], error) {
	if err := req.DynamicFilter.Validate(searchableColumns...); err != nil {
		return filter.PagedList[model.Member]{}, errs.Validation("filter", err.Error())
	}

	total, members, err := uc.members.GetByFilter(ctx, req)
	if err != nil {
		uc.logger.Error("failed to list members", zap.Error(err))
		return filter.PagedList[model.Member]{}, fmt.Errorf("failed to list members: %w", err)
	}

	return filter.NewPagedList(members, total, req.PaginationInput), nil
}

func (uc *memberUseCase) GetByID(ctx context.Context, id string) (*model.Member, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errs.Validation("id", "is required")
	}

	member, err := uc.members.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			uc.logger.Error("failed to get member", zap.Error(err), zap.String("memberID", id))
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

func (uc *memberUseCase) Update(ctx context.Context, id string, in UpdateInput) (*model.Member, error) {
	current, err := uc.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update, err := buildUpdate(in)
	if err != nil {
		return nil, err
	}

	// Switching away from a monthly pledge clears the amount unless the caller set one.
	if update.DonationPreference != nil && *update.DonationPreference != model.DonationMonthly && update.MonthlyAmount == nil {
		zero := 0
		update.MonthlyAmount = &zero
	}

	next := preview(*current, update)
	if next.Active && next.ApplicationStatus != model.ApplicationApproved {
		return nil, errs.InvalidState("member", id, string(next.ApplicationStatus), string(model.ApplicationApproved))
	}
	if err := next.Validate(); err != nil {
		return nil, errs.Validation("", err.Error())
	}

	updated, err := uc.members.Update(ctx, id, update)
	if err != nil {
		uc.logger.Error("failed to update member", zap.Error(err), zap.String("memberID", id))
		return nil, fmt.Errorf("failed to update member: %w", err)
	}

	uc.logger.Info("member updated", zap.String("memberID", id))
	return updated, nil
}

func buildUpdate(in UpdateInput) (repository.MemberUpdate, error) {
	u := repository.MemberUpdate{
		FullName: trimmed(in.FullName),
		Email:    trimmed(in.Email),
		Phone:    trimmed(in.Phone),
		Address:  trimmed(in.Address),
		City:     trimmed(in.City),
		State:    trimmed(in.State),
		Pincode:  trimmed(in.Pincode),
		Active:   in.Active,
	}

	for field, v := range map[string]*string{
		"full_name": u.FullName,
		"email":     u.Email,
		"phone":     u.Phone,
		"address":   u.Address,
		"city":      u.City,
		"state":     u.State,
		"pincode":   u.Pincode,
	} {
		if v != nil && *v == "" {
			return u, errs.Validation(field, "must not be empty")
		}
	}

	if in.DonationPreference != nil {
		p, err := model.ParseDonationPreference(*in.DonationPreference)
		if err != nil {
			return u, errs.Validation("donation_preference", err.Error())
		}
		u.DonationPreference = &p
	}
	if in.PaymentStatus != nil {
		s, err := model.ParseMemberPaymentStatus(*in.PaymentStatus)
		if err != nil {
			return u, errs.Validation("payment_status", err.Error())
		}
		u.PaymentStatus = &s
	}
	if in.MonthlyAmount != nil {
		if *in.MonthlyAmount < 0 {
			return u, errs.Validation("monthly_amount", "must not be negative")
		}
		u.MonthlyAmount = in.MonthlyAmount
	}

	return u, nil
}

func preview(m model.Member, u repository.MemberUpdate) model.Member {
	if u.DonationPreference != nil {
		m.DonationPreference = *u.DonationPreference
	}
	if u.MonthlyAmount != nil {
		m.MonthlyAmount = *u.MonthlyAmount
	}
	if u.PaymentStatus != nil {
		m.PaymentStatus = *u.PaymentStatus
	}
	if u.Active != nil {
		m.Active = *u.Active
	}
	return m
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}
