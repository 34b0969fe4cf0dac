package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository"
	"github.com/anjaliconnect/api/infrastructure/common"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SubmitInput struct {
	FullName           string
	Email              string
	Phone              string
	Address            string
	City               string
	State              string
	Pincode            string
	DonationPreference string
	MonthlyAmount      int
	TermsAccepted      bool
}

type ApplicationUseCase interface {
	Submit(ctx context.Context, in SubmitInput) (*model.Member, error)
	Approve(ctx context.Context, memberID string, admin model.Caller) (*model.Member, error)
	Reject(ctx context.Context, memberID string, admin model.Caller, reason string) (*model.Member, error)
	ListPending(ctx context.Context) ([]model.Member, error)
}

type applicationUseCase struct {
	members  repository.MemberRepository
	clock    common.Clock
	validate *validator.Validate
	logger   *logger.Logger
}

func NewApplicationUseCase(
	members repository.MemberRepository,
	clock common.Clock,
	logger *logger.Logger,
) ApplicationUseCase {
	return &applicationUseCase{
		members:  members,
		clock:    clock,
		validate: validator.New(),
		logger:   logger,
	}
}

func (uc *applicationUseCase) Submit(ctx context.Context, in SubmitInput) (*model.Member, error) {
	in = trimSubmitInput(in)

	required := []struct{ field, value string }{
		{"full_name", in.FullName},
		{"email", in.Email},
		{"phone", in.Phone},
		{"address", in.Address},
		{"city", in.City},
		{"state", in.State},
		{"pincode", in.Pincode},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, errs.Validation(r.field, "is required")
		}
	}
	if err := uc.validate.Var(in.Email, "email"); err != nil {
		return nil, errs.Validation("email", "must be a valid email address")
	}
	if !in.TermsAccepted {
		return nil, errs.Validation("terms_accepted", "terms must be accepted")
	}

	preference, err := model.ParseDonationPreference(in.DonationPreference)
	if err != nil {
		return nil, errs.Validation("donation_preference", err.Error())
	}

	amount := 0
	if preference == model.DonationMonthly {
		if in.MonthlyAmount <= 0 {
			return nil, errs.Validation("monthly_amount", "must be positive for a monthly pledge")
		}
		amount = in.MonthlyAmount
	}

	now := uc.clock.Now()
	member := &model.Member{
		ID:                 uuid.NewString(),
		FullName:           in.FullName,
		Email:              in.Email,
		Phone:              in.Phone,
		Address:            in.Address,
		City:               in.City,
		State:              in.State,
		Pincode:            in.Pincode,
		DonationPreference: preference,
		MonthlyAmount:      amount,
		PaymentStatus:      model.MemberPaymentPending,
		ApplicationStatus:  model.ApplicationPending,
		ApplicationDate:    now,
		Active:             false,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := member.Validate(); err != nil {
		return nil, errs.Validation("", err.Error())
	}

	if err := uc.members.Create(ctx, member); err != nil {
		uc.logger.Error("failed to create member application", zap.Error(err), zap.String("email", member.Email))
		return nil, fmt.Errorf("failed to submit application: %w", err)
	}

	uc.logger.Info("membership application submitted",
		zap.String("memberID", member.ID),
		zap.String("preference", string(member.DonationPreference)),
	)
	return member, nil
}

func (uc *applicationUseCase) Approve(ctx context.Context, memberID string, admin model.Caller) (*model.Member, error) {
	if !admin.Authenticated || admin.Identity == "" {
		return nil, &errs.UnauthenticatedError{}
	}

	now := uc.clock.Now()
	status := model.ApplicationApproved
	active := true
	update := repository.MemberUpdate{
		ApplicationStatus: &status,
		Active:            &active,
		MemberSince:       &now,
		ApprovedBy:        &admin.Identity,
		ApprovedDate:      &now,
	}

	member, err := uc.decide(ctx, memberID, status, update)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("membership application approved",
		zap.String("memberID", memberID),
		zap.String("approvedBy", admin.Identity),
	)
	return member, nil
}

func (uc *applicationUseCase) Reject(ctx context.Context, memberID string, admin model.Caller, reason string) (*model.Member, error) {
	if !admin.Authenticated || admin.Identity == "" {
		return nil, &errs.UnauthenticatedError{}
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errs.Validation("reason", "is required")
	}

	now := uc.clock.Now()
	status := model.ApplicationRejected
	update := repository.MemberUpdate{
		ApplicationStatus: &status,
		RejectionReason:   &reason,
		ApprovedBy:        &admin.Identity,
		ApprovedDate:      &now,
	}

	member, err := uc.decide(ctx, memberID, status, update)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("membership application rejected",
		zap.String("memberID", memberID),
		zap.String("rejectedBy", admin.Identity),
	)
	return member, nil
}

// decide applies a terminal decision to a pending application. The pending
// check is repeated inside the conditional update, so only one concurrent
// decision can win.
func (uc *applicationUseCase) decide(ctx context.Context, memberID string, to model.ApplicationStatus, update repository.MemberUpdate) (*model.Member, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return nil, errs.Validation("member_id", "is required")
	}

	current, err := uc.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, uc.lookupError(memberID, err)
	}
	if current.ApplicationStatus != model.ApplicationPending {
		return nil, errs.InvalidState("application", memberID, string(current.ApplicationStatus), string(model.ApplicationPending))
	}

	applied, err := uc.members.TransitionApplication(ctx, memberID, model.ApplicationPending, update)
	if err != nil {
		uc.logger.Error("failed to transition application", zap.Error(err), zap.String("memberID", memberID), zap.String("to", string(to)))
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	decided, err := uc.members.GetByID(ctx, memberID)
	if err != nil {
		return nil, uc.lookupError(memberID, err)
	}
	if !applied {
		uc.logger.Warn("application decided concurrently",
			zap.String("memberID", memberID),
			zap.String("status", string(decided.ApplicationStatus)),
		)
		return nil, errs.InvalidState("application", memberID, string(decided.ApplicationStatus), string(model.ApplicationPending))
	}

	return decided, nil
}

func (uc *applicationUseCase) ListPending(ctx context.Context) ([]model.Member, error) {
	status := model.ApplicationPending
	members, err := uc.members.Query(ctx, repository.MemberQuery{
		ApplicationStatus: &status,
		NewestFirst:       true,
	})
	if err != nil {
		uc.logger.Error("failed to list pending applications", zap.Error(err))
		return nil, fmt.Errorf("failed to list pending applications: %w", err)
	}
	return members, nil
}

func (uc *applicationUseCase) lookupError(memberID string, err error) error {
	if errors.Is(err, errs.ErrNotFound) {
		return err
	}
	uc.logger.Error("failed to get member", zap.Error(err), zap.String("memberID", memberID))
	return fmt.Errorf("failed to get member: %w", err)
}

func trimSubmitInput(in SubmitInput) SubmitInput {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.City = strings.TrimSpace(in.City)
	in.State = strings.TrimSpace(in.State)
	in.Pincode = strings.TrimSpace(in.Pincode)
	in.DonationPreference = strings.TrimSpace(in.DonationPreference)
	return in
}
