package repository

import (
	"context"
	"time"

	"github.com/anjaliconnect/api/domain/filter"
	"github.com/anjaliconnect/api/domain/model"
)

// MemberQuery selects members by equality on each non-nil field.
type MemberQuery struct {
	ApplicationStatus  *model.ApplicationStatus
	PaymentStatus      *model.MemberPaymentStatus
	DonationPreference *model.DonationPreference
	Active             *bool

	// Newest applications first when set.
	NewestFirst bool
	Limit       int
}

// MemberUpdate is a partial update; nil fields are left untouched.
type MemberUpdate struct {
	FullName *string
	Email    *string
	Phone    *string
	Address  *string
	City     *string
	State    *string
	Pincode  *string

	DonationPreference *model.DonationPreference
	MonthlyAmount      *int
	PaymentStatus      *model.MemberPaymentStatus
	LastPaymentDate    *time.Time

	ApplicationStatus *model.ApplicationStatus
	Active            *bool
	MemberSince       *time.Time
	ApprovedBy        *string
	ApprovedDate      *time.Time
	RejectionReason   *string
}

type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	GetByID(ctx context.Context, id string) (*model.Member, error)
	Query(ctx context.Context, q MemberQuery) ([]model.Member, error)
	Count(ctx context.Context, q MemberQuery) (int64, error)
	Update(ctx context.Context, id string, u MemberUpdate) (*model.Member, error)
	// TransitionApplication applies u only while the member's application
	// status still equals from. It reports whether the row was changed.
	TransitionApplication(ctx context.Context, id string, from model.ApplicationStatus, u MemberUpdate) (bool, error)
	GetByFilter(ctx context.Context, req filter.PaginationInputWithFilter) (int64, []model.Member, error)
}
