package member

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/domain/filter"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository/repositorytest"
	"github.com/anjaliconnect/api/infrastructure/logger"
)

func ptr[T any](v T) *T { return &v }

func member(id string, status model.ApplicationStatus, active bool) model.Member {
	return model.Member{
		ID:                 id,
		FullName:           "Member " + id,
		Email:              id + "@example.com",
		DonationPreference: model.DonationMonthly,
		MonthlyAmount:      250,
		PaymentStatus:      model.MemberPaymentPaid,
		ApplicationStatus:  status,
		Active:             active,
		ApplicationDate:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestUpdateResetsPaymentStatus(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore(member("m1", model.ApplicationApproved, true))
	uc := NewMemberUseCase(store, logger.NewNop())

	updated, err := uc.Update(context.Background(), "m1", UpdateInput{PaymentStatus: ptr("pending")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PaymentStatus != model.MemberPaymentPending {
		t.Fatalf("payment status = %s, want pending", updated.PaymentStatus)
	}
}

func TestUpdateRefusesToActivateUnapprovedMember(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore(member("m1", model.ApplicationPending, false))
	uc := NewMemberUseCase(store, logger.NewNop())

	_, err := uc.Update(context.Background(), "m1", UpdateInput{Active: ptr(true)})
	if !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("err = %v, want invalid state", err)
	}

	stored, _ := store.Snapshot("m1")
	if stored.Active {
		t.Fatal("pending member was activated")
	}
}

func TestUpdateKeepsMonthlyInvariant(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore(member("m1", model.ApplicationApproved, true))
	uc := NewMemberUseCase(store, logger.NewNop())
	ctx := context.Background()

	if _, err := uc.Update(ctx, "m1", UpdateInput{MonthlyAmount: ptr(0)}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("zero monthly amount err = %v, want validation", err)
	}

	updated, err := uc.Update(ctx, "m1", UpdateInput{DonationPreference: ptr("one-time")})
	if err != nil {
		t.Fatalf("switch to one-time: %v", err)
	}
	if updated.MonthlyAmount != 0 {
		t.Fatalf("monthly amount = %d, want cleared", updated.MonthlyAmount)
	}
}

func TestUpdateRejectsBlankContactField(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore(member("m1", model.ApplicationApproved, true))
	_, err := NewMemberUseCase(store, logger.NewNop()).Update(context.Background(), "m1", UpdateInput{City: ptr("  ")})

	var verr *errs.ValidationError
	if !errors.As(err, &verr) || verr.Field != "city" {
		t.Fatalf("err = %v, want city validation error", err)
	}
}

func TestGetUnknownMember(t *testing.T) {
	t.Parallel()

	_, err := NewMemberUseCase(repositorytest.NewMemberStore(), logger.NewNop()).GetByID(context.Background(), "ghost")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestListPaginates(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore(
		member("a", model.ApplicationApproved, true),
		member("b", model.ApplicationPending, false),
		member("c", model.ApplicationRejected, false),
	)
	uc := NewMemberUseCase(store, logger.NewNop())

	page, err := uc.List(context.Background(), filter.PaginationInputWithFilter{
		PaginationInput: filter.PaginationInput{PageNumber: 2, PageSize: 2},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.TotalRows != 3 || page.TotalPages != 2 || len(page.Items) != 1 {
		t.Fatalf("page = %+v", page)
	}
	if !page.HasPreviousPage || page.HasNextPage {
		t.Fatalf("page flags = prev %v next %v", page.HasPreviousPage, page.HasNextPage)
	}
}

func TestListRejectsInvalidSearch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		f    filter.DynamicFilter
	}{
		{"incomplete range", filter.DynamicFilter{Filter: map[string]filter.Filter{
			"MonthlyAmount": {Type: filter.FilterInRange, FilterType: filter.DataTypeNumber, From: "100"},
		}}},
		{"unsearchable column", filter.DynamicFilter{Filter: map[string]filter.Filter{
			"RejectionReason": {Type: filter.FilterContains, From: "address"},
		}}},
		{"unknown sort direction", filter.DynamicFilter{Sort: []filter.Sort{{ColID: "FullName", Sort: "up"}}}},
	}

	uc := NewMemberUseCase(repositorytest.NewMemberStore(), logger.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := uc.List(context.Background(), filter.PaginationInputWithFilter{DynamicFilter: tt.f})
			if !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("err = %v, want validation", err)
			}
		})
	}
}
