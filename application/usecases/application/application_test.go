package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository/repositorytest"
	"github.com/anjaliconnect/api/infrastructure/logger"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var (
	approvalTime = time.Date(2024, time.March, 12, 9, 30, 0, 0, time.UTC)
	admin        = model.Caller{Identity: "admin@anjaliconnect.org", Authenticated: true}
)

func pendingMember(id string) model.Member {
	return model.Member{
		ID:                 id,
		FullName:           "Asha Sen",
		Email:              "asha@example.com",
		DonationPreference: model.DonationMonthly,
		MonthlyAmount:      500,
		PaymentStatus:      model.MemberPaymentPending,
		ApplicationStatus:  model.ApplicationPending,
		ApplicationDate:    approvalTime.Add(-48 * time.Hour),
	}
}

func newUseCase(store *repositorytest.MemberStore) ApplicationUseCase {
	return NewApplicationUseCase(store, fixedClock{approvalTime}, logger.NewNop())
}

func validSubmission() SubmitInput {
	return SubmitInput{
		FullName:           " Asha Sen ",
		Email:              "asha@example.com",
		Phone:              "9830000000",
		Address:            "12 Lake Road",
		City:               "Kolkata",
		State:              "West Bengal",
		Pincode:            "700029",
		DonationPreference: "monthly",
		MonthlyAmount:      500,
		TermsAccepted:      true,
	}
}

func TestSubmitCreatesPendingInactiveMember(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore()
	member, err := newUseCase(store).Submit(context.Background(), validSubmission())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	stored, ok := store.Snapshot(member.ID)
	if !ok {
		t.Fatal("member was not stored")
	}
	if stored.FullName != "Asha Sen" {
		t.Fatalf("full name = %q, want trimmed", stored.FullName)
	}
	if stored.ApplicationStatus != model.ApplicationPending || stored.Active {
		t.Fatalf("status = %s active = %v", stored.ApplicationStatus, stored.Active)
	}
	if stored.PaymentStatus != model.MemberPaymentPending {
		t.Fatalf("payment status = %s", stored.PaymentStatus)
	}
	if !stored.ApplicationDate.Equal(approvalTime) {
		t.Fatalf("application date = %v", stored.ApplicationDate)
	}
}

func TestSubmitRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edit  func(*SubmitInput)
		field string
	}{
		{"missing name", func(in *SubmitInput) { in.FullName = "  " }, "full_name"},
		{"bad email", func(in *SubmitInput) { in.Email = "not-an-email" }, "email"},
		{"terms not accepted", func(in *SubmitInput) { in.TermsAccepted = false }, "terms_accepted"},
		{"unknown preference", func(in *SubmitInput) { in.DonationPreference = "weekly" }, "donation_preference"},
		{"monthly without amount", func(in *SubmitInput) { in.MonthlyAmount = 0 }, "monthly_amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := validSubmission()
			tt.edit(&in)

			_, err := newUseCase(repositorytest.NewMemberStore()).Submit(context.Background(), in)
			var verr *errs.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if verr.Field != tt.field {
				t.Fatalf("field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}

func TestSubmitOneTimeIgnoresMonthlyAmount(t *testing.T) {
	t.Parallel()

	in := validSubmission()
	in.DonationPreference = "one-time"
	in.MonthlyAmount = 300

	member, err := newUseCase(repositorytest.NewMemberStore()).Submit(context.Background(), in)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if member.MonthlyAmount != 0 {
		t.Fatalf("monthly amount = %d, want 0", member.MonthlyAmount)
	}
}

func TestApproveActivatesPendingMember(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore(pendingMember("m1"))
	uc := newUseCase(store)

	member, err := uc.Approve(context.Background(), "m1", admin)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}

	if member.ApplicationStatus != model.ApplicationApproved || !member.Active {
		t.Fatalf("status = %s active = %v", member.ApplicationStatus, member.Active)
	}
	if member.MemberSince == nil || !member.MemberSince.Equal(approvalTime) {
		t.Fatalf("member since = %v, want %v", member.MemberSince, approvalTime)
	}
	if member.ApprovedBy == nil || *member.ApprovedBy != admin.Identity {
		t.Fatalf("approved by = %v", member.ApprovedBy)
	}

	_, err = uc.Approve(context.Background(), "m1", admin)
	if !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("second approve err = %v, want invalid state", err)
	}
}

func TestApproveUnknownMember(t *testing.T) {
	t.Parallel()

	_, err := newUseCase(repositorytest.NewMemberStore()).Approve(context.Background(), "ghost", admin)
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestApproveRequiresAuthenticatedAdmin(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore(pendingMember("m1"))
	_, err := newUseCase(store).Approve(context.Background(), "m1", model.AnonymousCaller())
	if !errors.Is(err, errs.ErrUnauthenticated) {
		t.Fatalf("err = %v, want unauthenticated", err)
	}

	stored, _ := store.Snapshot("m1")
	if stored.ApplicationStatus != model.ApplicationPending {
		t.Fatalf("status = %s, want pending", stored.ApplicationStatus)
	}
}

func TestRejectWithEmptyReasonLeavesApplicationPending(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore(pendingMember("m1"))
	_, err := newUseCase(store).Reject(context.Background(), "m1", admin, "   ")
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}

	stored, _ := store.Snapshot("m1")
	if stored.ApplicationStatus != model.ApplicationPending {
		t.Fatalf("status = %s, want pending", stored.ApplicationStatus)
	}
	if stored.RejectionReason != nil {
		t.Fatalf("rejection reason = %q, want unset", *stored.RejectionReason)
	}
}

func TestRejectRecordsReasonAndStaysInactive(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore(pendingMember("m1"))
	member, err := newUseCase(store).Reject(context.Background(), "m1", admin, "incomplete address")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}

	if member.ApplicationStatus != model.ApplicationRejected || member.Active {
		t.Fatalf("status = %s active = %v", member.ApplicationStatus, member.Active)
	}
	if member.RejectionReason == nil || *member.RejectionReason != "incomplete address" {
		t.Fatalf("rejection reason = %v", member.RejectionReason)
	}
	if member.MemberSince != nil {
		t.Fatal("member since set on rejection")
	}
	if err := member.Validate(); err != nil {
		t.Fatalf("rejected member violates invariants: %v", err)
	}
}

func TestDecisionsAreTerminal(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore(pendingMember("m1"))
	uc := newUseCase(store)
	ctx := context.Background()

	if _, err := uc.Reject(ctx, "m1", admin, "duplicate"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	if _, err := uc.Approve(ctx, "m1", admin); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("approve after reject err = %v, want invalid state", err)
	}
}

func TestConcurrentApprovalsHaveOneWinner(t *testing.T) {
	t.Parallel()

	store := repositorytest.NewMemberStore(pendingMember("m1"))
	uc := newUseCase(store)

	const callers = 8
	results := make(chan error, callers)
	for range callers {
		go func() {
			_, err := uc.Approve(context.Background(), "m1", admin)
			results <- err
		}()
	}

	wins := 0
	for range callers {
		err := <-results
		switch {
		case err == nil:
			wins++
		case !errors.Is(err, errs.ErrInvalidState):
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("wins = %d, want 1", wins)
	}
}

func TestListPendingNewestFirst(t *testing.T) {
	t.Parallel()

	older := pendingMember("old")
	newer := pendingMember("new")
	newer.ApplicationDate = older.ApplicationDate.Add(time.Hour)
	approved := pendingMember("done")
	approved.ApplicationStatus = model.ApplicationApproved

	members, err := newUseCase(repositorytest.NewMemberStore(older, newer, approved)).ListPending(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(members) != 2 || members[0].ID != "new" || members[1].ID != "old" {
		t.Fatalf("members = %+v", members)
	}
}
