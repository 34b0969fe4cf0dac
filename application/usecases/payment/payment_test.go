package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/notification/notificationtest"
	"github.com/anjaliconnect/api/domain/repository/repositorytest"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"github.com/anjaliconnect/api/infrastructure/metrics"
	"go.opentelemetry.io/otel/metric/noop"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var settleTime = time.Date(2024, time.March, 9, 10, 0, 0, 0, time.UTC)

type fixture struct {
	payments *repositorytest.PaymentStore
	members  *repositorytest.MemberStore
	sender   *notificationtest.Sender
	renderer *notificationtest.Renderer
	uc       PaymentUseCase
}

func newFixture(payments []model.Payment, members ...model.Member) *fixture {
	f := &fixture{
		payments: repositorytest.NewPaymentStore(payments...),
		members:  repositorytest.NewMemberStore(members...),
		sender:   &notificationtest.Sender{},
		renderer: &notificationtest.Renderer{},
	}
	log := logger.NewNop()
	f.uc = NewPaymentUseCase(
		f.payments, f.members, f.sender, f.renderer,
		metrics.NewMetricsManager(noop.NewMeterProvider().Meter("test"), log),
		fixedClock{settleTime},
		log,
	)
	return f
}

func pendingPayment(id string) model.Payment {
	return model.Payment{
		ID:        id,
		Name:      "Meera",
		Email:     "meera@example.com",
		Phone:     "9830000001",
		Amount:    500,
		Type:      model.PaymentMonthly,
		Status:    model.PaymentPending,
		CreatedAt: settleTime.Add(-time.Hour),
	}
}

func intent(amount int) RecordIntentInput {
	return RecordIntentInput{
		Name:   "Meera",
		Email:  "meera@example.com",
		Phone:  "9830000001",
		Amount: amount,
		Type:   "one-time",
	}
}

func TestRecordIntentMinimumAmountBoundary(t *testing.T) {
	t.Parallel()

	f := newFixture(nil)
	ctx := context.Background()

	if _, err := f.uc.RecordIntent(ctx, intent(50)); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("amount 50 err = %v, want validation", err)
	}
	if _, err := f.uc.RecordIntent(ctx, intent(99)); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("amount 99 err = %v, want validation", err)
	}

	payment, err := f.uc.RecordIntent(ctx, intent(100))
	if err != nil {
		t.Fatalf("amount 100: %v", err)
	}
	if payment.Status != model.PaymentPending || !payment.CreatedAt.Equal(settleTime) {
		t.Fatalf("payment = %+v", payment)
	}
}

func TestRecordIntentValidatesFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edit  func(*RecordIntentInput)
		field string
	}{
		{"missing name", func(in *RecordIntentInput) { in.Name = "" }, "name"},
		{"missing phone", func(in *RecordIntentInput) { in.Phone = " " }, "phone"},
		{"bad email", func(in *RecordIntentInput) { in.Email = "meera" }, "email"},
		{"bad type", func(in *RecordIntentInput) { in.Type = "yearly" }, "type"},
		{"unknown member", func(in *RecordIntentInput) { in.MemberID = "ghost" }, "member_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			in := intent(200)
			tt.edit(&in)

			_, err := newFixture(nil).uc.RecordIntent(context.Background(), in)
			var verr *errs.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("err = %v, want validation on %s", err, tt.field)
			}
		})
	}
}

func TestSettleCompletedSendsReceiptAndReconcilesMember(t *testing.T) {
	t.Parallel()

	memberID := "m1"
	payment := pendingPayment("p1")
	payment.MemberID = &memberID
	f := newFixture([]model.Payment{payment}, model.Member{
		ID:                 memberID,
		DonationPreference: model.DonationMonthly,
		MonthlyAmount:      500,
		PaymentStatus:      model.MemberPaymentPending,
		ApplicationStatus:  model.ApplicationApproved,
		Active:             true,
	})

	err := f.uc.Settle(context.Background(), SettlementEvent{PaymentID: "p1", Status: "completed", GatewayReference: "pay_ABC"})
	if err != nil {
		t.Fatalf("settle: %v", err)
	}

	stored, _ := f.payments.GetByID(context.Background(), "p1")
	if stored.Status != model.PaymentCompleted || stored.GatewayReference == nil || *stored.GatewayReference != "pay_ABC" {
		t.Fatalf("payment = %+v", stored)
	}

	member, _ := f.members.Snapshot(memberID)
	if member.PaymentStatus != model.MemberPaymentPaid {
		t.Fatalf("member payment status = %s, want paid", member.PaymentStatus)
	}
	if member.LastPaymentDate == nil || !member.LastPaymentDate.Equal(settleTime) {
		t.Fatalf("last payment date = %v", member.LastPaymentDate)
	}

	if sent := f.sender.Sent(); len(sent) != 1 || sent[0].To != "meera@example.com" {
		t.Fatalf("sent = %+v", sent)
	}
	if receipts := f.renderer.Receipts(); len(receipts) != 1 || receipts[0].PaymentID != "p1" || receipts[0].Amount != 500 {
		t.Fatalf("receipts = %+v", receipts)
	}
}

func TestSettleFailedSendsNothing(t *testing.T) {
	t.Parallel()

	f := newFixture([]model.Payment{pendingPayment("p1")})
	if err := f.uc.Settle(context.Background(), SettlementEvent{PaymentID: "p1", Status: "failed"}); err != nil {
		t.Fatalf("settle: %v", err)
	}

	stored, _ := f.payments.GetByID(context.Background(), "p1")
	if stored.Status != model.PaymentFailed {
		t.Fatalf("status = %s, want failed", stored.Status)
	}
	if len(f.sender.Sent()) != 0 {
		t.Fatal("failed settlement produced a notification")
	}
}

func TestSettleIsRecordedOnce(t *testing.T) {
	t.Parallel()

	f := newFixture([]model.Payment{pendingPayment("p1")})
	ctx := context.Background()

	if err := f.uc.Settle(ctx, SettlementEvent{PaymentID: "p1", Status: "completed"}); err != nil {
		t.Fatalf("first settle: %v", err)
	}
	if err := f.uc.Settle(ctx, SettlementEvent{PaymentID: "p1", Status: "failed"}); err != nil {
		t.Fatalf("redelivered settle: %v", err)
	}

	stored, _ := f.payments.GetByID(ctx, "p1")
	if stored.Status != model.PaymentCompleted {
		t.Fatalf("status = %s, want completed", stored.Status)
	}
	if n := len(f.sender.Sent()); n != 1 {
		t.Fatalf("receipts sent = %d, want 1", n)
	}
}

func TestRedeliveredCompletionSendsAnotherReceipt(t *testing.T) {
	t.Parallel()

	f := newFixture([]model.Payment{pendingPayment("p1")})
	ctx := context.Background()

	for range 2 {
		if err := f.uc.Settle(ctx, SettlementEvent{PaymentID: "p1", Status: "completed", GatewayReference: "pay_1"}); err != nil {
			t.Fatalf("settle: %v", err)
		}
	}

	if n := len(f.sender.Sent()); n != 2 {
		t.Fatalf("receipts sent = %d, want 2", n)
	}
	stored, _ := f.payments.GetByID(ctx, "p1")
	if stored.Status != model.PaymentCompleted {
		t.Fatalf("status = %s, want completed", stored.Status)
	}
}

func TestSettleRejectsNonTerminalStatus(t *testing.T) {
	t.Parallel()

	f := newFixture([]model.Payment{pendingPayment("p1")})
	for _, status := range []string{"pending", "refunded", ""} {
		err := f.uc.Settle(context.Background(), SettlementEvent{PaymentID: "p1", Status: status})
		if !errors.Is(err, errs.ErrValidation) {
			t.Fatalf("status %q err = %v, want validation", status, err)
		}
	}
}

func TestSettleUnknownPayment(t *testing.T) {
	t.Parallel()

	err := newFixture(nil).uc.Settle(context.Background(), SettlementEvent{PaymentID: "ghost", Status: "completed"})
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestOnSettlementConfirmedIgnoresUnsettledPayment(t *testing.T) {
	t.Parallel()

	f := newFixture([]model.Payment{pendingPayment("p1")})
	f.uc.OnSettlementConfirmed(context.Background(), "p1")

	if len(f.sender.Sent()) != 0 {
		t.Fatal("receipt sent for a pending payment")
	}
}

func TestOnSettlementConfirmedSwallowsDeliveryFailure(t *testing.T) {
	t.Parallel()

	payment := pendingPayment("p1")
	payment.Status = model.PaymentCompleted
	f := newFixture([]model.Payment{payment})
	f.sender.FailFor = []string{payment.Email}

	f.uc.OnSettlementConfirmed(context.Background(), "p1")

	if len(f.renderer.Receipts()) != 1 {
		t.Fatalf("rendered receipts = %d, want 1", len(f.renderer.Receipts()))
	}
	if len(f.sender.Sent()) != 0 {
		t.Fatalf("sent = %+v, want none", f.sender.Sent())
	}
}

func TestSummaryTotals(t *testing.T) {
	t.Parallel()

	completed := pendingPayment("p1")
	completed.Status = model.PaymentCompleted
	failed := pendingPayment("p2")
	failed.Status = model.PaymentFailed
	failed.Amount = 200

	totals, err := newFixture([]model.Payment{completed, failed, pendingPayment("p3")}).uc.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if totals.CompletedAmount != 500 || totals.CompletedCount != 1 || totals.PendingCount != 1 || totals.FailedCount != 1 {
		t.Fatalf("totals = %+v", totals)
	}
	if totals.TotalAmount != 1200 {
		t.Fatalf("total amount = %d, want 1200", totals.TotalAmount)
	}
}

func TestListRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	_, err := newFixture(nil).uc.List(context.Background(), ListFilter{Status: "settled"})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}
