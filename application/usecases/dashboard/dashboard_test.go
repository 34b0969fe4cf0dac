package dashboard

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository/repositorytest"
	"github.com/anjaliconnect/api/infrastructure/logger"
)

func TestOverviewAggregates(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)
	var members []model.Member
	for i := range 7 {
		m := model.Member{
			ID:                fmt.Sprintf("m%d", i),
			ApplicationStatus: model.ApplicationPending,
			ApplicationDate:   base.Add(time.Duration(i) * time.Hour),
		}
		if i < 3 {
			m.ApplicationStatus = model.ApplicationApproved
			m.Active = true
		}
		members = append(members, m)
	}
	payments := []model.Payment{
		{ID: "p1", Amount: 500, Status: model.PaymentCompleted, CreatedAt: base},
		{ID: "p2", Amount: 250, Status: model.PaymentCompleted, CreatedAt: base.Add(time.Hour)},
		{ID: "p3", Amount: 100, Status: model.PaymentPending, CreatedAt: base.Add(2 * time.Hour)},
	}

	uc := NewDashboardUseCase(repositorytest.NewMemberStore(members...), repositorytest.NewPaymentStore(payments...), logger.NewNop())
	got, err := uc.Overview(context.Background())
	if err != nil {
		t.Fatalf("overview: %v", err)
	}

	if got.TotalMembers != 7 || got.ActiveMembers != 3 || got.PendingApplications != 4 {
		t.Fatalf("member counts = %d/%d/%d", got.TotalMembers, got.ActiveMembers, got.PendingApplications)
	}
	if got.PendingPayments != 1 || got.TotalRevenue != 750 {
		t.Fatalf("payments = pending %d revenue %d", got.PendingPayments, got.TotalRevenue)
	}
	if len(got.RecentMembers) != recentLimit || got.RecentMembers[0].ID != "m6" {
		t.Fatalf("recent members = %+v", got.RecentMembers)
	}
	if len(got.RecentPayments) != 3 || got.RecentPayments[0].ID != "p3" {
		t.Fatalf("recent payments = %+v", got.RecentPayments)
	}
}

func TestOverviewPropagatesRegistryFailure(t *testing.T) {
	t.Parallel()

	members := repositorytest.NewMemberStore()
	members.QueryErr = errors.New("connection reset")

	_, err := NewDashboardUseCase(members, repositorytest.NewPaymentStore(), logger.NewNop()).Overview(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}
