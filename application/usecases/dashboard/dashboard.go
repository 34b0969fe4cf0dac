package dashboard

import (
	"context"
	"fmt"

	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository"
	"github.com/anjaliconnect/api/infrastructure/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const recentLimit = 5

type Overview struct {
	TotalMembers        int64           `json:"total_members"`
	ActiveMembers       int64           `json:"active_members"`
	PendingApplications int64           `json:"pending_applications"`
	PendingPayments     int64           `json:"pending_payments"`
	TotalRevenue        int64           `json:"total_revenue"`
	RecentMembers       []model.Member  `json:"recent_members"`
	RecentPayments      []model.Payment `json:"recent_payments"`
}

type DashboardUseCase interface {
	Overview(ctx context.Context) (Overview, error)
}

type dashboardUseCase struct {
	members  repository.MemberRepository
	payments repository.PaymentRepository
	logger   *logger.Logger
}

func NewDashboardUseCase(
	members repository.MemberRepository,
	payments repository.PaymentRepository,
	logger *logger.Logger,
) DashboardUseCase {
	return &dashboardUseCase{
		members:  members,
		payments: payments,
		logger:   logger,
	}
}

func (uc *dashboardUseCase) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	active := true
	pending := model.ApplicationPending

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TotalMembers, err = uc.members.Count(ctx, repository.MemberQuery{})
		return err
	})
	g.Go(func() (err error) {
		out.ActiveMembers, err = uc.members.Count(ctx, repository.MemberQuery{Active: &active})
		return err
	})
	g.Go(func() (err error) {
		out.PendingApplications, err = uc.members.Count(ctx, repository.MemberQuery{ApplicationStatus: &pending})
		return err
	})
	g.Go(func() error {
		totals, err := uc.payments.Totals(ctx)
		if err != nil {
			return err
		}
		out.PendingPayments = totals.PendingCount
		out.TotalRevenue = totals.CompletedAmount
		return nil
	})
	g.Go(func() (err error) {
		out.RecentMembers, err = uc.members.Query(ctx, repository.MemberQuery{NewestFirst: true, Limit: recentLimit})
		return err
	})
	g.Go(func() (err error) {
		out.RecentPayments, err = uc.payments.List(ctx, repository.PaymentQuery{Limit: recentLimit})
		return err
	})

	if err := g.Wait(); err != nil {
		uc.logger.Error("failed to build dashboard", zap.Error(err))
		return Overview{}, fmt.Errorf("failed to build dashboard: %w", err)
	}
	return out, nil
}
