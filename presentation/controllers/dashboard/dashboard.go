package dashboard

import (
	"net/http"
	"time"

	dashboardUseCase "github.com/anjaliconnect/api/application/usecases/dashboard"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/presentation/controllers/common"
	"github.com/gin-gonic/gin"
)

type DashboardController interface {
	Overview(ctx *gin.Context)
}

type dashboardController struct {
	usecase dashboardUseCase.DashboardUseCase
}

func NewDashboardController(usecase dashboardUseCase.DashboardUseCase) DashboardController {
	return &dashboardController{
		usecase: usecase,
	}
}

type OverviewResponse struct {
	TotalMembers        int64           `json:"total_members"`
	ActiveMembers       int64           `json:"active_members"`
	PendingApplications int64           `json:"pending_applications"`
	PendingPayments     int64           `json:"pending_payments"`
	TotalRevenue        int64           `json:"total_revenue"`
	RecentMembers       []RecentMember  `json:"recent_members"`
	RecentPayments      []RecentPayment `json:"recent_payments"`
}

type RecentMember struct {
	ID                string    `json:"id"`
	FullName          string    `json:"full_name"`
	City              string    `json:"city"`
	ApplicationStatus string    `json:"application_status"`
	ApplicationDate   time.Time `json:"application_date"`
}

type RecentPayment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Amount    int       `json:"amount"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *dashboardController) Overview(ctx *gin.Context) {
	overview, err := c.usecase.Overview(ctx.Request.Context())
	if err != nil {
		common.WriteError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toOverviewResponse(overview))
}

func toOverviewResponse(o dashboardUseCase.Overview) OverviewResponse {
	resp := OverviewResponse{
		TotalMembers:        o.TotalMembers,
		ActiveMembers:       o.ActiveMembers,
		PendingApplications: o.PendingApplications,
		PendingPayments:     o.PendingPayments,
		TotalRevenue:        o.TotalRevenue,
		RecentMembers:       make([]RecentMember, 0, len(o.RecentMembers)),
		RecentPayments:      make([]RecentPayment, 0, len(o.RecentPayments)),
	}
	for _, m := range o.RecentMembers {
		resp.RecentMembers = append(resp.RecentMembers, toRecentMember(m))
	}
	for _, p := range o.RecentPayments {
		resp.RecentPayments = append(resp.RecentPayments, toRecentPayment(p))
	}
	return resp
}

func toRecentMember(m model.Member) RecentMember {
	return RecentMember{
		ID:                m.ID,
		FullName:          m.FullName,
		City:              m.City,
		ApplicationStatus: string(m.ApplicationStatus),
		ApplicationDate:   m.ApplicationDate,
	}
}

func toRecentPayment(p model.Payment) RecentPayment {
	return RecentPayment{
		ID:        p.ID,
		Name:      p.Name,
		Amount:    p.Amount,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}
