package payment

import (
	"time"

	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository"
)

type RecordPaymentRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Phone    string `json:"phone" binding:"required,phone"`
	Amount   int    `json:"amount" binding:"required,gte=100"`
	Type     string `json:"type" binding:"required,oneof=monthly one-time"`
	Message  string `json:"message" binding:"omitempty,max=1000"`
	MemberID string `json:"member_id" binding:"omitempty,uuid"`
}

// SettlementRequest is the gateway webhook body. The payment ID comes from the path.
type SettlementRequest struct {
	Status           string `json:"status" binding:"required,oneof=completed failed"`
	GatewayReference string `json:"gateway_reference" binding:"omitempty,max=64"`
}

type ListPaymentsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending completed failed"`
	Type   string `form:"type" binding:"omitempty,oneof=monthly one-time"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1,lte=500"`
}

type PaymentResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Phone            string     `json:"phone"`
	Amount           int        `json:"amount"`
	Type             string     `json:"type"`
	Status           string     `json:"status"`
	Message          *string    `json:"message,omitempty"`
	MemberID         *string    `json:"member_id,omitempty"`
	GatewayReference *string    `json:"gateway_reference,omitempty"`
	SettledAt        *time.Time `json:"settled_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type SummaryResponse struct {
	TotalAmount     int64 `json:"total_amount"`
	CompletedAmount int64 `json:"completed_amount"`
	CompletedCount  int64 `json:"completed_count"`
	PendingCount    int64 `json:"pending_count"`
	FailedCount     int64 `json:"failed_count"`
}

func toPaymentResponse(p *model.Payment) PaymentResponse {
	return PaymentResponse{
		ID:               p.ID,
		Name:             p.Name,
		Email:            p.Email,
		Phone:            p.Phone,
		Amount:           p.Amount,
		Type:             string(p.Type),
		Status:           string(p.Status),
		Message:          p.Message,
		MemberID:         p.MemberID,
		GatewayReference: p.GatewayReference,
		SettledAt:        p.SettledAt,
		CreatedAt:        p.CreatedAt,
	}
}

func toSummaryResponse(t repository.PaymentTotals) SummaryResponse {
	return SummaryResponse(t)
}
