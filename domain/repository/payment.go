package repository

import (
	"context"
	"time"

	"github.com/anjaliconnect/api/domain/model"
)

type PaymentQuery struct {
	Status   *model.PaymentStatus
	Type     *model.PaymentType
	MemberID *string
	Limit    int
}

type PaymentTotals struct {
	TotalAmount     int64
	CompletedAmount int64
	CompletedCount  int64
	PendingCount    int64
	FailedCount     int64
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	List(ctx context.Context, q PaymentQuery) ([]model.Payment, error)
	// Settle moves a pending payment to status. It reports false when the
	// payment was already settled.
	Settle(ctx context.Context, id string, status model.PaymentStatus, reference string, at time.Time) (bool, error)
	Totals(ctx context.Context) (PaymentTotals, error)
}
