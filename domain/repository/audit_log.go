package repository

import (
	"context"

	"github.com/anjaliconnect/api/domain/model"
)

type AuditLogQuery struct {
	MemberID string
	BatchID  string
	Type     model.DispatchType
	Limit    int
}

// AuditLogRepository is append-only: there is no update or delete.
// Append must be safe for concurrent use.
type AuditLogRepository interface {
	Append(ctx context.Context, a model.AuditLog) (model.AuditLog, error)
	List(ctx context.Context, q AuditLogQuery) ([]model.AuditLog, error)
}
