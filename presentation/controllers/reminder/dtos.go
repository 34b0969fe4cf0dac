package reminder

import (
	"time"

	"github.com/anjaliconnect/api/domain/model"
)

type ManualReminderRequest struct {
	MemberIDs []string `json:"member_ids" binding:"max=500"`
}

// ManualReminderResponse carries no per-recipient outcome; those are read
// from the audit log.
type ManualReminderResponse struct {
	BatchID         string `json:"batch_id,omitempty"`
	DispatchedCount int    `json:"dispatched_count"`
}

type AuditLogQuery struct {
	MemberID string `form:"member_id" binding:"omitempty,max=36"`
	BatchID  string `form:"batch_id" binding:"omitempty,max=36"`
	Type     string `form:"type" binding:"omitempty,oneof=monthly_reminder manual_reminder"`
	Limit    int    `form:"limit" binding:"omitempty,gte=1,lte=1000"`
}

type AuditLogResponse struct {
	EventID      string    `json:"event_id"`
	BatchID      string    `json:"batch_id"`
	Type         string    `json:"type"`
	MemberID     string    `json:"member_id,omitempty"`
	Email        string    `json:"email"`
	SentAt       time.Time `json:"sent_at"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

func toAuditLogResponse(a model.AuditLog) AuditLogResponse {
	return AuditLogResponse{
		EventID:      a.EventID,
		BatchID:      a.BatchID,
		Type:         string(a.Type),
		MemberID:     a.MemberID,
		Email:        a.Email,
		SentAt:       a.SentAt,
		Status:       string(a.Status),
		ErrorMessage: a.ErrorMessage.String,
	}
}
