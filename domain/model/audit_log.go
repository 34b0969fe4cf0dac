package model

import (
	"database/sql"
	"time"
)

// AuditLog records the outcome of one notification attempt to one recipient.
// Rows are only ever inserted.
type AuditLog struct {
	ID        int       `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"type:TIMESTAMP with time zone;not null;index"`

	// Event identity
	EventID string       `gorm:"type:VARCHAR(36);not null;uniqueIndex"`
	BatchID string       `gorm:"type:VARCHAR(36);not null;index"`
	Type    DispatchType `gorm:"type:VARCHAR(32);not null;index"`

	// Recipient
	MemberID string `gorm:"type:VARCHAR(36);not null;index"`
	Email    string `gorm:"type:VARCHAR(254);not null"`

	// Outcome
	SentAt       time.Time      `gorm:"type:TIMESTAMP with time zone;not null"`
	Status       DeliveryStatus `gorm:"type:VARCHAR(16);not null;index"`
	ErrorMessage sql.NullString `gorm:"type:TEXT;null"`
}
