package model

import "time"

// MinimumDonation is the smallest accepted payment amount, in whole rupees.
const MinimumDonation = 100

type Payment struct {
	ID string `gorm:"type:VARCHAR(36);primaryKey"`

	Name  string `gorm:"type:VARCHAR(120);not null"`
	Email string `gorm:"type:VARCHAR(254);not null;index"`
	Phone string `gorm:"type:VARCHAR(20);not null"`

	Amount  int           `gorm:"not null"`
	Type    PaymentType   `gorm:"type:VARCHAR(16);not null;index"`
	Status  PaymentStatus `gorm:"type:VARCHAR(16);not null;index"`
	Message *string       `gorm:"type:TEXT;null"`

	// Set when the donor is a registered member.
	MemberID *string `gorm:"type:VARCHAR(36);null;index"`

	GatewayReference *string    `gorm:"type:VARCHAR(64);null;uniqueIndex"`
	SettledAt        *time.Time `gorm:"type:TIMESTAMP with time zone;null"`

	CreatedAt time.Time `gorm:"type:TIMESTAMP with time zone;not null;index"`
}
