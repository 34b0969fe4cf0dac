package model

import (
	"errors"
	"time"
)

type Member struct {
	ID string `gorm:"type:VARCHAR(36);primaryKey"`

	FullName string `gorm:"type:VARCHAR(120);not null"`
	Email    string `gorm:"type:VARCHAR(254);not null;index"`
	Phone    string `gorm:"type:VARCHAR(20);not null"`
	Address  string `gorm:"type:TEXT;not null"`
	City     string `gorm:"type:VARCHAR(80);not null;index"`
	State    string `gorm:"type:VARCHAR(80);not null"`
	Pincode  string `gorm:"type:VARCHAR(12);not null"`

	DonationPreference DonationPreference  `gorm:"type:VARCHAR(16);not null;index"`
	MonthlyAmount      int                 `gorm:"not null;default:0"`
	PaymentStatus      MemberPaymentStatus `gorm:"type:VARCHAR(16);not null;index"`
	LastPaymentDate    *time.Time          `gorm:"type:TIMESTAMP with time zone;null"`

	// Application workflow
	ApplicationStatus ApplicationStatus `gorm:"type:VARCHAR(16);not null;index"`
	ApplicationDate   time.Time         `gorm:"type:TIMESTAMP with time zone;not null;index"`
	Active            bool              `gorm:"not null;default:false;index"`
	MemberSince       *time.Time        `gorm:"type:TIMESTAMP with time zone;null"`
	ApprovedBy        *string           `gorm:"type:VARCHAR(254);null"`
	ApprovedDate      *time.Time        `gorm:"type:TIMESTAMP with time zone;null"`
	RejectionReason   *string           `gorm:"type:TEXT;null"`

	CreatedAt time.Time `gorm:"type:TIMESTAMP with time zone;not null"`
	UpdatedAt time.Time `gorm:"type:TIMESTAMP with time zone;not null"`
}

// Validate checks the cross-field invariants every persisted member must hold.
func (m Member) Validate() error {
	if !m.DonationPreference.Valid() {
		return errors.New("invalid donation preference")
	}
	if !m.PaymentStatus.Valid() {
		return errors.New("invalid payment status")
	}
	if !m.ApplicationStatus.Valid() {
		return errors.New("invalid application status")
	}
	if m.Active && m.ApplicationStatus != ApplicationApproved {
		return errors.New("only approved members can be active")
	}
	if (m.RejectionReason != nil) != (m.ApplicationStatus == ApplicationRejected) {
		return errors.New("rejection reason must be set exactly when the application is rejected")
	}
	if (m.MonthlyAmount > 0) != (m.DonationPreference == DonationMonthly) {
		return errors.New("monthly amount must be positive exactly when the preference is monthly")
	}
	return nil
}

// DueForReminder reports whether the monthly reminder applies to m.
func (m Member) DueForReminder() bool {
	return m.PaymentStatus == MemberPaymentPending &&
		m.DonationPreference == DonationMonthly &&
		m.Active
}
