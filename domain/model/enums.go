package model

import (
	"database/sql/driver"
	"fmt"
)

// ApplicationStatus is the decision state of a membership application.
type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "pending"
	ApplicationApproved ApplicationStatus = "approved"
	ApplicationRejected ApplicationStatus = "rejected"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no workflow transition can leave s.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationApproved || s == ApplicationRejected
}

func ParseApplicationStatus(v string) (ApplicationStatus, error) {
	return parseEnum(v, "application status", ApplicationStatus.Valid)
}

func (s *ApplicationStatus) Scan(src any) error {
	return scanEnum(src, s, ParseApplicationStatus)
}

func (s ApplicationStatus) Value() (driver.Value, error) {
	return valueEnum(s, "application status", ApplicationStatus.Valid)
}

// MemberPaymentStatus tracks whether a member's current contribution is settled.
type MemberPaymentStatus string

const (
	MemberPaymentPending MemberPaymentStatus = "pending"
	MemberPaymentPaid    MemberPaymentStatus = "paid"
)

func (s MemberPaymentStatus) Valid() bool {
	return s == MemberPaymentPending || s == MemberPaymentPaid
}

func ParseMemberPaymentStatus(v string) (MemberPaymentStatus, error) {
	return parseEnum(v, "member payment status", MemberPaymentStatus.Valid)
}

func (s *MemberPaymentStatus) Scan(src any) error {
	return scanEnum(src, s, ParseMemberPaymentStatus)
}

func (s MemberPaymentStatus) Value() (driver.Value, error) {
	return valueEnum(s, "member payment status", MemberPaymentStatus.Valid)
}

// DonationPreference is the contribution a member pledged on application.
type DonationPreference string

const (
	DonationMonthly DonationPreference = "monthly"
	DonationOneTime DonationPreference = "one-time"
	DonationNone    DonationPreference = "none"
)

func (p DonationPreference) Valid() bool {
	switch p {
	case DonationMonthly, DonationOneTime, DonationNone:
		return true
	}
	return false
}

func ParseDonationPreference(v string) (DonationPreference, error) {
	return parseEnum(v, "donation preference", DonationPreference.Valid)
}

func (p *DonationPreference) Scan(src any) error {
	return scanEnum(src, p, ParseDonationPreference)
}

func (p DonationPreference) Value() (driver.Value, error) {
	return valueEnum(p, "donation preference", DonationPreference.Valid)
}

// PaymentType distinguishes recurring from single donations.
type PaymentType string

const (
	PaymentMonthly PaymentType = "monthly"
	PaymentOneTime PaymentType = "one-time"
)

func (t PaymentType) Valid() bool {
	return t == PaymentMonthly || t == PaymentOneTime
}

func ParsePaymentType(v string) (PaymentType, error) {
	return parseEnum(v, "payment type", PaymentType.Valid)
}

func (t *PaymentType) Scan(src any) error {
	return scanEnum(src, t, ParsePaymentType)
}

func (t PaymentType) Value() (driver.Value, error) {
	return valueEnum(t, "payment type", PaymentType.Valid)
}

// PaymentStatus is the ledger state of a single payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return true
	}
	return false
}

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

func ParsePaymentStatus(v string) (PaymentStatus, error) {
	return parseEnum(v, "payment status", PaymentStatus.Valid)
}

func (s *PaymentStatus) Scan(src any) error {
	return scanEnum(src, s, ParsePaymentStatus)
}

func (s PaymentStatus) Value() (driver.Value, error) {
	return valueEnum(s, "payment status", PaymentStatus.Valid)
}

// DispatchType labels which reminder run produced an audit entry.
type DispatchType string

const (
	DispatchMonthlyReminder DispatchType = "monthly_reminder"
	DispatchManualReminder  DispatchType = "manual_reminder"
)

func (t DispatchType) Valid() bool {
	return t == DispatchMonthlyReminder || t == DispatchManualReminder
}

func ParseDispatchType(v string) (DispatchType, error) {
	return parseEnum(v, "dispatch type", DispatchType.Valid)
}

func (t *DispatchType) Scan(src any) error {
	return scanEnum(src, t, ParseDispatchType)
}

func (t DispatchType) Value() (driver.Value, error) {
	return valueEnum(t, "dispatch type", DispatchType.Valid)
}

// DeliveryStatus is the outcome of one notification attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

func (s DeliveryStatus) Valid() bool {
	return s == DeliverySent || s == DeliveryFailed
}

func ParseDeliveryStatus(v string) (DeliveryStatus, error) {
	return parseEnum(v, "delivery status", DeliveryStatus.Valid)
}

func (s *DeliveryStatus) Scan(src any) error {
	return scanEnum(src, s, ParseDeliveryStatus)
}

func (s DeliveryStatus) Value() (driver.Value, error) {
	return valueEnum(s, "delivery status", DeliveryStatus.Valid)
}

func parseEnum[T ~string](v string, name string, valid func(T) bool) (T, error) {
	t := T(v)
	if !valid(t) {
		return "", fmt.Errorf("invalid %s %q", name, v)
	}
	return t, nil
}

func scanEnum[T ~string](src any, dst *T, parse func(string) (T, error)) error {
	var raw string
	switch v := src.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	case nil:
		return fmt.Errorf("cannot scan NULL into %T", dst)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dst)
	}

	parsed, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = parsed
	return nil
}

func valueEnum[T ~string](v T, name string, valid func(T) bool) (driver.Value, error) {
	if !valid(v) {
		return nil, fmt.Errorf("invalid %s %q", name, string(v))
	}
	return string(v), nil
}
