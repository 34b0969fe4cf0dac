package application

import (
	"time"

	"github.com/anjaliconnect/api/domain/model"
)

type SubmitApplicationRequest struct {
	FullName           string `json:"full_name" binding:"required,max=120"`
	Email              string `json:"email" binding:"required,email,max=254"`
	Phone              string `json:"phone" binding:"required,phone"`
	Address            string `json:"address" binding:"required,max=500"`
	City               string `json:"city" binding:"required,max=80"`
	State              string `json:"state" binding:"required,max=80"`
	Pincode            string `json:"pincode" binding:"required,pincode"`
	DonationPreference string `json:"donation_preference" binding:"required,oneof=monthly one-time none"`
	MonthlyAmount      int    `json:"monthly_amount" binding:"gte=0"`
	TermsAccepted      bool   `json:"terms_accepted"`
}

type RejectApplicationRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

type ApplicationResponse struct {
	ID                 string     `json:"id"`
	FullName           string     `json:"full_name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	City               string     `json:"city"`
	State              string     `json:"state"`
	DonationPreference string     `json:"donation_preference"`
	MonthlyAmount      int        `json:"monthly_amount,omitempty"`
	ApplicationStatus  string     `json:"application_status"`
	ApplicationDate    time.Time  `json:"application_date"`
	Active             bool       `json:"active"`
	MemberSince        *time.Time `json:"member_since,omitempty"`
	ApprovedBy         *string    `json:"approved_by,omitempty"`
	ApprovedDate       *time.Time `json:"approved_date,omitempty"`
	RejectionReason    *string    `json:"rejection_reason,omitempty"`
}

func toApplicationResponse(m *model.Member) ApplicationResponse {
	return ApplicationResponse{
		ID:                 m.ID,
		FullName:           m.FullName,
		Email:              m.Email,
		Phone:              m.Phone,
		City:               m.City,
		State:              m.State,
		DonationPreference: string(m.DonationPreference),
		MonthlyAmount:      m.MonthlyAmount,
		ApplicationStatus:  string(m.ApplicationStatus),
		ApplicationDate:    m.ApplicationDate,
		Active:             m.Active,
		MemberSince:        m.MemberSince,
		ApprovedBy:         m.ApprovedBy,
		ApprovedDate:       m.ApprovedDate,
		RejectionReason:    m.RejectionReason,
	}
}
