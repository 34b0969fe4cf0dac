package member

import (
	"time"

	"github.com/anjaliconnect/api/domain/filter"
	"github.com/anjaliconnect/api/domain/model"
)

// ListMembersQuery is the query-string form of the member database search.
// Richer filters go through the JSON search endpoint.
type ListMembersQuery struct {
	PageNumber    int    `form:"pageNumber" binding:"omitempty,gte=1"`
	PageSize      int    `form:"pageSize" binding:"omitempty,gte=1,lte=100"`
	Search        string `form:"search" binding:"omitempty,max=120"`
	Email         string `form:"email" binding:"omitempty,max=254"`
	City          string `form:"city" binding:"omitempty,max=80"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending paid"`
	Preference    string `form:"donation_preference" binding:"omitempty,oneof=monthly one-time none"`
	Active        *bool  `form:"active"`
	SortBy        string `form:"sort_by" binding:"omitempty,oneof=FullName Email City ApplicationDate MonthlyAmount LastPaymentDate"`
	Order         string `form:"order" binding:"omitempty,oneof=asc desc"`
}

func (q ListMembersQuery) toFilter() filter.PaginationInputWithFilter {
	req := filter.PaginationInputWithFilter{
		PaginationInput: filter.PaginationInput{
			PageNumber: q.PageNumber,
			PageSize:   q.PageSize,
		},
	}

	filters := map[string]filter.Filter{}
	text := func(field, value string, op filter.FilterType) {
		if value != "" {
			filters[field] = filter.Filter{Type: op, FilterType: filter.DataTypeText, From: value}
		}
	}
	text("FullName", q.Search, filter.FilterContains)
	text("Email", q.Email, filter.FilterContains)
	text("City", q.City, filter.FilterContains)
	text("PaymentStatus", q.PaymentStatus, filter.FilterEquals)
	text("DonationPreference", q.Preference, filter.FilterEquals)
	if q.Active != nil {
		active := "false"
		if *q.Active {
			active = "true"
		}
		filters["Active"] = filter.Filter{Type: filter.FilterEquals, FilterType: filter.DataTypeText, From: active}
	}
	if len(filters) > 0 {
		req.Filter = filters
	}

	if q.SortBy != "" {
		direction := filter.SortDesc
		if q.Order == string(filter.SortAsc) {
			direction = filter.SortAsc
		}
		req.Sort = []filter.Sort{{ColID: q.SortBy, Sort: direction}}
	}

	return req
}

type UpdateMemberRequest struct {
	FullName           *string `json:"full_name" binding:"omitempty,max=120"`
	Email              *string `json:"email" binding:"omitempty,email,max=254"`
	Phone              *string `json:"phone" binding:"omitempty,phone"`
	Address            *string `json:"address" binding:"omitempty,max=500"`
	City               *string `json:"city" binding:"omitempty,max=80"`
	State              *string `json:"state" binding:"omitempty,max=80"`
	Pincode            *string `json:"pincode" binding:"omitempty,pincode"`
	DonationPreference *string `json:"donation_preference" binding:"omitempty,oneof=monthly one-time none"`
	MonthlyAmount      *int    `json:"monthly_amount" binding:"omitempty,gte=0"`
	PaymentStatus      *string `json:"payment_status" binding:"omitempty,oneof=pending paid"`
	Active             *bool   `json:"active"`
}

type MemberResponse struct {
	ID                 string     `json:"id"`
	FullName           string     `json:"full_name"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Address            string     `json:"address"`
	City               string     `json:"city"`
	State              string     `json:"state"`
	Pincode            string     `json:"pincode"`
	DonationPreference string     `json:"donation_preference"`
	MonthlyAmount      int        `json:"monthly_amount"`
	PaymentStatus      string     `json:"payment_status"`
	LastPaymentDate    *time.Time `json:"last_payment_date,omitempty"`
	ApplicationStatus  string     `json:"application_status"`
	ApplicationDate    time.Time  `json:"application_date"`
	Active             bool       `json:"active"`
	MemberSince        *time.Time `json:"member_since,omitempty"`
	ApprovedBy         *string    `json:"approved_by,omitempty"`
	RejectionReason    *string    `json:"rejection_reason,omitempty"`
}

func toMemberResponse(m *model.Member) MemberResponse {
	return MemberResponse{
		ID:                 m.ID,
		FullName:           m.FullName,
		Email:              m.Email,
		Phone:              m.Phone,
		Address:            m.Address,
		City:               m.City,
		State:              m.State,
		Pincode:            m.Pincode,
		DonationPreference: string(m.DonationPreference),
		MonthlyAmount:      m.MonthlyAmount,
		PaymentStatus:      string(m.PaymentStatus),
		LastPaymentDate:    m.LastPaymentDate,
		ApplicationStatus:  string(m.ApplicationStatus),
		ApplicationDate:    m.ApplicationDate,
		Active:             m.Active,
		MemberSince:        m.MemberSince,
		ApprovedBy:         m.ApprovedBy,
		RejectionReason:    m.RejectionReason,
	}
}

func toPagedResponse(list filter.PagedList[model.Member]) filter.PagedList[MemberResponse] {
	items := make([]MemberResponse, 0, len(list.Items))
	for i := range list.Items {
		items = append(items, toMemberResponse(&list.Items[i]))
	}
	return filter.PagedList[MemberResponse]{
		PageNumber:      list.PageNumber,
		PageSize:        list.PageSize,
		TotalRows:       list.TotalRows,
		TotalPages:      list.TotalPages,
		HasPreviousPage: list.HasPreviousPage,
		HasNextPage:     list.HasNextPage,
		Items:           items,
	}
}
