// Package repositorytest provides in-memory repositories for use-case tests.
package repositorytest

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/anjaliconnect/api/domain/errs"
	"github.com/anjaliconnect/api/domain/filter"
	"github.com/anjaliconnect/api/domain/model"
	"github.com/anjaliconnect/api/domain/repository"
)

var (
	_ repository.MemberRepository   = (*MemberStore)(nil)
	_ repository.PaymentRepository  = (*PaymentStore)(nil)
	_ repository.AuditLogRepository = (*AuditLogStore)(nil)
)

// MemberStore is an in-memory MemberRepository. Set the Err fields to make
// the matching method fail.
type MemberStore struct {
	mu      sync.Mutex
	members map[string]model.Member

	QueryErr  error
	GetErr    error
	UpdateErr error
}

func NewMemberStore(members ...model.Member) *MemberStore {
	s := &MemberStore{members: make(map[string]model.Member)}
	for _, m := range members {
		s.members[m.ID] = m
	}
	return s
}

func (s *MemberStore) Create(_ context.Context, member *model.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[member.ID] = *member
	return nil
}

func (s *MemberStore) GetByID(_ context.Context, id string) (*model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	m, ok := s.members[id]
	if !ok {
		return nil, errs.NotFound("member", id)
	}
	return &m, nil
}

func (s *MemberStore) Query(_ context.Context, q repository.MemberQuery) ([]model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.QueryErr != nil {
		return nil, s.QueryErr
	}

	out := s.match(q)
	sort.Slice(out, func(i, j int) bool {
		if q.NewestFirst {
			return out[i].ApplicationDate.After(out[j].ApplicationDate)
		}
		return out[i].ApplicationDate.Before(out[j].ApplicationDate)
	})
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *MemberStore) Count(_ context.Context, q repository.MemberQuery) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.QueryErr != nil {
		return 0, s.QueryErr
	}
	return int64(len(s.match(q))), nil
}

func (s *MemberStore) Update(_ context.Context, id string, u repository.MemberUpdate) (*model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return nil, s.UpdateErr
	}
	m, ok := s.members[id]
	if !ok {
		return nil, errs.NotFound("member", id)
	}
	apply(&m, u)
	s.members[id] = m
	return &m, nil
}

func (s *MemberStore) TransitionApplication(_ context.Context, id string, from model.ApplicationStatus, u repository.MemberUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.UpdateErr != nil {
		return false, s.UpdateErr
	}
	m, ok := s.members[id]
	if !ok || m.ApplicationStatus != from {
		return false, nil
	}
	apply(&m, u)
	s.members[id] = m
	return true, nil
}

func (s *MemberStore) GetByFilter(_ context.Context, req filter.PaginationInputWithFilter) (int64, []model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.QueryErr != nil {
		return 0, nil, s.QueryErr
	}

	all := s.match(repository.MemberQuery{})
	sort.Slice(all, func(i, j int) bool { return all[i].ApplicationDate.After(all[j].ApplicationDate) })

	start := min(req.GetOffset(), len(all))
	end := min(start+req.GetPageSize(), len(all))
	return int64(len(all)), all[start:end], nil
}

// Snapshot returns the stored member without going through error injection.
func (s *MemberStore) Snapshot(id string) (model.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	return m, ok
}

func (s *MemberStore) match(q repository.MemberQuery) []model.Member {
	var out []model.Member
	for _, m := range s.members {
		if q.ApplicationStatus != nil && m.ApplicationStatus != *q.ApplicationStatus {
			continue
		}
		if q.PaymentStatus != nil && m.PaymentStatus != *q.PaymentStatus {
			continue
		}
		if q.DonationPreference != nil && m.DonationPreference != *q.DonationPreference {
			continue
		}
		if q.Active != nil && m.Active != *q.Active {
			continue
		}
		out = append(out, m)
	}
	return out
}

func apply(m *model.Member, u repository.MemberUpdate) {
	setString := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	setString(&m.FullName, u.FullName)
	setString(&m.Email, u.Email)
	setString(&m.Phone, u.Phone)
	setString(&m.Address, u.Address)
	setString(&m.City, u.City)
	setString(&m.State, u.State)
	setString(&m.Pincode, u.Pincode)

	if u.DonationPreference != nil {
		m.DonationPreference = *u.DonationPreference
	}
	if u.MonthlyAmount != nil {
		m.MonthlyAmount = *u.MonthlyAmount
	}
	if u.PaymentStatus != nil {
		m.PaymentStatus = *u.PaymentStatus
	}
	if u.LastPaymentDate != nil {
		t := *u.LastPaymentDate
		m.LastPaymentDate = &t
	}
	if u.ApplicationStatus != nil {
		m.ApplicationStatus = *u.ApplicationStatus
	}
	if u.Active != nil {
		m.Active = *u.Active
	}
	if u.MemberSince != nil {
		t := *u.MemberSince
		m.MemberSince = &t
	}
	if u.ApprovedBy != nil {
		v := *u.ApprovedBy
		m.ApprovedBy = &v
	}
	if u.ApprovedDate != nil {
		t := *u.ApprovedDate
		m.ApprovedDate = &t
	}
	if u.RejectionReason != nil {
		v := *u.RejectionReason
		m.RejectionReason = &v
	}
}

// PaymentStore is an in-memory PaymentRepository.
type PaymentStore struct {
	mu       sync.Mutex
	payments map[string]model.Payment

	SettleErr error
}

func NewPaymentStore(payments ...model.Payment) *PaymentStore {
	s := &PaymentStore{payments: make(map[string]model.Payment)}
	for _, p := range payments {
		s.payments[p.ID] = p
	}
	return s
}

func (s *PaymentStore) Create(_ context.Context, payment *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[payment.ID] = *payment
	return nil
}

func (s *PaymentStore) GetByID(_ context.Context, id string) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, errs.NotFound("payment", id)
	}
	return &p, nil
}

func (s *PaymentStore) List(_ context.Context, q repository.PaymentQuery) ([]model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.Payment
	for _, p := range s.payments {
		if q.Status != nil && p.Status != *q.Status {
			continue
		}
		if q.Type != nil && p.Type != *q.Type {
			continue
		}
		if q.MemberID != nil && (p.MemberID == nil || *p.MemberID != *q.MemberID) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *PaymentStore) Settle(_ context.Context, id string, status model.PaymentStatus, reference string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SettleErr != nil {
		return false, s.SettleErr
	}
	p, ok := s.payments[id]
	if !ok || p.Status != model.PaymentPending {
		return false, nil
	}
	p.Status = status
	p.SettledAt = &at
	if reference != "" {
		p.GatewayReference = &reference
	}
	s.payments[id] = p
	return true, nil
}

func (s *PaymentStore) Totals(_ context.Context) (repository.PaymentTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t repository.PaymentTotals
	for _, p := range s.payments {
		t.TotalAmount += int64(p.Amount)
		switch p.Status {
		case model.PaymentCompleted:
			t.CompletedAmount += int64(p.Amount)
			t.CompletedCount++
		case model.PaymentPending:
			t.PendingCount++
		case model.PaymentFailed:
			t.FailedCount++
		}
	}
	return t, nil
}

// AuditLogStore is an in-memory append-only AuditLogRepository. FailFor
// makes Append fail for entries addressed to the given member ids.
type AuditLogStore struct {
	mu      sync.Mutex
	entries []model.AuditLog

	FailFor []string
	Err     error
}

func NewAuditLogStore() *AuditLogStore {
	return &AuditLogStore{}
}

func (s *AuditLogStore) Append(_ context.Context, a model.AuditLog) (model.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil && (len(s.FailFor) == 0 || slices.Contains(s.FailFor, a.MemberID)) {
		return a, s.Err
	}
	a.ID = len(s.entries) + 1
	s.entries = append(s.entries, a)
	return a, nil
}

func (s *AuditLogStore) List(_ context.Context, q repository.AuditLogQuery) ([]model.AuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []model.AuditLog
	for _, e := range s.entries {
		if q.MemberID != "" && e.MemberID != q.MemberID {
			continue
		}
		if q.BatchID != "" && e.BatchID != q.BatchID {
			continue
		}
		if q.Type != "" && e.Type != q.Type {
			continue
		}
		out = append(out, e)
	}
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// Entries returns a copy of everything appended so far.
func (s *AuditLogStore) Entries() []model.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}
