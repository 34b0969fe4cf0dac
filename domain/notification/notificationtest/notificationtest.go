// Package notificationtest provides recording notification fakes for tests.
package notificationtest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/anjaliconnect/api/domain/notification"
)

var ErrRefused = errors.New("recipient refused")

// Sender records every message and fails for addresses listed in FailFor.
type Sender struct {
	mu   sync.Mutex
	sent []notification.Message

	FailFor []string
}

func (s *Sender) Send(_ context.Context, msg notification.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.FailFor, msg.To) {
		return fmt.Errorf("send to %s: %w", msg.To, ErrRefused)
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *Sender) Sent() []notification.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.sent)
}

// Renderer records the content it was asked to render and produces a plain
// message carrying the key fields.
type Renderer struct {
	mu        sync.Mutex
	reminders []notification.ReminderContent
	receipts  []notification.ReceiptContent
}

func (r *Renderer) RenderReminder(c notification.ReminderContent) (notification.Message, error) {
	r.mu.Lock()
	r.reminders = append(r.reminders, c)
	r.mu.Unlock()

	return notification.Message{
		To:      c.Email,
		Subject: "reminder " + c.Period,
		HTMLBody: fmt.Sprintf("%s owes %d for %s (member %s)",
			c.RecipientName, c.Amount, c.Period, c.MemberID),
	}, nil
}

func (r *Renderer) RenderReceipt(c notification.ReceiptContent) (notification.Message, error) {
	r.mu.Lock()
	r.receipts = append(r.receipts, c)
	r.mu.Unlock()

	return notification.Message{
		To:       c.Email,
		Subject:  "receipt " + c.PaymentID,
		HTMLBody: fmt.Sprintf("%s paid %d", c.DonorName, c.Amount),
	}, nil
}

func (r *Renderer) Reminders() []notification.ReminderContent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.reminders)
}

func (r *Renderer) Receipts() []notification.ReceiptContent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.receipts)
}
