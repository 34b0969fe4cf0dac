package notification

import (
	"context"
	"time"
)

// Message is one rendered notification addressed to a single recipient.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Sender delivers a single message. Implementations own their connection
// lifecycle; callers receive them already configured.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ReminderKind selects the reminder wording.
type ReminderKind int

const (
	ReminderMonthly ReminderKind = iota
	ReminderManual
)

// ReminderContent is everything a reminder template may reference.
type ReminderContent struct {
	Kind          ReminderKind
	MemberID      string
	RecipientName string
	Email         string
	Amount        int
	Period        string
	PaymentURL    string
}

// ReceiptContent is everything a payment receipt template may reference.
type ReceiptContent struct {
	PaymentID string
	DonorName string
	Email     string
	Amount    int
	Type      string
	Date      time.Time
}

// Renderer turns content into addressable messages.
type Renderer interface {
	RenderReminder(content ReminderContent) (Message, error)
	RenderReceipt(content ReceiptContent) (Message, error)
}
