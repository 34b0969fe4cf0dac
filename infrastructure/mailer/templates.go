package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/anjaliconnect/api/domain/notification"
)

//go:embed templates/*.html
var templateFS embed.FS

const receiptSubject = "Thank You for Your Donation!"

// TemplateRenderer renders notifications from the embedded HTML templates.
// Every page shares templates/layout.html.
type TemplateRenderer struct {
	monthly *template.Template
	manual  *template.Template
	receipt *template.Template
}

func NewTemplateRenderer() (*TemplateRenderer, error) {
	parse := func(page string) (*template.Template, error) {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		return t, nil
	}

	monthly, err := parse("monthly_reminder.html")
	if err != nil {
		return nil, err
	}
	manual, err := parse("manual_reminder.html")
	if err != nil {
		return nil, err
	}
	receipt, err := parse("receipt.html")
	if err != nil {
		return nil, err
	}

	return &TemplateRenderer{monthly: monthly, manual: manual, receipt: receipt}, nil
}

func (r *TemplateRenderer) RenderReminder(content notification.ReminderContent) (notification.Message, error) {
	tmpl, subject := r.monthly, "Monthly Donation Reminder - "+content.Period
	if content.Kind == notification.ReminderManual {
		tmpl, subject = r.manual, "Payment Reminder - "+content.Period
	}

	body, err := execute(tmpl, content)
	if err != nil {
		return notification.Message{}, err
	}

	return notification.Message{To: content.Email, Subject: subject, HTMLBody: body}, nil
}

func (r *TemplateRenderer) RenderReceipt(content notification.ReceiptContent) (notification.Message, error) {
	body, err := execute(r.receipt, content)
	if err != nil {
		return notification.Message{}, err
	}

	return notification.Message{To: content.Email, Subject: receiptSubject, HTMLBody: body}, nil
}

func execute(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
