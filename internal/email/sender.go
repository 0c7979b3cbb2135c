// Package email delivers transactional notifications to salespeople.
package email

import (
	"context"
	"time"

	"prospection_backend/platform/config"
)

// Sender delivers notification emails. Implementations render the shared
// HTML templates and differ only in transport.
type Sender interface {
	// SendFollowUpReminder notifies a salesperson that a follow-up is due.
	SendFollowUpReminder(ctx context.Context, toEmail, recipientName, companyName string, scheduledAt time.Time) error
	// SendLeadAssigned notifies a salesperson that a lead landed on their desk.
	SendLeadAssigned(ctx context.Context, toEmail, recipientName, companyName string) error
}

// NoopSender discards all emails. Used when no SMTP server is configured.
type NoopSender struct{}

// SendFollowUpReminder does nothing.
func (NoopSender) SendFollowUpReminder(context.Context, string, string, string, time.Time) error {
	return nil
}

// SendLeadAssigned does nothing.
func (NoopSender) SendLeadAssigned(context.Context, string, string, string) error {
	return nil
}

var _ Sender = NoopSender{}

// NewSender builds a Sender from configuration. Without an SMTP host the
// returned sender silently discards everything.
func NewSender(cfg config.EmailConfig, reference *time.Location) Sender {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}
	}
	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
		reference,
	)
}
