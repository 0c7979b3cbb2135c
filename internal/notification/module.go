// Package notification turns domain events into outbound emails. It
// subscribes to the event bus and owns no routes of its own.
package notification

import (
	"context"

	"prospection_backend/internal/email"
	"prospection_backend/internal/events"
	followuprepo "prospection_backend/internal/followups/repository"
	leadrepo "prospection_backend/internal/leads/repository"
	"prospection_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires event subscriptions to the email sender.
type Module struct {
	sender    email.Sender
	followUps *followuprepo.Repo
	leads     *leadrepo.Repo
	log       *logger.Logger
}

// NewModule creates the notification module and registers its subscriptions.
func NewModule(pool *pgxpool.Pool, sender email.Sender, bus events.Bus, log *logger.Logger) *Module {
	m := &Module{
		sender:    sender,
		followUps: followuprepo.New(pool),
		leads:     leadrepo.New(pool),
		log:       log,
	}

	bus.Subscribe(events.FollowUpDue{}.EventName(), events.HandlerFunc(m.onFollowUpDue))
	bus.Subscribe(events.LeadAssigned{}.EventName(), events.HandlerFunc(m.onLeadAssigned))

	return m
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "notification"
}

func (m *Module) onFollowUpDue(ctx context.Context, event events.Event) error {
	e, ok := event.(events.FollowUpDue)
	if !ok {
		return nil
	}

	followUp, err := m.followUps.GetByID(ctx, e.TenantID, e.FollowUpID)
	if err != nil {
		return err
	}
	if followUp.Completed {
		return nil
	}

	user, err := m.leads.GetTenantUser(ctx, e.TenantID, followUp.UserID)
	if err != nil {
		return err
	}
	lead, err := m.leads.GetByID(ctx, e.TenantID, followUp.LeadID)
	if err != nil {
		return err
	}

	if err := m.sender.SendFollowUpReminder(ctx, user.Email, user.FullName, lead.CompanyName, followUp.ScheduledAt); err != nil {
		m.log.Error("follow-up reminder email failed", "error", err, "followUpId", followUp.ID)
		return err
	}
	return nil
}

func (m *Module) onLeadAssigned(ctx context.Context, event events.Event) error {
	e, ok := event.(events.LeadAssigned)
	if !ok {
		return nil
	}

	// Self-assignments need no notification.
	if e.NewOwner == e.AssignedByID {
		return nil
	}

	user, err := m.leads.GetTenantUser(ctx, e.TenantID, e.NewOwner)
	if err != nil {
		return err
	}
	lead, err := m.leads.GetByID(ctx, e.TenantID, e.LeadID)
	if err != nil {
		return err
	}

	if err := m.sender.SendLeadAssigned(ctx, user.Email, user.FullName, lead.CompanyName); err != nil {
		m.log.Error("lead assigned email failed", "error", err, "leadId", e.LeadID)
		return err
	}
	return nil
}
