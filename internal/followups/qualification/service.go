// Package qualification syncs follow-up resolutions into the lead pipeline.
// Resolving a follow-up with an outcome completes it, updates the lead's
// stage, and can schedule the next touch point, as one unit of work.
package qualification

import (
	"context"
	"errors"
	"time"

	"prospection_backend/internal/events"
	"prospection_backend/internal/followups/domain"
	"prospection_backend/internal/followups/repository"
	"prospection_backend/internal/followups/scheduling"
	"prospection_backend/internal/followups/transport"
	"prospection_backend/platform/apperr"

	"github.com/google/uuid"
)

// ReminderScheduler is re-declared here so qualification can enqueue the
// reminder for a next follow-up it creates.
type ReminderScheduler interface {
	ScheduleFollowUpReminder(ctx context.Context, tenantID, followUpID uuid.UUID, at time.Time) error
}

// Service resolves follow-ups with qualification outcomes.
type Service struct {
	repo      repository.Repository
	reminders ReminderScheduler
	bus       events.Bus
}

// New creates a new qualification service.
func New(repo repository.Repository, reminders ReminderScheduler, bus events.Bus) *Service {
	return &Service{repo: repo, reminders: reminders, bus: bus}
}

// QualifyFromFollowUp completes the follow-up with the given outcome,
// updates the lead's pipeline stage, and creates the next follow-up when the
// outcome requires one. The completion, the stage update, and the next
// follow-up are applied together or not at all.
func (s *Service) QualifyFromFollowUp(ctx context.Context, tenantID, followUpID uuid.UUID, req transport.QualifyRequest) (transport.QualifyResponse, error) {
	effect, err := domain.EffectForOutcome(req.Outcome)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownOutcome) {
			return transport.QualifyResponse{}, apperr.Validation("unknown qualification outcome")
		}
		return transport.QualifyResponse{}, err
	}

	if effect.RequiresNext && req.NextScheduledAt == nil {
		return transport.QualifyResponse{}, apperr.Validation("outcome requires a next follow-up date")
	}
	if !effect.AcceptsDealValue && req.DealValueCents != nil {
		return transport.QualifyResponse{}, apperr.Validation("outcome does not record a deal value")
	}

	params := repository.QualifyParams{
		FollowUpID:     followUpID,
		Stage:          effect.Stage,
		DealValueCents: req.DealValueCents,
		CompletedNotes: req.Notes,
	}
	if req.NextScheduledAt != nil {
		params.NextScheduledAt = req.NextScheduledAt
		params.NextPriority = req.NextPriority
		if params.NextPriority == "" {
			params.NextPriority = scheduling.DefaultPriority
		}
		params.NextNotes = req.NextNotes
	}

	result, err := s.repo.CompleteAndQualify(ctx, tenantID, params)
	if err != nil {
		return transport.QualifyResponse{}, err
	}

	completed := result.FollowUp.FollowUp
	s.bus.Publish(ctx, events.FollowUpCompleted{
		BaseEvent:  events.NewBaseEvent(),
		FollowUpID: completed.ID,
		TenantID:   tenantID,
		LeadID:     completed.LeadID,
		UserID:     completed.UserID,
	})
	s.bus.Publish(ctx, events.LeadQualified{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    result.FollowUp.LeadID,
		TenantID:  tenantID,
		Outcome:   req.Outcome,
		Stage:     result.FollowUp.PipelineStage,
	})

	resp := transport.QualifyResponse{
		FollowUp:      scheduling.ToResponse(completed),
		LeadID:        result.FollowUp.LeadID,
		PipelineStage: result.FollowUp.PipelineStage,
	}

	if result.Next != nil {
		next := scheduling.ToResponse(*result.Next)
		resp.NextFollowUp = &next

		// The next follow-up is already committed; reminder enqueueing is
		// retryable on its own.
		_ = s.reminders.ScheduleFollowUpReminder(ctx, tenantID, result.Next.ID, result.Next.ScheduledAt)

		s.bus.Publish(ctx, events.FollowUpCreated{
			BaseEvent:   events.NewBaseEvent(),
			FollowUpID:  result.Next.ID,
			TenantID:    tenantID,
			LeadID:      result.Next.LeadID,
			UserID:      result.Next.UserID,
			ScheduledAt: result.Next.ScheduledAt,
		})
	}

	return resp, nil
}
