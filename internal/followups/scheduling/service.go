// Package scheduling handles follow-up reminders: creation, rescheduling,
// completion, and due-status classification.
package scheduling

import (
	"context"
	"time"

	"prospection_backend/internal/events"
	"prospection_backend/internal/followups/domain"
	"prospection_backend/internal/followups/repository"
	"prospection_backend/internal/followups/transport"
	"prospection_backend/platform/logger"

	"github.com/google/uuid"
)

// DefaultPriority applies when a caller does not pick one.
const DefaultPriority = "normal"

// ReminderScheduler enqueues a delayed reminder for a follow-up. Implemented
// by the scheduler module; a no-op implementation is used when no queue is
// configured.
type ReminderScheduler interface {
	ScheduleFollowUpReminder(ctx context.Context, tenantID, followUpID uuid.UUID, at time.Time) error
}

// NoopScheduler discards reminder scheduling requests.
type NoopScheduler struct{}

// ScheduleFollowUpReminder does nothing.
func (NoopScheduler) ScheduleFollowUpReminder(context.Context, uuid.UUID, uuid.UUID, time.Time) error {
	return nil
}

// Service handles follow-up scheduling operations.
type Service struct {
	repo      repository.Repository
	reminders ReminderScheduler
	reference *time.Location
	bus       events.Bus
	log       *logger.Logger
}

// New creates a new follow-up scheduling service. reference is the time zone
// used for calendar-day bucketing.
func New(repo repository.Repository, reminders ReminderScheduler, reference *time.Location, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, reminders: reminders, reference: reference, bus: bus, log: log}
}

// Create schedules a new follow-up and enqueues its reminder.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req transport.CreateFollowUpRequest, actorID uuid.UUID) (transport.FollowUpResponse, error) {
	userID := actorID
	if req.UserID != nil {
		userID = *req.UserID
	}
	priority := req.Priority
	if priority == "" {
		priority = DefaultPriority
	}

	followUp, err := s.repo.Create(ctx, repository.CreateFollowUpParams{
		TenantID:    tenantID,
		LeadID:      req.LeadID,
		UserID:      userID,
		ScheduledAt: req.ScheduledAt,
		Priority:    priority,
		Notes:       req.Notes,
	})
	if err != nil {
		return transport.FollowUpResponse{}, err
	}

	// Reminder delivery is best effort; the follow-up itself is the record.
	if err := s.reminders.ScheduleFollowUpReminder(ctx, tenantID, followUp.ID, followUp.ScheduledAt); err != nil {
		s.log.Error("schedule follow-up reminder failed", "error", err, "followUpId", followUp.ID)
	}

	s.bus.Publish(ctx, events.FollowUpCreated{
		BaseEvent:   events.NewBaseEvent(),
		FollowUpID:  followUp.ID,
		TenantID:    tenantID,
		LeadID:      followUp.LeadID,
		UserID:      followUp.UserID,
		ScheduledAt: followUp.ScheduledAt,
	})

	return ToResponse(followUp), nil
}

// GetByID retrieves a follow-up.
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (transport.FollowUpResponse, error) {
	followUp, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return transport.FollowUpResponse{}, err
	}
	return ToResponse(followUp), nil
}

// ListByLead retrieves the follow-ups tied to a lead.
func (s *Service) ListByLead(ctx context.Context, tenantID, leadID uuid.UUID) (transport.FollowUpListResponse, error) {
	followUps, err := s.repo.ListByLead(ctx, tenantID, leadID)
	if err != nil {
		return transport.FollowUpListResponse{}, err
	}
	return toListResponse(followUps), nil
}

// Reschedule moves an incomplete follow-up to a new instant and re-enqueues
// its reminder.
func (s *Service) Reschedule(ctx context.Context, tenantID, id uuid.UUID, req transport.RescheduleFollowUpRequest) (transport.FollowUpResponse, error) {
	followUp, err := s.repo.Reschedule(ctx, tenantID, id, req.ScheduledAt)
	if err != nil {
		return transport.FollowUpResponse{}, err
	}

	if err := s.reminders.ScheduleFollowUpReminder(ctx, tenantID, followUp.ID, followUp.ScheduledAt); err != nil {
		s.log.Error("schedule follow-up reminder failed", "error", err, "followUpId", followUp.ID)
	}

	return ToResponse(followUp), nil
}

// Complete marks a follow-up done. Completing twice returns the same record.
// The repository reports which call won the locked check-and-set, so the
// completed event is published exactly once even under concurrent calls.
func (s *Service) Complete(ctx context.Context, tenantID, id uuid.UUID, req transport.CompleteFollowUpRequest) (transport.FollowUpResponse, error) {
	followUp, didComplete, err := s.repo.Complete(ctx, tenantID, id, req.Notes)
	if err != nil {
		return transport.FollowUpResponse{}, err
	}

	if didComplete {
		s.bus.Publish(ctx, events.FollowUpCompleted{
			BaseEvent:  events.NewBaseEvent(),
			FollowUpID: followUp.ID,
			TenantID:   tenantID,
			LeadID:     followUp.LeadID,
			UserID:     followUp.UserID,
		})
	}

	return ToResponse(followUp), nil
}

// Delete removes a follow-up.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// Classify buckets a user's incomplete follow-ups by due status. When userID
// is nil the whole tenant's follow-ups are classified.
func (s *Service) Classify(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, now time.Time) (transport.ClassifiedResponse, error) {
	var (
		followUps []repository.FollowUp
		err       error
	)
	if userID != nil {
		followUps, err = s.repo.ListByUser(ctx, tenantID, *userID)
	} else {
		followUps, err = s.repo.ListByTenant(ctx, tenantID)
	}
	if err != nil {
		return transport.ClassifiedResponse{}, err
	}

	items := make([]domain.Item, 0, len(followUps))
	byID := make(map[uuid.UUID]repository.FollowUp, len(followUps))
	for _, f := range followUps {
		items = append(items, domain.Item{ID: f.ID, ScheduledAt: f.ScheduledAt, Completed: f.Completed})
		byID[f.ID] = f
	}

	classification := domain.Classify(items, now, s.reference)

	resp := transport.ClassifiedResponse{
		Overdue:  make([]transport.FollowUpResponse, 0, len(classification.Overdue)),
		DueToday: make([]transport.FollowUpResponse, 0, len(classification.DueToday)),
		Upcoming: make([]transport.FollowUpResponse, 0, len(classification.Upcoming)),
	}
	for _, id := range classification.Overdue {
		resp.Overdue = append(resp.Overdue, ToResponse(byID[id]))
	}
	for _, id := range classification.DueToday {
		resp.DueToday = append(resp.DueToday, ToResponse(byID[id]))
	}
	for _, id := range classification.Upcoming {
		resp.Upcoming = append(resp.Upcoming, ToResponse(byID[id]))
	}
	return resp, nil
}

// ToResponse converts a repository follow-up to its API representation.
func ToResponse(f repository.FollowUp) transport.FollowUpResponse {
	return transport.FollowUpResponse{
		ID:             f.ID,
		LeadID:         f.LeadID,
		UserID:         f.UserID,
		ScheduledAt:    f.ScheduledAt,
		Priority:       f.Priority,
		Notes:          f.Notes,
		Completed:      f.Completed,
		CompletedNotes: f.CompletedNotes,
		CompletedAt:    f.CompletedAt,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func toListResponse(followUps []repository.FollowUp) transport.FollowUpListResponse {
	items := make([]transport.FollowUpResponse, 0, len(followUps))
	for _, f := range followUps {
		items = append(items, ToResponse(f))
	}
	return transport.FollowUpListResponse{Items: items, Total: len(items)}
}
