package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateFollowUpRequest contains data for scheduling a reminder.
// ScheduledAt is an absolute instant; clients send RFC 3339 with offset.
type CreateFollowUpRequest struct {
	LeadID      uuid.UUID  `json:"leadId" validate:"required"`
	UserID      *uuid.UUID `json:"userId,omitempty"`
	ScheduledAt time.Time  `json:"scheduledAt" validate:"required"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low normal high"`
	Notes       *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// RescheduleFollowUpRequest moves a reminder to a new instant.
type RescheduleFollowUpRequest struct {
	ScheduledAt time.Time `json:"scheduledAt" validate:"required"`
}

// CompleteFollowUpRequest marks a reminder done.
type CompleteFollowUpRequest struct {
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// QualifyRequest resolves a follow-up with a qualification outcome.
// NextScheduledAt is required when the outcome implies continued engagement.
type QualifyRequest struct {
	Outcome         string     `json:"outcome" validate:"required"`
	Notes           *string    `json:"notes,omitempty" validate:"omitempty,max=2000"`
	NextScheduledAt *time.Time `json:"nextScheduledAt,omitempty"`
	NextPriority    string     `json:"nextPriority" validate:"omitempty,oneof=low normal high"`
	NextNotes       *string    `json:"nextNotes,omitempty" validate:"omitempty,max=2000"`
	DealValueCents  *int64     `json:"dealValueCents,omitempty" validate:"omitempty,min=0"`
}

// FollowUpResponse represents a follow-up in API responses.
type FollowUpResponse struct {
	ID             uuid.UUID  `json:"id"`
	LeadID         uuid.UUID  `json:"leadId"`
	UserID         uuid.UUID  `json:"userId"`
	ScheduledAt    time.Time  `json:"scheduledAt"`
	Priority       string     `json:"priority"`
	Notes          *string    `json:"notes,omitempty"`
	Completed      bool       `json:"completed"`
	CompletedNotes *string    `json:"completedNotes,omitempty"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ClassifiedResponse buckets incomplete follow-ups by due status.
type ClassifiedResponse struct {
	Overdue  []FollowUpResponse `json:"overdue"`
	DueToday []FollowUpResponse `json:"dueToday"`
	Upcoming []FollowUpResponse `json:"upcoming"`
}

// QualifyResponse reports the outcome of resolving a follow-up.
type QualifyResponse struct {
	FollowUp      FollowUpResponse  `json:"followUp"`
	LeadID        uuid.UUID         `json:"leadId"`
	PipelineStage string            `json:"pipelineStage"`
	NextFollowUp  *FollowUpResponse `json:"nextFollowUp,omitempty"`
}

// FollowUpListResponse wraps a list of follow-ups.
type FollowUpListResponse struct {
	Items []FollowUpResponse `json:"items"`
	Total int                `json:"total"`
}
