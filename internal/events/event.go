// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"prospection_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadRegistered is published when a new lead enters the registry.
type LeadRegistered struct {
	BaseEvent
	LeadID     uuid.UUID  `json:"leadId"`
	TenantID   uuid.UUID  `json:"tenantId"`
	CampaignID *uuid.UUID `json:"campaignId,omitempty"`
	SectorID   *uuid.UUID `json:"sectorId,omitempty"`
	AssignedTo *uuid.UUID `json:"assignedTo,omitempty"`
}

func (e LeadRegistered) EventName() string { return "leads.registered" }

// LeadAssigned is published when a lead changes owner.
type LeadAssigned struct {
	BaseEvent
	LeadID        uuid.UUID  `json:"leadId"`
	TenantID      uuid.UUID  `json:"tenantId"`
	PreviousOwner *uuid.UUID `json:"previousOwner,omitempty"`
	NewOwner      uuid.UUID  `json:"newOwner"`
	AssignedByID  uuid.UUID  `json:"assignedById"`
}

func (e LeadAssigned) EventName() string { return "leads.assigned" }

// LeadsTransferred is published when a batch of leads moves from one owner
// to another within a campaign.
type LeadsTransferred struct {
	BaseEvent
	TenantID     uuid.UUID   `json:"tenantId"`
	CampaignID   uuid.UUID   `json:"campaignId"`
	SourceUserID uuid.UUID   `json:"sourceUserId"`
	TargetUserID uuid.UUID   `json:"targetUserId"`
	LeadIDs      []uuid.UUID `json:"leadIds"`
}

func (e LeadsTransferred) EventName() string { return "leads.transferred" }

// LeadsDistributed is published after an equitable distribution run.
type LeadsDistributed struct {
	BaseEvent
	TenantID     uuid.UUID         `json:"tenantId"`
	CampaignID   uuid.UUID         `json:"campaignId"`
	SourceUserID uuid.UUID         `json:"sourceUserId"`
	PerTarget    map[uuid.UUID]int `json:"perTarget"`
}

func (e LeadsDistributed) EventName() string { return "leads.distributed" }

// SectorReassignmentCompleted is published after a sector reconciliation run.
type SectorReassignmentCompleted struct {
	BaseEvent
	TenantID uuid.UUID `json:"tenantId"`
	Count    int       `json:"count"`
}

func (e SectorReassignmentCompleted) EventName() string { return "leads.sector_reassignment_completed" }

// LeadQualified is published when a qualification outcome updates a lead's
// pipeline stage.
type LeadQualified struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	TenantID uuid.UUID `json:"tenantId"`
	Outcome  string    `json:"outcome"`
	Stage    string    `json:"stage"`
}

func (e LeadQualified) EventName() string { return "leads.qualified" }

// =============================================================================
// Campaign Domain Events
// =============================================================================

// CampaignStatusChanged is published on every successful lifecycle transition.
type CampaignStatusChanged struct {
	BaseEvent
	CampaignID uuid.UUID `json:"campaignId"`
	TenantID   uuid.UUID `json:"tenantId"`
	Operation  string    `json:"operation"`
	Previous   string    `json:"previous"`
	Next       string    `json:"next"`
}

func (e CampaignStatusChanged) EventName() string { return "campaigns.status_changed" }

// =============================================================================
// Follow-up Domain Events
// =============================================================================

// FollowUpCreated is published when a follow-up reminder is created.
type FollowUpCreated struct {
	BaseEvent
	FollowUpID  uuid.UUID `json:"followUpId"`
	TenantID    uuid.UUID `json:"tenantId"`
	LeadID      uuid.UUID `json:"leadId"`
	UserID      uuid.UUID `json:"userId"`
	ScheduledAt time.Time `json:"scheduledAt"`
}

func (e FollowUpCreated) EventName() string { return "followups.created" }

// FollowUpCompleted is published when a follow-up is completed.
type FollowUpCompleted struct {
	BaseEvent
	FollowUpID uuid.UUID `json:"followUpId"`
	TenantID   uuid.UUID `json:"tenantId"`
	LeadID     uuid.UUID `json:"leadId"`
	UserID     uuid.UUID `json:"userId"`
}

func (e FollowUpCompleted) EventName() string { return "followups.completed" }

// FollowUpDue is published by the scheduler worker when a reminder's
// scheduled instant has arrived and the follow-up is still incomplete.
type FollowUpDue struct {
	BaseEvent
	FollowUpID uuid.UUID `json:"followUpId"`
	TenantID   uuid.UUID `json:"tenantId"`
}

func (e FollowUpDue) EventName() string { return "followups.due" }
