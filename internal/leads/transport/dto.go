package transport

import (
	"time"

	"github.com/google/uuid"
)

// RegisterLeadRequest contains data for registering a new lead. It is the
// entry point used by the import/manual-entry collaborators.
type RegisterLeadRequest struct {
	CompanyName string     `json:"companyName" validate:"required,min=1,max=200"`
	ContactName string     `json:"contactName" validate:"omitempty,max=200"`
	Email       *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string    `json:"phone,omitempty" validate:"omitempty,max=30"`
	CampaignID  *uuid.UUID `json:"campaignId,omitempty"`
	SectorID    *uuid.UUID `json:"sectorId,omitempty"`
	AssignedTo  *uuid.UUID `json:"assignedTo,omitempty"`
}

// ReassignLeadRequest changes a single lead's owner.
type ReassignLeadRequest struct {
	NewOwnerID uuid.UUID `json:"newOwnerId" validate:"required"`
}

// BulkReassignRequest changes the owner of a set of leads atomically.
type BulkReassignRequest struct {
	LeadIDs    []uuid.UUID `json:"leadIds" validate:"required,min=1"`
	NewOwnerID uuid.UUID   `json:"newOwnerId" validate:"required"`
}

// BulkReassignResponse reports how many leads were reassigned.
type BulkReassignResponse struct {
	Updated int `json:"updated"`
}

// TransferLeadsRequest moves leads from one owner to another within a
// campaign. LeadIDs is required when TransferAll is false.
type TransferLeadsRequest struct {
	CampaignID   uuid.UUID   `json:"campaignId" validate:"required"`
	SourceUserID uuid.UUID   `json:"sourceUserId" validate:"required"`
	TargetUserID uuid.UUID   `json:"targetUserId" validate:"required"`
	TransferAll  bool        `json:"transferAll"`
	LeadIDs      []uuid.UUID `json:"leadIds,omitempty"`
}

// TransferResult reports the outcome of a single-target transfer.
type TransferResult struct {
	TransferredCount int         `json:"transferredCount"`
	ExcludedIDs      []uuid.UUID `json:"excludedIds,omitempty"`
}

// DistributeLeadsRequest spreads leads from one owner across several targets.
type DistributeLeadsRequest struct {
	CampaignID    uuid.UUID   `json:"campaignId" validate:"required"`
	SourceUserID  uuid.UUID   `json:"sourceUserId" validate:"required"`
	TargetUserIDs []uuid.UUID `json:"targetUserIds" validate:"required,min=1"`
	TransferAll   bool        `json:"transferAll"`
	LeadIDs       []uuid.UUID `json:"leadIds,omitempty"`
}

// DistributionResult reports per-target counts of an equitable distribution.
type DistributionResult struct {
	PerTarget   map[uuid.UUID]int `json:"perTarget"`
	ExcludedIDs []uuid.UUID       `json:"excludedIds,omitempty"`
}

// ProposedOwnerResponse is the sector-based ownership recommendation for a
// lead. ProposedOwnerID is nil when no recommendation applies; Reason says why.
type ProposedOwnerResponse struct {
	LeadID          uuid.UUID  `json:"leadId"`
	ProposedOwnerID *uuid.UUID `json:"proposedOwnerId,omitempty"`
	SectorID        *uuid.UUID `json:"sectorId,omitempty"`
	Reason          string     `json:"reason"`
}

// SectorReassignmentResult reports how many leads a reconciliation run moved.
type SectorReassignmentResult struct {
	Count int `json:"count"`
}

// LeadResponse represents a lead in API responses.
type LeadResponse struct {
	ID             uuid.UUID  `json:"id"`
	CampaignID     *uuid.UUID `json:"campaignId,omitempty"`
	CompanyName    string     `json:"companyName"`
	ContactName    string     `json:"contactName,omitempty"`
	Email          *string    `json:"email,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	AssignedTo     *uuid.UUID `json:"assignedTo,omitempty"`
	PipelineStage  string     `json:"pipelineStage"`
	SectorID       *uuid.UUID `json:"sectorId,omitempty"`
	DealValueCents *int64     `json:"dealValueCents,omitempty"`
	Archived       bool       `json:"archived"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// LeadListResponse wraps a list of leads.
type LeadListResponse struct {
	Items []LeadResponse `json:"items"`
	Total int            `json:"total"`
}
