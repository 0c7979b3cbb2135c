package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lead is a prospect record tracked through the sales pipeline.
type Lead struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	CampaignID     *uuid.UUID
	CompanyName    string
	ContactName    string
	Email          *string
	Phone          *string
	AssignedTo     *uuid.UUID
	PipelineStage  string
	SectorID       *uuid.UUID
	DealValueCents *int64
	Archived       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// User is a salesperson identity within a tenant.
type User struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Email    string
	FullName string
	Role     string
	Active   bool
}

// CreateLeadParams contains data for registering a new lead.
type CreateLeadParams struct {
	TenantID    uuid.UUID
	CampaignID  *uuid.UUID
	CompanyName string
	ContactName string
	Email       *string
	Phone       *string
	AssignedTo  *uuid.UUID
	SectorID    *uuid.UUID
}

// OwnerChange is one planned ownership mutation within a batch.
// ExpectedOwner is the owner the planner observed; the batch fails when the
// stored owner no longer matches, so a concurrent transfer cannot silently
// double-assign a lead.
type OwnerChange struct {
	LeadID        uuid.UUID
	ExpectedOwner *uuid.UUID
	NewOwner      uuid.UUID
}

// LeadReader defines read access to the lead registry.
type LeadReader interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (Lead, error)
	ListByOwner(ctx context.Context, tenantID, ownerID uuid.UUID) ([]Lead, error)
	ListByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) ([]Lead, error)
	ListOwnedIDsInCampaign(ctx context.Context, tenantID, campaignID, ownerID uuid.UUID) ([]uuid.UUID, error)
	ListUnassigned(ctx context.Context, tenantID uuid.UUID) ([]Lead, error)
	ListWithSector(ctx context.Context, tenantID uuid.UUID) ([]Lead, error)
}

// LeadWriter defines write access to the lead registry.
type LeadWriter interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	Reassign(ctx context.Context, tenantID, leadID, newOwnerID uuid.UUID) (Lead, error)
	BulkReassign(ctx context.Context, tenantID uuid.UUID, leadIDs []uuid.UUID, newOwnerID uuid.UUID) (int, error)
	ReassignBatch(ctx context.Context, tenantID uuid.UUID, changes []OwnerChange) (int, error)
	SetArchived(ctx context.Context, tenantID, leadID uuid.UUID, archived bool) (Lead, error)
}

// UserReader defines read access to salesperson identities.
type UserReader interface {
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	GetTenantUser(ctx context.Context, tenantID, id uuid.UUID) (User, error)
}

// Repository aggregates all lead registry data access.
type Repository interface {
	LeadReader
	LeadWriter
	UserReader
}
