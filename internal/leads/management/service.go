// Package management handles lead registry operations.
// This is a vertically sliced feature package containing service logic
// for registering, reading, reassigning, and archiving leads.
package management

import (
	"context"

	"prospection_backend/internal/events"
	"prospection_backend/internal/leads/repository"
	"prospection_backend/internal/leads/transport"
	"prospection_backend/platform/phone"
	"prospection_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Repository defines the data access interface needed by the management
// service. This is a consumer-driven interface - only what management needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.UserReader
}

// Service handles lead registry operations.
type Service struct {
	repo Repository
	bus  events.Bus
}

// New creates a new lead management service.
func New(repo Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Register creates a new lead in the registry.
func (s *Service) Register(ctx context.Context, tenantID uuid.UUID, req transport.RegisterLeadRequest) (transport.LeadResponse, error) {
	params := repository.CreateLeadParams{
		TenantID:    tenantID,
		CampaignID:  req.CampaignID,
		CompanyName: sanitize.Text(req.CompanyName),
		ContactName: sanitize.Text(req.ContactName),
		Email:       req.Email,
		SectorID:    req.SectorID,
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}

	if req.AssignedTo != nil {
		if _, err := s.repo.GetTenantUser(ctx, tenantID, *req.AssignedTo); err != nil {
			return transport.LeadResponse{}, err
		}
		params.AssignedTo = req.AssignedTo
	}

	lead, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadRegistered{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		TenantID:   tenantID,
		CampaignID: lead.CampaignID,
		SectorID:   lead.SectorID,
		AssignedTo: lead.AssignedTo,
	})

	return ToLeadResponse(lead), nil
}

// GetByID retrieves a lead by ID within the tenant scope.
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}

// ListByOwner lists leads owned by a salesperson.
func (s *Service) ListByOwner(ctx context.Context, tenantID, ownerID uuid.UUID) (transport.LeadListResponse, error) {
	leads, err := s.repo.ListByOwner(ctx, tenantID, ownerID)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	return ToLeadListResponse(leads), nil
}

// ListByCampaign lists all leads attached to a campaign.
func (s *Service) ListByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) (transport.LeadListResponse, error) {
	leads, err := s.repo.ListByCampaign(ctx, tenantID, campaignID)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	return ToLeadListResponse(leads), nil
}

// ListUnassigned lists leads without an owner.
func (s *Service) ListUnassigned(ctx context.Context, tenantID uuid.UUID) (transport.LeadListResponse, error) {
	leads, err := s.repo.ListUnassigned(ctx, tenantID)
	if err != nil {
		return transport.LeadListResponse{}, err
	}
	return ToLeadListResponse(leads), nil
}

// Reassign changes a lead's owner and publishes the assignment event.
func (s *Service) Reassign(ctx context.Context, tenantID, leadID uuid.UUID, req transport.ReassignLeadRequest, actorID uuid.UUID) (transport.LeadResponse, error) {
	before, err := s.repo.GetByID(ctx, tenantID, leadID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.repo.Reassign(ctx, tenantID, leadID, req.NewOwnerID)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.bus.Publish(ctx, events.LeadAssigned{
		BaseEvent:     events.NewBaseEvent(),
		LeadID:        lead.ID,
		TenantID:      tenantID,
		PreviousOwner: before.AssignedTo,
		NewOwner:      req.NewOwnerID,
		AssignedByID:  actorID,
	})

	return ToLeadResponse(lead), nil
}

// BulkReassign changes the owner of several leads atomically.
func (s *Service) BulkReassign(ctx context.Context, tenantID uuid.UUID, req transport.BulkReassignRequest, actorID uuid.UUID) (transport.BulkReassignResponse, error) {
	updated, err := s.repo.BulkReassign(ctx, tenantID, req.LeadIDs, req.NewOwnerID)
	if err != nil {
		return transport.BulkReassignResponse{}, err
	}

	for _, leadID := range req.LeadIDs {
		s.bus.Publish(ctx, events.LeadAssigned{
			BaseEvent:    events.NewBaseEvent(),
			LeadID:       leadID,
			TenantID:     tenantID,
			NewOwner:     req.NewOwnerID,
			AssignedByID: actorID,
		})
	}

	return transport.BulkReassignResponse{Updated: updated}, nil
}

// Archive removes a lead from active views without deleting it.
func (s *Service) Archive(ctx context.Context, tenantID, leadID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.SetArchived(ctx, tenantID, leadID, true)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}

// Unarchive restores an archived lead to active views.
func (s *Service) Unarchive(ctx context.Context, tenantID, leadID uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.repo.SetArchived(ctx, tenantID, leadID, false)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return ToLeadResponse(lead), nil
}
