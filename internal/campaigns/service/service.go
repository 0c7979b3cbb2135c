// Package service contains campaign lifecycle business logic.
package service

import (
	"context"

	"prospection_backend/internal/campaigns/domain"
	"prospection_backend/internal/campaigns/repository"
	"prospection_backend/internal/campaigns/transport"
	"prospection_backend/internal/events"
	"prospection_backend/platform/apperr"

	"github.com/google/uuid"
)

// Service handles campaign lifecycle operations.
type Service struct {
	repo repository.Repository
	bus  events.Bus
}

// New creates a new campaign service.
func New(repo repository.Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Create creates a campaign in draft state.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req transport.CreateCampaignRequest) (transport.CampaignResponse, error) {
	if !domain.IsKnownType(domain.Type(req.Type)) {
		return transport.CampaignResponse{}, apperr.Validation("unknown campaign type")
	}

	campaign, err := s.repo.Create(ctx, repository.CreateCampaignParams{
		TenantID: tenantID,
		Name:     req.Name,
		Type:     req.Type,
	})
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	return toResponse(campaign, nil), nil
}

// GetByID retrieves a campaign with its assigned users.
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (transport.CampaignResponse, error) {
	campaign, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	users, err := s.repo.ListAssignedUsers(ctx, tenantID, id)
	if err != nil {
		return transport.CampaignResponse{}, err
	}
	return toResponse(campaign, users), nil
}

// List retrieves all campaigns of the tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) (transport.CampaignListResponse, error) {
	campaigns, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return transport.CampaignListResponse{}, err
	}

	items := make([]transport.CampaignResponse, 0, len(campaigns))
	for _, campaign := range campaigns {
		items = append(items, toResponse(campaign, nil))
	}
	return transport.CampaignListResponse{Items: items, Total: len(items)}, nil
}

// SetStatus applies a lifecycle operation and publishes the status change.
func (s *Service) SetStatus(ctx context.Context, tenantID, id uuid.UUID, req transport.StatusChangeRequest) (transport.CampaignResponse, error) {
	op := domain.Operation(req.Operation)
	if !domain.IsKnownOperation(op) {
		return transport.CampaignResponse{}, apperr.Validation("unknown campaign operation")
	}

	campaign, previous, err := s.repo.Transition(ctx, tenantID, id, op)
	if err != nil {
		return transport.CampaignResponse{}, err
	}

	s.bus.Publish(ctx, events.CampaignStatusChanged{
		BaseEvent:  events.NewBaseEvent(),
		CampaignID: campaign.ID,
		TenantID:   tenantID,
		Operation:  string(op),
		Previous:   previous,
		Next:       campaign.Status,
	})

	return toResponse(campaign, nil), nil
}

// Delete removes a campaign. Running campaigns must be stopped first.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// AssignUser adds a user to the campaign's working set.
func (s *Service) AssignUser(ctx context.Context, tenantID, campaignID uuid.UUID, req transport.AssignUserRequest) error {
	return s.repo.AssignUser(ctx, tenantID, campaignID, req.UserID)
}

// UnassignUser removes a user from the campaign's working set.
func (s *Service) UnassignUser(ctx context.Context, tenantID, campaignID, userID uuid.UUID) error {
	return s.repo.UnassignUser(ctx, tenantID, campaignID, userID)
}

// GetCampaignStatus reports a campaign's current lifecycle status. Other
// modules consume this through their own reader interfaces.
func (s *Service) GetCampaignStatus(ctx context.Context, tenantID, campaignID uuid.UUID) (string, error) {
	return s.repo.GetCampaignStatus(ctx, tenantID, campaignID)
}

func toResponse(campaign repository.Campaign, users []uuid.UUID) transport.CampaignResponse {
	return transport.CampaignResponse{
		ID:            campaign.ID,
		Name:          campaign.Name,
		Type:          campaign.Type,
		Status:        campaign.Status,
		SentCount:     campaign.SentCount,
		TotalLeads:    campaign.TotalLeads,
		AssignedUsers: users,
		CreatedAt:     campaign.CreatedAt,
		UpdatedAt:     campaign.UpdatedAt,
	}
}
