// Package service contains geographic sector business logic.
package service

import (
	"context"

	"prospection_backend/internal/sectors/repository"
	"prospection_backend/internal/sectors/transport"
	"prospection_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Service handles sector operations. It also implements the sector directory
// the assignment engine consumes.
type Service struct {
	repo repository.Repository
}

// New creates a new sector service.
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a sector.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, req transport.CreateSectorRequest) (transport.SectorResponse, error) {
	sector, err := s.repo.Create(ctx, tenantID, sanitize.Text(req.Name))
	if err != nil {
		return transport.SectorResponse{}, err
	}
	return toResponse(sector, nil, nil), nil
}

// GetByID retrieves a sector with its users and zones.
func (s *Service) GetByID(ctx context.Context, tenantID, id uuid.UUID) (transport.SectorResponse, error) {
	sector, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return transport.SectorResponse{}, err
	}
	users, err := s.repo.ListUsers(ctx, tenantID, id)
	if err != nil {
		return transport.SectorResponse{}, err
	}
	zones, err := s.repo.ListZones(ctx, tenantID, id)
	if err != nil {
		return transport.SectorResponse{}, err
	}
	return toResponse(sector, users, zones), nil
}

// List retrieves all sectors of the tenant.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) (transport.SectorListResponse, error) {
	sectors, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return transport.SectorListResponse{}, err
	}

	items := make([]transport.SectorResponse, 0, len(sectors))
	for _, sector := range sectors {
		items = append(items, toResponse(sector, nil, nil))
	}
	return transport.SectorListResponse{Items: items, Total: len(items)}, nil
}

// Delete removes a sector with its memberships and zones.
func (s *Service) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// AssignUser adds a user to a sector's working set.
func (s *Service) AssignUser(ctx context.Context, tenantID, sectorID uuid.UUID, req transport.AssignUserRequest) error {
	return s.repo.AssignUser(ctx, tenantID, sectorID, req.UserID, req.IsPrimary)
}

// UnassignUser removes a user from a sector's working set.
func (s *Service) UnassignUser(ctx context.Context, tenantID, sectorID, userID uuid.UUID) error {
	return s.repo.UnassignUser(ctx, tenantID, sectorID, userID)
}

// AddZone attaches a postal-code/city entry to a sector.
func (s *Service) AddZone(ctx context.Context, tenantID, sectorID uuid.UUID, req transport.AddZoneRequest) (transport.ZoneResponse, error) {
	zone, err := s.repo.AddZone(ctx, tenantID, sectorID, sanitize.Text(req.PostalCode), sanitize.Text(req.City))
	if err != nil {
		return transport.ZoneResponse{}, err
	}
	return transport.ZoneResponse{ID: zone.ID, PostalCode: zone.PostalCode, City: zone.City}, nil
}

// RemoveZone detaches a zone from a sector.
func (s *Service) RemoveZone(ctx context.Context, tenantID, sectorID, zoneID uuid.UUID) error {
	return s.repo.RemoveZone(ctx, tenantID, sectorID, zoneID)
}

// Match resolves a postal code or city to a sector.
func (s *Service) Match(ctx context.Context, tenantID uuid.UUID, postalCode, city string) (transport.MatchResponse, error) {
	sectorID, matched, err := s.repo.MatchSector(ctx, tenantID, postalCode, city)
	if err != nil {
		return transport.MatchResponse{}, err
	}
	if !matched {
		return transport.MatchResponse{Matched: false}, nil
	}
	return transport.MatchResponse{SectorID: &sectorID, Matched: true}, nil
}

// ListAssignedUsers returns, per sector, the users working it.
func (s *Service) ListAssignedUsers(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	return s.repo.ListAssignedUsers(ctx, tenantID)
}

// ListPrimaryAssignees returns, per sector, the primary assignee.
func (s *Service) ListPrimaryAssignees(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	return s.repo.ListPrimaryAssignees(ctx, tenantID)
}

func toResponse(sector repository.Sector, users []repository.SectorUser, zones []repository.Zone) transport.SectorResponse {
	resp := transport.SectorResponse{
		ID:        sector.ID,
		Name:      sector.Name,
		CreatedAt: sector.CreatedAt,
		UpdatedAt: sector.UpdatedAt,
	}
	for _, user := range users {
		resp.Users = append(resp.Users, transport.SectorUserResponse{UserID: user.UserID, IsPrimary: user.IsPrimary})
	}
	for _, zone := range zones {
		resp.Zones = append(resp.Zones, transport.ZoneResponse{ID: zone.ID, PostalCode: zone.PostalCode, City: zone.City})
	}
	return resp
}
