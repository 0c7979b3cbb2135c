// Package assignment handles lead ownership moves: single transfers,
// equitable distribution across several salespeople, sector-based default
// assignment, and tenant-wide sector reconciliation.
package assignment

import (
	"context"
	"errors"

	"prospection_backend/internal/events"
	"prospection_backend/internal/leads/domain"
	"prospection_backend/internal/leads/repository"
	"prospection_backend/internal/leads/transport"
	"prospection_backend/platform/apperr"
	"prospection_backend/platform/logger"

	"github.com/google/uuid"
)

// Repository defines the data access interface needed by the assignment
// service. This is a consumer-driven interface - only what assignment needs.
type Repository interface {
	repository.LeadReader
	repository.LeadWriter
	repository.UserReader
}

// CampaignStatusReader reports a campaign's lifecycle status. Implemented by
// the campaigns module; declared here so this package owns its dependency.
type CampaignStatusReader interface {
	GetCampaignStatus(ctx context.Context, tenantID, campaignID uuid.UUID) (string, error)
}

// SectorDirectory exposes sector membership in primitive form so the sectors
// module can satisfy it without sharing types.
type SectorDirectory interface {
	// ListAssignedUsers returns, per sector, the users working that sector.
	ListAssignedUsers(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	// ListPrimaryAssignees returns, per sector, the primary assignee.
	// Sectors without a primary are absent from the map.
	ListPrimaryAssignees(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

// campaign status that blocks ownership moves
const statusStopped = "stopped"

// Service orchestrates ownership moves over the lead registry.
type Service struct {
	repo      Repository
	campaigns CampaignStatusReader
	sectors   SectorDirectory
	bus       events.Bus
	log       *logger.Logger
}

// New creates a new assignment service.
func New(repo Repository, campaigns CampaignStatusReader, sectors SectorDirectory, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, campaigns: campaigns, sectors: sectors, bus: bus, log: log}
}

// TransferLeads moves leads from one salesperson to another within a
// campaign. The move is atomic: either every planned lead changes owner or
// none does. Requested leads not owned by the source are skipped and reported.
func (s *Service) TransferLeads(ctx context.Context, tenantID uuid.UUID, req transport.TransferLeadsRequest) (transport.TransferResult, error) {
	if req.SourceUserID == req.TargetUserID {
		return transport.TransferResult{}, apperr.InvalidTransfer("source and target user must differ")
	}

	if err := s.ensureCampaignActive(ctx, tenantID, req.CampaignID); err != nil {
		return transport.TransferResult{}, err
	}
	if _, err := s.repo.GetTenantUser(ctx, tenantID, req.TargetUserID); err != nil {
		return transport.TransferResult{}, err
	}

	owned, err := s.repo.ListOwnedIDsInCampaign(ctx, tenantID, req.CampaignID, req.SourceUserID)
	if err != nil {
		return transport.TransferResult{}, err
	}

	plan, err := domain.PlanTransfer(owned, req.TransferAll, req.LeadIDs)
	if err != nil {
		return transport.TransferResult{}, mapPlanError(err)
	}
	if len(plan.LeadIDs) == 0 {
		return transport.TransferResult{ExcludedIDs: plan.ExcludedIDs}, nil
	}

	changes := make([]repository.OwnerChange, 0, len(plan.LeadIDs))
	source := req.SourceUserID
	for _, leadID := range plan.LeadIDs {
		changes = append(changes, repository.OwnerChange{
			LeadID:        leadID,
			ExpectedOwner: &source,
			NewOwner:      req.TargetUserID,
		})
	}

	moved, err := s.repo.ReassignBatch(ctx, tenantID, changes)
	if err != nil {
		return transport.TransferResult{}, err
	}

	s.bus.Publish(ctx, events.LeadsTransferred{
		BaseEvent:    events.NewBaseEvent(),
		TenantID:     tenantID,
		CampaignID:   req.CampaignID,
		SourceUserID: req.SourceUserID,
		TargetUserID: req.TargetUserID,
		LeadIDs:      plan.LeadIDs,
	})

	return transport.TransferResult{TransferredCount: moved, ExcludedIDs: plan.ExcludedIDs}, nil
}

// DistributeLeads spreads a salesperson's leads across several targets as
// evenly as possible. Each target ends up with either base or base+1 leads,
// base being total divided by target count; the first targets in request
// order receive the extras. Every lead moves exactly once.
func (s *Service) DistributeLeads(ctx context.Context, tenantID uuid.UUID, req transport.DistributeLeadsRequest) (transport.DistributionResult, error) {
	if err := s.ensureCampaignActive(ctx, tenantID, req.CampaignID); err != nil {
		return transport.DistributionResult{}, err
	}
	targets := dedupe(req.TargetUserIDs)
	for _, targetID := range targets {
		if _, err := s.repo.GetTenantUser(ctx, tenantID, targetID); err != nil {
			return transport.DistributionResult{}, err
		}
	}

	owned, err := s.repo.ListOwnedIDsInCampaign(ctx, tenantID, req.CampaignID, req.SourceUserID)
	if err != nil {
		return transport.DistributionResult{}, err
	}

	plan, err := domain.PlanTransfer(owned, req.TransferAll, req.LeadIDs)
	if err != nil {
		return transport.DistributionResult{}, mapPlanError(err)
	}

	dist, err := domain.PlanDistribution(plan.LeadIDs, targets)
	if err != nil {
		return transport.DistributionResult{}, mapPlanError(err)
	}

	source := req.SourceUserID
	changes := make([]repository.OwnerChange, 0, len(plan.LeadIDs))
	for _, target := range dist.TargetOrder {
		for _, leadID := range dist.Assignments[target] {
			changes = append(changes, repository.OwnerChange{
				LeadID:        leadID,
				ExpectedOwner: &source,
				NewOwner:      target,
			})
		}
	}

	if _, err := s.repo.ReassignBatch(ctx, tenantID, changes); err != nil {
		return transport.DistributionResult{}, err
	}

	counts := dist.Counts()
	s.bus.Publish(ctx, events.LeadsDistributed{
		BaseEvent:    events.NewBaseEvent(),
		TenantID:     tenantID,
		CampaignID:   req.CampaignID,
		SourceUserID: req.SourceUserID,
		PerTarget:    counts,
	})

	return transport.DistributionResult{PerTarget: counts, ExcludedIDs: plan.ExcludedIDs}, nil
}

// ProposeOwner recommends an owner for a lead based on its geographic
// sector's primary assignee. It never mutates the lead.
func (s *Service) ProposeOwner(ctx context.Context, tenantID, leadID uuid.UUID) (transport.ProposedOwnerResponse, error) {
	lead, err := s.repo.GetByID(ctx, tenantID, leadID)
	if err != nil {
		return transport.ProposedOwnerResponse{}, err
	}

	resp := transport.ProposedOwnerResponse{LeadID: lead.ID, SectorID: lead.SectorID}
	if lead.SectorID == nil {
		resp.Reason = "lead has no sector"
		return resp, nil
	}

	primaries, err := s.sectors.ListPrimaryAssignees(ctx, tenantID)
	if err != nil {
		return transport.ProposedOwnerResponse{}, err
	}
	primary, ok := primaries[*lead.SectorID]
	if !ok {
		resp.Reason = "sector has no primary assignee"
		return resp, nil
	}

	if lead.AssignedTo != nil && *lead.AssignedTo == primary {
		resp.Reason = "lead already owned by the primary assignee"
		return resp, nil
	}

	resp.ProposedOwnerID = &primary
	resp.Reason = "primary assignee of the lead's sector"
	return resp, nil
}

// ReassignAllBySector reconciles every sector-bearing lead in the tenant with
// its sector's membership: leads owned outside the sector, or unowned, move
// to the sector's primary assignee. Running it twice over unchanged data
// moves nothing the second time.
func (s *Service) ReassignAllBySector(ctx context.Context, tenantID uuid.UUID) (transport.SectorReassignmentResult, error) {
	leads, err := s.repo.ListWithSector(ctx, tenantID)
	if err != nil {
		return transport.SectorReassignmentResult{}, err
	}

	assigned, err := s.sectors.ListAssignedUsers(ctx, tenantID)
	if err != nil {
		return transport.SectorReassignmentResult{}, err
	}
	primaries, err := s.sectors.ListPrimaryAssignees(ctx, tenantID)
	if err != nil {
		return transport.SectorReassignmentResult{}, err
	}

	sectors := make(map[uuid.UUID]domain.SectorAssignment, len(assigned))
	for sectorID, users := range assigned {
		sa := domain.SectorAssignment{Users: users}
		if primary, ok := primaries[sectorID]; ok {
			p := primary
			sa.Primary = &p
		}
		sectors[sectorID] = sa
	}
	for sectorID, primary := range primaries {
		if _, ok := sectors[sectorID]; !ok {
			p := primary
			sectors[sectorID] = domain.SectorAssignment{Primary: &p}
		}
	}

	ownerships := make([]domain.LeadOwnership, 0, len(leads))
	byID := make(map[uuid.UUID]repository.Lead, len(leads))
	for _, lead := range leads {
		ownerships = append(ownerships, domain.LeadOwnership{
			LeadID:   lead.ID,
			OwnerID:  lead.AssignedTo,
			SectorID: lead.SectorID,
		})
		byID[lead.ID] = lead
	}

	plan := domain.PlanSectorReassignment(ownerships, sectors)
	if len(plan) == 0 {
		return transport.SectorReassignmentResult{Count: 0}, nil
	}

	changes := make([]repository.OwnerChange, 0, len(plan))
	for _, change := range plan {
		changes = append(changes, repository.OwnerChange{
			LeadID:        change.LeadID,
			ExpectedOwner: byID[change.LeadID].AssignedTo,
			NewOwner:      change.NewOwnerID,
		})
	}

	moved, err := s.repo.ReassignBatch(ctx, tenantID, changes)
	if err != nil {
		return transport.SectorReassignmentResult{}, err
	}

	s.log.Info("sector reassignment completed", "tenant_id", tenantID.String(), "count", moved)
	s.bus.Publish(ctx, events.SectorReassignmentCompleted{
		BaseEvent: events.NewBaseEvent(),
		TenantID:  tenantID,
		Count:     moved,
	})

	return transport.SectorReassignmentResult{Count: moved}, nil
}

// ensureCampaignActive rejects ownership moves inside a stopped campaign.
func (s *Service) ensureCampaignActive(ctx context.Context, tenantID, campaignID uuid.UUID) error {
	status, err := s.campaigns.GetCampaignStatus(ctx, tenantID, campaignID)
	if err != nil {
		return err
	}
	if status == statusStopped {
		return apperr.CampaignFrozen("campaign is stopped")
	}
	return nil
}

func mapPlanError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNoLeadsSelected):
		return apperr.InvalidTransfer("no leads selected")
	case errors.Is(err, domain.ErrNoTargets):
		return apperr.InvalidTransfer("no target users")
	case errors.Is(err, domain.ErrNothingToMove):
		return apperr.InvalidTransfer("source user owns no matching leads")
	default:
		return err
	}
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
