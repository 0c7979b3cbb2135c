package assignment

import (
	"context"
	"testing"

	"prospection_backend/internal/events"
	"prospection_backend/internal/leads/repository"
	"prospection_backend/internal/leads/transport"
	"prospection_backend/platform/apperr"
	"prospection_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads map[uuid.UUID]*repository.Lead
	users map[uuid.UUID]repository.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		leads: make(map[uuid.UUID]*repository.Lead),
		users: make(map[uuid.UUID]repository.User),
	}
}

func (f *fakeRepo) addUser(tenantID uuid.UUID) uuid.UUID {
	id := uuid.New()
	f.users[id] = repository.User{ID: id, TenantID: tenantID, Active: true}
	return id
}

func (f *fakeRepo) addLead(tenantID uuid.UUID, campaignID uuid.UUID, owner *uuid.UUID, sectorID *uuid.UUID) uuid.UUID {
	id := uuid.New()
	cid := campaignID
	f.leads[id] = &repository.Lead{
		ID: id, TenantID: tenantID, CampaignID: &cid,
		AssignedTo: owner, SectorID: sectorID, PipelineStage: "cold_call",
	}
	return id
}

func (f *fakeRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok || lead.TenantID != tenantID {
		return repository.Lead{}, apperr.NotFound("lead not found")
	}
	return *lead, nil
}

func (f *fakeRepo) ListByOwner(context.Context, uuid.UUID, uuid.UUID) ([]repository.Lead, error) {
	return nil, nil
}

func (f *fakeRepo) ListByCampaign(context.Context, uuid.UUID, uuid.UUID) ([]repository.Lead, error) {
	return nil, nil
}

func (f *fakeRepo) ListOwnedIDsInCampaign(_ context.Context, tenantID, campaignID, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, lead := range f.leads {
		if lead.TenantID != tenantID || lead.CampaignID == nil || *lead.CampaignID != campaignID {
			continue
		}
		if lead.AssignedTo != nil && *lead.AssignedTo == ownerID {
			ids = append(ids, lead.ID)
		}
	}
	return ids, nil
}

func (f *fakeRepo) ListUnassigned(context.Context, uuid.UUID) ([]repository.Lead, error) {
	return nil, nil
}

func (f *fakeRepo) ListWithSector(_ context.Context, tenantID uuid.UUID) ([]repository.Lead, error) {
	var leads []repository.Lead
	for _, lead := range f.leads {
		if lead.TenantID == tenantID && lead.SectorID != nil {
			leads = append(leads, *lead)
		}
	}
	return leads, nil
}

func (f *fakeRepo) Create(context.Context, repository.CreateLeadParams) (repository.Lead, error) {
	return repository.Lead{}, nil
}

func (f *fakeRepo) Reassign(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (repository.Lead, error) {
	return repository.Lead{}, nil
}

func (f *fakeRepo) BulkReassign(context.Context, uuid.UUID, []uuid.UUID, uuid.UUID) (int, error) {
	return 0, nil
}

func (f *fakeRepo) ReassignBatch(_ context.Context, tenantID uuid.UUID, changes []repository.OwnerChange) (int, error) {
	for _, change := range changes {
		lead, ok := f.leads[change.LeadID]
		if !ok || lead.TenantID != tenantID {
			return 0, apperr.NotFound("lead not found")
		}
		if !sameOwner(lead.AssignedTo, change.ExpectedOwner) {
			return 0, apperr.Conflict("lead ownership changed concurrently")
		}
	}
	for _, change := range changes {
		owner := change.NewOwner
		f.leads[change.LeadID].AssignedTo = &owner
	}
	return len(changes), nil
}

func (f *fakeRepo) SetArchived(context.Context, uuid.UUID, uuid.UUID, bool) (repository.Lead, error) {
	return repository.Lead{}, nil
}

func (f *fakeRepo) GetUser(_ context.Context, id uuid.UUID) (repository.User, error) {
	user, ok := f.users[id]
	if !ok {
		return repository.User{}, apperr.NotFound("user not found")
	}
	return user, nil
}

func (f *fakeRepo) GetTenantUser(_ context.Context, tenantID, id uuid.UUID) (repository.User, error) {
	user, err := f.GetUser(context.Background(), id)
	if err != nil {
		return repository.User{}, err
	}
	if user.TenantID != tenantID {
		return repository.User{}, apperr.CrossTenant("user belongs to another tenant")
	}
	return user, nil
}

func sameOwner(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type fakeCampaigns struct {
	statuses map[uuid.UUID]string
}

func (f *fakeCampaigns) GetCampaignStatus(_ context.Context, _, campaignID uuid.UUID) (string, error) {
	status, ok := f.statuses[campaignID]
	if !ok {
		return "", apperr.NotFound("campaign not found")
	}
	return status, nil
}

type fakeSectors struct {
	users     map[uuid.UUID][]uuid.UUID
	primaries map[uuid.UUID]uuid.UUID
}

func (f *fakeSectors) ListAssignedUsers(context.Context, uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	return f.users, nil
}

func (f *fakeSectors) ListPrimaryAssignees(context.Context, uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	return f.primaries, nil
}

type nopBus struct{}

func (nopBus) Publish(context.Context, events.Event)          {}
func (nopBus) PublishSync(context.Context, events.Event) error { return nil }
func (nopBus) Subscribe(string, events.Handler)                {}

func newTestService(repo *fakeRepo, campaigns *fakeCampaigns, sectors *fakeSectors) *Service {
	if campaigns == nil {
		campaigns = &fakeCampaigns{statuses: map[uuid.UUID]string{}}
	}
	if sectors == nil {
		sectors = &fakeSectors{}
	}
	return New(repo, campaigns, sectors, nopBus{}, logger.New("development"))
}

func TestTransferLeads_SameSourceAndTarget(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, nil)

	userID := uuid.New()
	_, err := svc.TransferLeads(context.Background(), uuid.New(), transport.TransferLeadsRequest{
		CampaignID:   uuid.New(),
		SourceUserID: userID,
		TargetUserID: userID,
		TransferAll:  true,
	})
	if !apperr.Is(err, apperr.KindInvalidTransfer) {
		t.Fatalf("expected invalid transfer error, got %v", err)
	}
}

func TestTransferLeads_StoppedCampaign(t *testing.T) {
	tenantID := uuid.New()
	campaignID := uuid.New()
	repo := newFakeRepo()
	source := repo.addUser(tenantID)
	target := repo.addUser(tenantID)
	campaigns := &fakeCampaigns{statuses: map[uuid.UUID]string{campaignID: "stopped"}}
	svc := newTestService(repo, campaigns, nil)

	_, err := svc.TransferLeads(context.Background(), tenantID, transport.TransferLeadsRequest{
		CampaignID:   campaignID,
		SourceUserID: source,
		TargetUserID: target,
		TransferAll:  true,
	})
	if !apperr.Is(err, apperr.KindCampaignFrozen) {
		t.Fatalf("expected frozen campaign error, got %v", err)
	}
}

func TestTransferLeads_SubsetSkipsUnowned(t *testing.T) {
	tenantID := uuid.New()
	campaignID := uuid.New()
	repo := newFakeRepo()
	source := repo.addUser(tenantID)
	target := repo.addUser(tenantID)
	other := repo.addUser(tenantID)

	ownedA := repo.addLead(tenantID, campaignID, &source, nil)
	ownedB := repo.addLead(tenantID, campaignID, &source, nil)
	foreign := repo.addLead(tenantID, campaignID, &other, nil)

	campaigns := &fakeCampaigns{statuses: map[uuid.UUID]string{campaignID: "active"}}
	svc := newTestService(repo, campaigns, nil)

	result, err := svc.TransferLeads(context.Background(), tenantID, transport.TransferLeadsRequest{
		CampaignID:   campaignID,
		SourceUserID: source,
		TargetUserID: target,
		LeadIDs:      []uuid.UUID{ownedA, ownedB, foreign},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TransferredCount != 2 {
		t.Fatalf("expected 2 transferred, got %d", result.TransferredCount)
	}
	if len(result.ExcludedIDs) != 1 || result.ExcludedIDs[0] != foreign {
		t.Fatalf("expected the foreign lead to be excluded, got %v", result.ExcludedIDs)
	}

	if owner := repo.leads[ownedA].AssignedTo; owner == nil || *owner != target {
		t.Fatalf("expected lead to belong to the target after transfer")
	}
	if owner := repo.leads[foreign].AssignedTo; owner == nil || *owner != other {
		t.Fatalf("expected the excluded lead to keep its owner")
	}
}

func TestTransferLeads_AllMovesEverything(t *testing.T) {
	tenantID := uuid.New()
	campaignID := uuid.New()
	repo := newFakeRepo()
	source := repo.addUser(tenantID)
	target := repo.addUser(tenantID)

	for i := 0; i < 5; i++ {
		repo.addLead(tenantID, campaignID, &source, nil)
	}

	campaigns := &fakeCampaigns{statuses: map[uuid.UUID]string{campaignID: "active"}}
	svc := newTestService(repo, campaigns, nil)

	result, err := svc.TransferLeads(context.Background(), tenantID, transport.TransferLeadsRequest{
		CampaignID:   campaignID,
		SourceUserID: source,
		TargetUserID: target,
		TransferAll:  true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TransferredCount != 5 {
		t.Fatalf("expected 5 transferred, got %d", result.TransferredCount)
	}
	for _, lead := range repo.leads {
		if lead.AssignedTo == nil || *lead.AssignedTo != target {
			t.Fatalf("expected every lead to move to the target")
		}
	}
}

func TestDistributeLeads_Evenness(t *testing.T) {
	tenantID := uuid.New()
	campaignID := uuid.New()
	repo := newFakeRepo()
	source := repo.addUser(tenantID)
	targets := []uuid.UUID{repo.addUser(tenantID), repo.addUser(tenantID), repo.addUser(tenantID)}

	for i := 0; i < 7; i++ {
		repo.addLead(tenantID, campaignID, &source, nil)
	}

	campaigns := &fakeCampaigns{statuses: map[uuid.UUID]string{campaignID: "active"}}
	svc := newTestService(repo, campaigns, nil)

	result, err := svc.DistributeLeads(context.Background(), tenantID, transport.DistributeLeadsRequest{
		CampaignID:    campaignID,
		SourceUserID:  source,
		TargetUserIDs: targets,
		TransferAll:   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	total := 0
	for _, count := range result.PerTarget {
		if count != 2 && count != 3 {
			t.Fatalf("expected each target to receive 2 or 3 leads, got %d", count)
		}
		total += count
	}
	if total != 7 {
		t.Fatalf("expected 7 leads distributed, got %d", total)
	}
	for _, lead := range repo.leads {
		if lead.AssignedTo == nil || *lead.AssignedTo == source {
			t.Fatalf("expected the source to own nothing after distribution")
		}
	}
}

func TestDistributeLeads_DuplicateTargetsLoseNothing(t *testing.T) {
	tenantID := uuid.New()
	campaignID := uuid.New()
	repo := newFakeRepo()
	source := repo.addUser(tenantID)
	targetA := repo.addUser(tenantID)
	targetB := repo.addUser(tenantID)

	for i := 0; i < 6; i++ {
		repo.addLead(tenantID, campaignID, &source, nil)
	}

	campaigns := &fakeCampaigns{statuses: map[uuid.UUID]string{campaignID: "active"}}
	svc := newTestService(repo, campaigns, nil)

	result, err := svc.DistributeLeads(context.Background(), tenantID, transport.DistributeLeadsRequest{
		CampaignID:    campaignID,
		SourceUserID:  source,
		TargetUserIDs: []uuid.UUID{targetA, targetB, targetA},
		TransferAll:   true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PerTarget[targetA] != 3 || result.PerTarget[targetB] != 3 {
		t.Fatalf("expected a 3/3 split over the distinct targets, got %+v", result.PerTarget)
	}
	total := 0
	for _, count := range result.PerTarget {
		total += count
	}
	if total != 6 {
		t.Fatalf("expected all 6 leads distributed, got %d", total)
	}
	for _, lead := range repo.leads {
		if lead.AssignedTo == nil || *lead.AssignedTo == source {
			t.Fatalf("expected every lead to move off the source")
		}
	}
}

func TestDistributeLeads_EmptySourceRejected(t *testing.T) {
	tenantID := uuid.New()
	campaignID := uuid.New()
	repo := newFakeRepo()
	source := repo.addUser(tenantID)
	target := repo.addUser(tenantID)

	campaigns := &fakeCampaigns{statuses: map[uuid.UUID]string{campaignID: "active"}}
	svc := newTestService(repo, campaigns, nil)

	_, err := svc.DistributeLeads(context.Background(), tenantID, transport.DistributeLeadsRequest{
		CampaignID:    campaignID,
		SourceUserID:  source,
		TargetUserIDs: []uuid.UUID{target},
		TransferAll:   true,
	})
	if !apperr.Is(err, apperr.KindInvalidTransfer) {
		t.Fatalf("expected invalid transfer error for empty source, got %v", err)
	}
}

func TestProposeOwner(t *testing.T) {
	tenantID := uuid.New()
	campaignID := uuid.New()
	repo := newFakeRepo()
	primary := repo.addUser(tenantID)
	sectorID := uuid.New()
	leadID := repo.addLead(tenantID, campaignID, nil, &sectorID)
	noSectorID := repo.addLead(tenantID, campaignID, nil, nil)

	sectors := &fakeSectors{
		users:     map[uuid.UUID][]uuid.UUID{sectorID: {primary}},
		primaries: map[uuid.UUID]uuid.UUID{sectorID: primary},
	}
	svc := newTestService(repo, nil, sectors)

	resp, err := svc.ProposeOwner(context.Background(), tenantID, leadID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ProposedOwnerID == nil || *resp.ProposedOwnerID != primary {
		t.Fatalf("expected the primary assignee to be proposed")
	}

	resp, err = svc.ProposeOwner(context.Background(), tenantID, noSectorID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.ProposedOwnerID != nil {
		t.Fatalf("expected no proposal for a lead without a sector")
	}
}

func TestReassignAllBySector_Idempotent(t *testing.T) {
	tenantID := uuid.New()
	campaignID := uuid.New()
	repo := newFakeRepo()
	primary := repo.addUser(tenantID)
	outsider := repo.addUser(tenantID)
	sectorID := uuid.New()

	repo.addLead(tenantID, campaignID, &outsider, &sectorID)
	repo.addLead(tenantID, campaignID, nil, &sectorID)
	inSector := repo.addUser(tenantID)
	repo.addLead(tenantID, campaignID, &inSector, &sectorID)

	sectors := &fakeSectors{
		users:     map[uuid.UUID][]uuid.UUID{sectorID: {primary, inSector}},
		primaries: map[uuid.UUID]uuid.UUID{sectorID: primary},
	}
	svc := newTestService(repo, nil, sectors)

	first, err := svc.ReassignAllBySector(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Count != 2 {
		t.Fatalf("expected 2 leads reassigned on the first run, got %d", first.Count)
	}

	second, err := svc.ReassignAllBySector(context.Background(), tenantID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Count != 0 {
		t.Fatalf("expected the second run to move nothing, got %d", second.Count)
	}
}
