package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestPlanSectorReassignment_MismatchedOwnersMove(t *testing.T) {
	sectorID := uuid.New()
	primary := uuid.New()
	other := uuid.New()
	outsider := uuid.New()

	sectors := map[uuid.UUID]SectorAssignment{
		sectorID: {Users: []uuid.UUID{primary, other}, Primary: &primary},
	}

	leads := []LeadOwnership{
		{LeadID: uuid.New(), OwnerID: &outsider, SectorID: &sectorID}, // moves
		{LeadID: uuid.New(), OwnerID: &other, SectorID: &sectorID},    // stays
		{LeadID: uuid.New(), OwnerID: nil, SectorID: &sectorID},       // moves
		{LeadID: uuid.New(), OwnerID: &outsider, SectorID: nil},       // no sector
	}

	plan := PlanSectorReassignment(leads, sectors)
	if len(plan) != 2 {
		t.Fatalf("expected 2 planned changes, got %d", len(plan))
	}
	for _, change := range plan {
		if change.NewOwnerID != primary {
			t.Fatalf("expected reassignment to the primary assignee")
		}
	}
}

func TestPlanSectorReassignment_Idempotent(t *testing.T) {
	sectorID := uuid.New()
	primary := uuid.New()
	outsider := uuid.New()

	sectors := map[uuid.UUID]SectorAssignment{
		sectorID: {Users: []uuid.UUID{primary}, Primary: &primary},
	}

	leads := []LeadOwnership{
		{LeadID: uuid.New(), OwnerID: &outsider, SectorID: &sectorID},
		{LeadID: uuid.New(), OwnerID: nil, SectorID: &sectorID},
	}

	first := PlanSectorReassignment(leads, sectors)
	if len(first) != 2 {
		t.Fatalf("expected 2 changes on the first run, got %d", len(first))
	}

	// Apply the plan, then run again: nothing should move.
	for i := range leads {
		owner := first[i].NewOwnerID
		leads[i].OwnerID = &owner
	}

	second := PlanSectorReassignment(leads, sectors)
	if len(second) != 0 {
		t.Fatalf("expected 0 changes on the second run, got %d", len(second))
	}
}

func TestPlanSectorReassignment_NoPrimaryNoChange(t *testing.T) {
	sectorID := uuid.New()
	sectors := map[uuid.UUID]SectorAssignment{
		sectorID: {Users: []uuid.UUID{uuid.New()}},
	}
	leads := []LeadOwnership{
		{LeadID: uuid.New(), OwnerID: nil, SectorID: &sectorID},
	}

	if plan := PlanSectorReassignment(leads, sectors); len(plan) != 0 {
		t.Fatalf("expected no changes without a primary assignee, got %d", len(plan))
	}
}
