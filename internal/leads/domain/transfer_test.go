package domain

import (
	"testing"

	"github.com/google/uuid"
)

func TestPlanTransfer_All(t *testing.T) {
	owned := makeIDs(4)

	plan, err := PlanTransfer(owned, true, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.LeadIDs) != 4 {
		t.Fatalf("expected 4 leads, got %d", len(plan.LeadIDs))
	}
	if len(plan.ExcludedIDs) != 0 {
		t.Fatalf("expected no exclusions, got %d", len(plan.ExcludedIDs))
	}
}

func TestPlanTransfer_SubsetRestrictedToOwned(t *testing.T) {
	owned := makeIDs(3)
	foreign := uuid.New()
	requested := []uuid.UUID{owned[0], foreign, owned[2]}

	plan, err := PlanTransfer(owned, false, requested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(plan.LeadIDs) != 2 {
		t.Fatalf("expected 2 transferable leads, got %d", len(plan.LeadIDs))
	}
	if plan.LeadIDs[0] != owned[0] || plan.LeadIDs[1] != owned[2] {
		t.Fatalf("transferable leads not in requested order")
	}
	if len(plan.ExcludedIDs) != 1 || plan.ExcludedIDs[0] != foreign {
		t.Fatalf("expected the foreign lead to be excluded")
	}
}

func TestPlanTransfer_EmptySubsetRejected(t *testing.T) {
	if _, err := PlanTransfer(makeIDs(2), false, nil); err != ErrNoLeadsSelected {
		t.Fatalf("expected ErrNoLeadsSelected, got %v", err)
	}
}

func TestPlanTransfer_DuplicateRequestIgnored(t *testing.T) {
	owned := makeIDs(2)
	requested := []uuid.UUID{owned[0], owned[0], owned[1]}

	plan, err := PlanTransfer(owned, false, requested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.LeadIDs) != 2 {
		t.Fatalf("expected duplicates collapsed to 2 leads, got %d", len(plan.LeadIDs))
	}
}
