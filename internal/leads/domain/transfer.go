package domain

import (
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrSameSourceAndTarget rejects transfers where a user would receive
	// their own leads.
	ErrSameSourceAndTarget = errors.New("source and target user are the same")
	// ErrNoLeadsSelected rejects subset transfers with an empty selection.
	ErrNoLeadsSelected = errors.New("no leads selected")
	// ErrNoTargets rejects distributions with an empty target list.
	ErrNoTargets = errors.New("no target users")
	// ErrNothingToMove rejects distributions over an empty lead set.
	ErrNothingToMove = errors.New("no leads to move")
)

// TransferPlan is the resolved lead set for a single-target transfer.
// LeadIDs are the leads that will move; ExcludedIDs are requested leads that
// are not owned by the source and are skipped, not treated as fatal.
type TransferPlan struct {
	LeadIDs     []uuid.UUID
	ExcludedIDs []uuid.UUID
}

// PlanTransfer resolves which leads move given the source's current holdings.
// When transferAll is set the whole owned set moves and requested is ignored.
// Otherwise requested must be non-empty, and only requested leads actually
// owned by the source are included; the rest are reported as excluded.
func PlanTransfer(owned []uuid.UUID, transferAll bool, requested []uuid.UUID) (TransferPlan, error) {
	if transferAll {
		return TransferPlan{LeadIDs: append([]uuid.UUID(nil), owned...)}, nil
	}

	if len(requested) == 0 {
		return TransferPlan{}, ErrNoLeadsSelected
	}

	ownedSet := make(map[uuid.UUID]struct{}, len(owned))
	for _, id := range owned {
		ownedSet[id] = struct{}{}
	}

	plan := TransferPlan{}
	seen := make(map[uuid.UUID]struct{}, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if _, ok := ownedSet[id]; ok {
			plan.LeadIDs = append(plan.LeadIDs, id)
		} else {
			plan.ExcludedIDs = append(plan.ExcludedIDs, id)
		}
	}

	return plan, nil
}
