package domain

import "github.com/google/uuid"

// Distribution maps each target user to the leads they receive.
// TargetOrder preserves the caller-supplied target order, which is the
// tie-break rule for remainder leads: the first (total mod N) targets
// receive one extra lead each.
type Distribution struct {
	Assignments map[uuid.UUID][]uuid.UUID
	TargetOrder []uuid.UUID
}

// Counts returns the per-target lead counts.
func (d Distribution) Counts() map[uuid.UUID]int {
	counts := make(map[uuid.UUID]int, len(d.Assignments))
	for target, ids := range d.Assignments {
		counts[target] = len(ids)
	}
	return counts
}

// PlanDistribution splits leadIDs across targetIDs as evenly as possible.
// Every target receives either base or base+1 leads, where
// base = len(leadIDs) / N over the N distinct targets. The same inputs always
// produce the same assignment: leads are consumed in the given order and
// extra leads go to the first targets in the given order. A target id listed
// more than once counts as one target; a duplicate must not overwrite an
// earlier share and leak its leads.
func PlanDistribution(leadIDs, targetIDs []uuid.UUID) (Distribution, error) {
	targets := uniqueIDs(targetIDs)
	if len(targets) == 0 {
		return Distribution{}, ErrNoTargets
	}
	if len(leadIDs) == 0 {
		return Distribution{}, ErrNothingToMove
	}

	base := len(leadIDs) / len(targets)
	remainder := len(leadIDs) % len(targets)

	dist := Distribution{
		Assignments: make(map[uuid.UUID][]uuid.UUID, len(targets)),
		TargetOrder: targets,
	}

	next := 0
	for i, target := range targets {
		share := base
		if i < remainder {
			share++
		}
		dist.Assignments[target] = append([]uuid.UUID(nil), leadIDs[next:next+share]...)
		next += share
	}

	return dist, nil
}

// uniqueIDs drops duplicate ids, keeping first-occurrence order.
func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
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
