package domain

import (
	"testing"

	"github.com/google/uuid"
)

func makeIDs(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = uuid.New()
	}
	return ids
}

func TestPlanDistribution_Evenness(t *testing.T) {
	cases := []struct {
		name    string
		total   int
		targets int
	}{
		{"exact split", 10, 5},
		{"with remainder", 52, 5},
		{"fewer leads than targets", 3, 7},
		{"single target", 9, 1},
		{"one lead", 1, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			leads := makeIDs(tc.total)
			targets := makeIDs(tc.targets)

			dist, err := PlanDistribution(leads, targets)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			base := tc.total / tc.targets
			remainder := tc.total % tc.targets

			sum := 0
			for i, target := range targets {
				got := len(dist.Assignments[target])
				want := base
				if i < remainder {
					want = base + 1
				}
				if got != want {
					t.Fatalf("target %d: expected %d leads, got %d", i, want, got)
				}
				sum += got
			}
			if sum != tc.total {
				t.Fatalf("expected %d leads assigned in total, got %d", tc.total, sum)
			}
		})
	}
}

func TestPlanDistribution_FiftyTwoAcrossFive(t *testing.T) {
	leads := makeIDs(52)
	targets := makeIDs(5)

	dist, err := PlanDistribution(leads, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// base=10 remainder=2: the first two targets get 11, the rest 10.
	wantCounts := []int{11, 11, 10, 10, 10}
	for i, target := range targets {
		if got := len(dist.Assignments[target]); got != wantCounts[i] {
			t.Fatalf("target %d: expected %d, got %d", i, wantCounts[i], got)
		}
	}
}

func TestPlanDistribution_EveryLeadAssignedExactlyOnce(t *testing.T) {
	leads := makeIDs(17)
	targets := makeIDs(4)

	dist, err := PlanDistribution(leads, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	seen := make(map[uuid.UUID]int)
	for _, assigned := range dist.Assignments {
		for _, id := range assigned {
			seen[id]++
		}
	}
	for _, id := range leads {
		if seen[id] != 1 {
			t.Fatalf("lead %s assigned %d times", id, seen[id])
		}
	}
}

func TestPlanDistribution_Deterministic(t *testing.T) {
	leads := makeIDs(23)
	targets := makeIDs(3)

	first, err := PlanDistribution(leads, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := PlanDistribution(leads, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, target := range targets {
		a := first.Assignments[target]
		b := second.Assignments[target]
		if len(a) != len(b) {
			t.Fatalf("target %s: counts differ across runs (%d vs %d)", target, len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("target %s: lead identity differs at index %d", target, i)
			}
		}
	}
}

func TestPlanDistribution_DuplicateTargets(t *testing.T) {
	leads := makeIDs(6)
	a, b := uuid.New(), uuid.New()

	dist, err := PlanDistribution(leads, []uuid.UUID{a, b, a})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(dist.TargetOrder) != 2 || dist.TargetOrder[0] != a || dist.TargetOrder[1] != b {
		t.Fatalf("expected duplicate target collapsed to [a b], got %v", dist.TargetOrder)
	}

	sum := 0
	for _, assigned := range dist.Assignments {
		sum += len(assigned)
	}
	if sum != len(leads) {
		t.Fatalf("expected all %d leads assigned, got %d", len(leads), sum)
	}
	if len(dist.Assignments[a]) != 3 || len(dist.Assignments[b]) != 3 {
		t.Fatalf("expected a 3/3 split over the distinct targets, got %d/%d",
			len(dist.Assignments[a]), len(dist.Assignments[b]))
	}
}

func TestPlanDistribution_InvalidInputs(t *testing.T) {
	if _, err := PlanDistribution(makeIDs(5), nil); err != ErrNoTargets {
		t.Fatalf("expected ErrNoTargets, got %v", err)
	}
	if _, err := PlanDistribution(nil, makeIDs(2)); err != ErrNothingToMove {
		t.Fatalf("expected ErrNothingToMove, got %v", err)
	}
}

func TestPlanDistribution_CountsSum(t *testing.T) {
	leads := makeIDs(7)
	targets := makeIDs(2)

	dist, err := PlanDistribution(leads, targets)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	counts := dist.Counts()
	if counts[targets[0]] != 4 || counts[targets[1]] != 3 {
		t.Fatalf("expected counts 4/3, got %d/%d", counts[targets[0]], counts[targets[1]])
	}
}
