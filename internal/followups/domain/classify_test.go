package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var utcPlusOne = time.FixedZone("UTC+1", 3600)

func item(scheduled time.Time) Item {
	return Item{ID: uuid.New(), ScheduledAt: scheduled}
}

func TestClassify_MidnightBoundary(t *testing.T) {
	// Scheduled 2024-03-10 23:30 in UTC+1.
	scheduled := time.Date(2024, 3, 10, 23, 30, 0, 0, utcPlusOne)
	followUp := item(scheduled)

	// Evaluated fifteen minutes earlier on the same local day: due today.
	now := time.Date(2024, 3, 10, 23, 45, 0, 0, utcPlusOne)
	result := Classify([]Item{followUp}, now, utcPlusOne)
	if len(result.DueToday) != 1 || result.DueToday[0] != followUp.ID {
		t.Fatalf("expected due today before the scheduled instant, got %+v", result)
	}

	// Evaluated shortly after local midnight: the instant has passed.
	now = time.Date(2024, 3, 11, 0, 5, 0, 0, utcPlusOne)
	result = Classify([]Item{followUp}, now, utcPlusOne)
	if len(result.Overdue) != 1 || result.Overdue[0] != followUp.ID {
		t.Fatalf("expected overdue after the scheduled instant, got %+v", result)
	}
}

func TestClassify_SameLocalDayAcrossUTCDates(t *testing.T) {
	// 2024-03-10 23:30 UTC is 00:30 on the 11th in UTC+1. Evaluated on the
	// morning of the 11th locally, the instant has passed but the local day
	// matches; bucketing must follow the reference zone's calendar, not
	// UTC's, so this is due today rather than overdue.
	scheduled := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC) // 00:30 on the 11th in UTC+1
	now := time.Date(2024, 3, 11, 9, 0, 0, 0, utcPlusOne)       // morning of the 11th locally

	result := Classify([]Item{item(scheduled)}, now, utcPlusOne)
	if len(result.DueToday) != 1 {
		t.Fatalf("expected a passed instant on the same local day to be due today, got %+v", result)
	}

	future := time.Date(2024, 3, 11, 20, 30, 0, 0, time.UTC) // 21:30 on the 11th in UTC+1
	result = Classify([]Item{item(future)}, now, utcPlusOne)
	if len(result.DueToday) != 1 {
		t.Fatalf("expected a later instant on the same local day to be due today, got %+v", result)
	}
}

func TestClassify_PassedInstantSameDayIsDueToday(t *testing.T) {
	scheduled := time.Date(2024, 3, 10, 9, 0, 0, 0, utcPlusOne)
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, utcPlusOne)

	result := Classify([]Item{item(scheduled)}, now, utcPlusOne)
	if len(result.DueToday) != 1 {
		t.Fatalf("expected a missed instant earlier today to be due today, got %+v", result)
	}
	if len(result.Overdue) != 0 {
		t.Fatalf("expected no overdue items, got %+v", result)
	}
}

func TestClassify_Upcoming(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, utcPlusOne)
	scheduled := time.Date(2024, 3, 12, 9, 0, 0, 0, utcPlusOne)

	result := Classify([]Item{item(scheduled)}, now, utcPlusOne)
	if len(result.Upcoming) != 1 {
		t.Fatalf("expected upcoming, got %+v", result)
	}
}

func TestClassify_CompletedExcluded(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, utcPlusOne)
	completed := Item{ID: uuid.New(), ScheduledAt: now.Add(-time.Hour), Completed: true}

	result := Classify([]Item{completed}, now, utcPlusOne)
	if len(result.Overdue)+len(result.DueToday)+len(result.Upcoming) != 0 {
		t.Fatalf("expected completed items in no bucket, got %+v", result)
	}
}

func TestClassify_EachItemInOneBucket(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, utcPlusOne)
	items := []Item{
		item(now.Add(-24 * time.Hour)),
		item(now.Add(-time.Minute)),
		item(now.Add(2 * time.Hour)),
		item(now.Add(72 * time.Hour)),
	}

	result := Classify(items, now, utcPlusOne)
	total := len(result.Overdue) + len(result.DueToday) + len(result.Upcoming)
	if total != len(items) {
		t.Fatalf("expected %d bucketed items, got %d", len(items), total)
	}

	seen := make(map[uuid.UUID]int)
	for _, id := range result.Overdue {
		seen[id]++
	}
	for _, id := range result.DueToday {
		seen[id]++
	}
	for _, id := range result.Upcoming {
		seen[id]++
	}
	for id, count := range seen {
		if count != 1 {
			t.Fatalf("item %s counted %d times", id, count)
		}
	}
}

func TestEffectForOutcome(t *testing.T) {
	tests := []struct {
		outcome      string
		stage        string
		requiresNext bool
		wantErr      bool
	}{
		{OutcomeQualified, "qualified", false, false},
		{OutcomeHighlyQualified, "highly_qualified", false, false},
		{OutcomeProposalSent, "proposal_sent", false, false},
		{OutcomeWon, "won", false, false},
		{OutcomeNeedsFollowUp, StageUnchanged, true, false},
		{OutcomeNotInterested, "out_of_scope", false, false},
		{OutcomeOutOfScope, "out_of_scope", false, false},
		{"maybe_later", "", false, true},
	}

	for _, tt := range tests {
		effect, err := EffectForOutcome(tt.outcome)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for outcome %q", tt.outcome)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.outcome, err)
		}
		if effect.Stage != tt.stage || effect.RequiresNext != tt.requiresNext {
			t.Fatalf("outcome %q: got %+v", tt.outcome, effect)
		}
	}
}
