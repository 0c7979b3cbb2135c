// Package domain holds follow-up scheduling rules: due-date bucketing and
// qualification outcome mapping. Pure logic, no storage or transport concerns.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bucket is the due-status of an incomplete follow-up relative to "now".
type Bucket string

const (
	BucketOverdue  Bucket = "overdue"
	BucketDueToday Bucket = "due_today"
	BucketUpcoming Bucket = "upcoming"
)

// Item is the minimal view of a follow-up needed for classification.
type Item struct {
	ID          uuid.UUID
	ScheduledAt time.Time
	Completed   bool
}

// Classification buckets a set of follow-ups. An item appears in exactly one
// bucket; completed items appear in none.
type Classification struct {
	Overdue  []uuid.UUID
	DueToday []uuid.UUID
	Upcoming []uuid.UUID
}

// Classify buckets follow-ups against now. Calendar days are compared after
// projecting both instants into the reference zone: an item on the same local
// day as now is due today, a passed instant wins a day-bucketing only on an
// earlier local day. Projecting into the reference zone first keeps items
// near midnight from landing in the wrong bucket when UTC dates disagree
// with local ones.
func Classify(items []Item, now time.Time, reference *time.Location) Classification {
	var result Classification

	localNow := now.In(reference)
	for _, item := range items {
		if item.Completed {
			continue
		}

		localScheduled := item.ScheduledAt.In(reference)
		if sameDay(localScheduled, localNow) {
			result.DueToday = append(result.DueToday, item.ID)
			continue
		}

		if item.ScheduledAt.Before(now) {
			result.Overdue = append(result.Overdue, item.ID)
			continue
		}

		result.Upcoming = append(result.Upcoming, item.ID)
	}

	return result
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
