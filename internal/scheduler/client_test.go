package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
)

type testSchedulerConfig struct {
	url string
}

func (c testSchedulerConfig) GetRedisURL() string      { return c.url }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "reminders" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 1 }

func TestNewClient_RequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatalf("expected an error without a redis url")
	}
}

func TestScheduleFollowUpReminder_Enqueues(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{url: "redis://" + mr.Addr()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	err = client.ScheduleFollowUpReminder(context.Background(), uuid.New(), uuid.New(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var scheduled bool
	for _, key := range mr.Keys() {
		if strings.Contains(key, "scheduled") {
			scheduled = true
		}
	}
	if !scheduled {
		t.Fatalf("expected a scheduled task key in redis, got %v", mr.Keys())
	}
}

func TestFollowUpReminderPayloadRoundTrip(t *testing.T) {
	payload := FollowUpReminderPayload{
		FollowUpID: uuid.NewString(),
		TenantID:   uuid.NewString(),
	}

	task, err := NewFollowUpReminderTask(payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.Type() != TaskFollowUpReminder {
		t.Fatalf("unexpected task type %s", task.Type())
	}

	parsed, err := ParseFollowUpReminderPayload(task)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != payload {
		t.Fatalf("expected %+v, got %+v", payload, parsed)
	}
}
