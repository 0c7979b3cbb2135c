package scheduling

import (
	"context"
	"testing"
	"time"

	"prospection_backend/internal/events"
	"prospection_backend/internal/followups/repository"
	"prospection_backend/internal/followups/transport"
	"prospection_backend/platform/apperr"
	"prospection_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	followUps map[uuid.UUID]*repository.FollowUp
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{followUps: make(map[uuid.UUID]*repository.FollowUp)}
}

func (f *fakeRepo) add(tenantID, userID uuid.UUID, scheduledAt time.Time, completed bool) uuid.UUID {
	id := uuid.New()
	f.followUps[id] = &repository.FollowUp{
		ID: id, TenantID: tenantID, LeadID: uuid.New(), UserID: userID,
		ScheduledAt: scheduledAt, Priority: "normal", Completed: completed,
	}
	return id
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateFollowUpParams) (repository.FollowUp, error) {
	followUp := repository.FollowUp{
		ID: uuid.New(), TenantID: params.TenantID, LeadID: params.LeadID,
		UserID: params.UserID, ScheduledAt: params.ScheduledAt.UTC(),
		Priority: params.Priority, Notes: params.Notes,
	}
	f.followUps[followUp.ID] = &followUp
	return followUp, nil
}

func (f *fakeRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (repository.FollowUp, error) {
	followUp, ok := f.followUps[id]
	if !ok || followUp.TenantID != tenantID {
		return repository.FollowUp{}, apperr.NotFound("follow-up not found")
	}
	return *followUp, nil
}

func (f *fakeRepo) ListByUser(_ context.Context, tenantID, userID uuid.UUID) ([]repository.FollowUp, error) {
	var out []repository.FollowUp
	for _, followUp := range f.followUps {
		if followUp.TenantID == tenantID && followUp.UserID == userID {
			out = append(out, *followUp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]repository.FollowUp, error) {
	var out []repository.FollowUp
	for _, followUp := range f.followUps {
		if followUp.TenantID == tenantID {
			out = append(out, *followUp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByLead(context.Context, uuid.UUID, uuid.UUID) ([]repository.FollowUp, error) {
	return nil, nil
}

func (f *fakeRepo) Reschedule(_ context.Context, tenantID, id uuid.UUID, newInstant time.Time) (repository.FollowUp, error) {
	followUp, ok := f.followUps[id]
	if !ok || followUp.TenantID != tenantID {
		return repository.FollowUp{}, apperr.NotFound("follow-up not found")
	}
	if followUp.Completed {
		return repository.FollowUp{}, apperr.AlreadyCompleted("follow-up is already completed")
	}
	followUp.ScheduledAt = newInstant.UTC()
	return *followUp, nil
}

func (f *fakeRepo) Complete(_ context.Context, tenantID, id uuid.UUID, notes *string) (repository.FollowUp, bool, error) {
	followUp, ok := f.followUps[id]
	if !ok || followUp.TenantID != tenantID {
		return repository.FollowUp{}, false, apperr.NotFound("follow-up not found")
	}
	if followUp.Completed {
		return *followUp, false, nil
	}
	now := time.Now()
	followUp.Completed = true
	followUp.CompletedNotes = notes
	followUp.CompletedAt = &now
	return *followUp, true, nil
}

func (f *fakeRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	followUp, ok := f.followUps[id]
	if !ok || followUp.TenantID != tenantID {
		return apperr.NotFound("follow-up not found")
	}
	delete(f.followUps, id)
	return nil
}

func (f *fakeRepo) CompleteAndQualify(context.Context, uuid.UUID, repository.QualifyParams) (repository.QualifyResult, error) {
	return repository.QualifyResult{}, nil
}

type nopBus struct{}

func (nopBus) Publish(context.Context, events.Event)           {}
func (nopBus) PublishSync(context.Context, events.Event) error { return nil }
func (nopBus) Subscribe(string, events.Handler)                {}

type recordingBus struct {
	completed int
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	if _, ok := event.(events.FollowUpCompleted); ok {
		b.completed++
	}
}
func (b *recordingBus) PublishSync(context.Context, events.Event) error { return nil }
func (b *recordingBus) Subscribe(string, events.Handler)                {}

func newTestService(repo *fakeRepo) *Service {
	return New(repo, NoopScheduler{}, time.FixedZone("UTC+1", 3600), nopBus{}, logger.New("development"))
}

func TestComplete_Idempotent(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeRepo()
	id := repo.add(tenantID, uuid.New(), time.Now().Add(-time.Hour), false)
	svc := newTestService(repo)

	notes := "spoke with the contact"
	first, err := svc.Complete(context.Background(), tenantID, id, transport.CompleteFollowUpRequest{Notes: &notes})
	if err != nil {
		t.Fatalf("unexpected error on first completion: %v", err)
	}
	if !first.Completed {
		t.Fatalf("expected the follow-up to be completed")
	}

	second, err := svc.Complete(context.Background(), tenantID, id, transport.CompleteFollowUpRequest{})
	if err != nil {
		t.Fatalf("expected the second completion to be a no-op, got %v", err)
	}
	if !second.Completed {
		t.Fatalf("expected the record to stay completed")
	}
	if second.CompletedNotes == nil || *second.CompletedNotes != notes {
		t.Fatalf("expected the original completion notes to be preserved")
	}
}

func TestComplete_PublishesEventOnce(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeRepo()
	id := repo.add(tenantID, uuid.New(), time.Now().Add(-time.Hour), false)
	bus := &recordingBus{}
	svc := New(repo, NoopScheduler{}, time.FixedZone("UTC+1", 3600), bus, logger.New("development"))

	if _, err := svc.Complete(context.Background(), tenantID, id, transport.CompleteFollowUpRequest{}); err != nil {
		t.Fatalf("unexpected error on first completion: %v", err)
	}
	if _, err := svc.Complete(context.Background(), tenantID, id, transport.CompleteFollowUpRequest{}); err != nil {
		t.Fatalf("unexpected error on second completion: %v", err)
	}

	if bus.completed != 1 {
		t.Fatalf("expected exactly one completion event, got %d", bus.completed)
	}
}

func TestReschedule_CompletedRejected(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeRepo()
	id := repo.add(tenantID, uuid.New(), time.Now(), true)
	svc := newTestService(repo)

	_, err := svc.Reschedule(context.Background(), tenantID, id, transport.RescheduleFollowUpRequest{
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	if !apperr.Is(err, apperr.KindAlreadyCompleted) {
		t.Fatalf("expected already-completed error, got %v", err)
	}
}

func TestClassify_BucketsUserFollowUps(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	repo := newFakeRepo()
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	overdueID := repo.add(tenantID, userID, now.Add(-26*time.Hour), false) // previous local day
	todayID := repo.add(tenantID, userID, now.Add(3*time.Hour), false)
	upcomingID := repo.add(tenantID, userID, now.Add(96*time.Hour), false)
	repo.add(tenantID, userID, now.Add(-26*time.Hour), true) // completed, excluded
	repo.add(tenantID, uuid.New(), now.Add(-time.Hour), false) // other user

	svc := newTestService(repo)
	resp, err := svc.Classify(context.Background(), tenantID, &userID, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Overdue) != 1 || resp.Overdue[0].ID != overdueID {
		t.Fatalf("expected one overdue item, got %+v", resp.Overdue)
	}
	if len(resp.DueToday) != 1 || resp.DueToday[0].ID != todayID {
		t.Fatalf("expected one due-today item, got %+v", resp.DueToday)
	}
	if len(resp.Upcoming) != 1 || resp.Upcoming[0].ID != upcomingID {
		t.Fatalf("expected one upcoming item, got %+v", resp.Upcoming)
	}
}
