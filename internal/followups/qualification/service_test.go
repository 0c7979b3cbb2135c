package qualification

import (
	"context"
	"testing"
	"time"

	"prospection_backend/internal/events"
	"prospection_backend/internal/followups/repository"
	"prospection_backend/internal/followups/transport"
	"prospection_backend/platform/apperr"

	"github.com/google/uuid"
)

type fakeRepo struct {
	followUps map[uuid.UUID]*repository.FollowUp
	stages    map[uuid.UUID]string
	failNext  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		followUps: make(map[uuid.UUID]*repository.FollowUp),
		stages:    make(map[uuid.UUID]string),
	}
}

func (f *fakeRepo) addFollowUp(tenantID uuid.UUID, completed bool) (uuid.UUID, uuid.UUID) {
	id := uuid.New()
	leadID := uuid.New()
	f.followUps[id] = &repository.FollowUp{
		ID: id, TenantID: tenantID, LeadID: leadID, UserID: uuid.New(),
		ScheduledAt: time.Now().Add(time.Hour), Priority: "normal", Completed: completed,
	}
	f.stages[leadID] = "cold_call"
	return id, leadID
}

func (f *fakeRepo) Create(context.Context, repository.CreateFollowUpParams) (repository.FollowUp, error) {
	return repository.FollowUp{}, nil
}

func (f *fakeRepo) GetByID(_ context.Context, tenantID, id uuid.UUID) (repository.FollowUp, error) {
	followUp, ok := f.followUps[id]
	if !ok || followUp.TenantID != tenantID {
		return repository.FollowUp{}, apperr.NotFound("follow-up not found")
	}
	return *followUp, nil
}

func (f *fakeRepo) ListByUser(context.Context, uuid.UUID, uuid.UUID) ([]repository.FollowUp, error) {
	return nil, nil
}

func (f *fakeRepo) ListByTenant(context.Context, uuid.UUID) ([]repository.FollowUp, error) {
	return nil, nil
}

func (f *fakeRepo) ListByLead(context.Context, uuid.UUID, uuid.UUID) ([]repository.FollowUp, error) {
	return nil, nil
}

func (f *fakeRepo) Reschedule(context.Context, uuid.UUID, uuid.UUID, time.Time) (repository.FollowUp, error) {
	return repository.FollowUp{}, nil
}

func (f *fakeRepo) Complete(context.Context, uuid.UUID, uuid.UUID, *string) (repository.FollowUp, bool, error) {
	return repository.FollowUp{}, false, nil
}

func (f *fakeRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (f *fakeRepo) CompleteAndQualify(_ context.Context, tenantID uuid.UUID, params repository.QualifyParams) (repository.QualifyResult, error) {
	followUp, ok := f.followUps[params.FollowUpID]
	if !ok || followUp.TenantID != tenantID {
		return repository.QualifyResult{}, apperr.NotFound("follow-up not found")
	}
	if followUp.Completed {
		return repository.QualifyResult{}, apperr.AlreadyCompleted("follow-up is already completed")
	}
	if f.failNext && params.NextScheduledAt != nil {
		// All-or-nothing: nothing else may change on this path.
		return repository.QualifyResult{}, apperr.Internal("storage failure")
	}

	followUp.Completed = true
	followUp.CompletedNotes = params.CompletedNotes
	if params.Stage != "" {
		f.stages[followUp.LeadID] = params.Stage
	}

	result := repository.QualifyResult{
		FollowUp: repository.LeadStateFollowUp{
			FollowUp:      *followUp,
			LeadID:        followUp.LeadID,
			PipelineStage: f.stages[followUp.LeadID],
		},
	}
	if params.NextScheduledAt != nil {
		next := repository.FollowUp{
			ID: uuid.New(), TenantID: tenantID, LeadID: followUp.LeadID,
			UserID: followUp.UserID, ScheduledAt: *params.NextScheduledAt,
			Priority: params.NextPriority, Notes: params.NextNotes,
		}
		f.followUps[next.ID] = &next
		result.Next = &next
	}
	return result, nil
}

type nopScheduler struct{}

func (nopScheduler) ScheduleFollowUpReminder(context.Context, uuid.UUID, uuid.UUID, time.Time) error {
	return nil
}

type nopBus struct{}

func (nopBus) Publish(context.Context, events.Event)           {}
func (nopBus) PublishSync(context.Context, events.Event) error { return nil }
func (nopBus) Subscribe(string, events.Handler)                {}

func TestQualifyFromFollowUp_UpdatesStage(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeRepo()
	followUpID, leadID := repo.addFollowUp(tenantID, false)
	svc := New(repo, nopScheduler{}, nopBus{})

	resp, err := svc.QualifyFromFollowUp(context.Background(), tenantID, followUpID, transport.QualifyRequest{
		Outcome: "qualified",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.PipelineStage != "qualified" {
		t.Fatalf("expected stage qualified, got %s", resp.PipelineStage)
	}
	if repo.stages[leadID] != "qualified" {
		t.Fatalf("expected the lead stage to be persisted")
	}
	if !resp.FollowUp.Completed {
		t.Fatalf("expected the follow-up to be completed")
	}
	if resp.NextFollowUp != nil {
		t.Fatalf("expected no next follow-up for a plain qualification")
	}
}

func TestQualifyFromFollowUp_NeedsFollowUpCreatesNext(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeRepo()
	followUpID, leadID := repo.addFollowUp(tenantID, false)
	svc := New(repo, nopScheduler{}, nopBus{})

	next := time.Now().Add(48 * time.Hour)
	resp, err := svc.QualifyFromFollowUp(context.Background(), tenantID, followUpID, transport.QualifyRequest{
		Outcome:         "needs_follow_up",
		NextScheduledAt: &next,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.NextFollowUp == nil {
		t.Fatalf("expected a next follow-up")
	}
	if resp.PipelineStage != "cold_call" {
		t.Fatalf("expected the stage to stay unchanged, got %s", resp.PipelineStage)
	}
	if repo.stages[leadID] != "cold_call" {
		t.Fatalf("expected the persisted stage to stay unchanged")
	}
}

func TestQualifyFromFollowUp_NeedsFollowUpWithoutDate(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeRepo()
	followUpID, _ := repo.addFollowUp(tenantID, false)
	svc := New(repo, nopScheduler{}, nopBus{})

	_, err := svc.QualifyFromFollowUp(context.Background(), tenantID, followUpID, transport.QualifyRequest{
		Outcome: "needs_follow_up",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQualifyFromFollowUp_AlreadyCompleted(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeRepo()
	followUpID, _ := repo.addFollowUp(tenantID, true)
	svc := New(repo, nopScheduler{}, nopBus{})

	_, err := svc.QualifyFromFollowUp(context.Background(), tenantID, followUpID, transport.QualifyRequest{
		Outcome: "qualified",
	})
	if !apperr.Is(err, apperr.KindAlreadyCompleted) {
		t.Fatalf("expected already-completed error, got %v", err)
	}
}

func TestQualifyFromFollowUp_UnknownOutcome(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeRepo()
	followUpID, _ := repo.addFollowUp(tenantID, false)
	svc := New(repo, nopScheduler{}, nopBus{})

	_, err := svc.QualifyFromFollowUp(context.Background(), tenantID, followUpID, transport.QualifyRequest{
		Outcome: "maybe",
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQualifyFromFollowUp_DealValueRejectedOutsideWonProposal(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeRepo()
	followUpID, _ := repo.addFollowUp(tenantID, false)
	svc := New(repo, nopScheduler{}, nopBus{})

	value := int64(150000)
	_, err := svc.QualifyFromFollowUp(context.Background(), tenantID, followUpID, transport.QualifyRequest{
		Outcome:        "qualified",
		DealValueCents: &value,
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQualifyFromFollowUp_NextFailureLeavesFollowUpUntouched(t *testing.T) {
	tenantID := uuid.New()
	repo := newFakeRepo()
	repo.failNext = true
	followUpID, leadID := repo.addFollowUp(tenantID, false)
	svc := New(repo, nopScheduler{}, nopBus{})

	next := time.Now().Add(48 * time.Hour)
	_, err := svc.QualifyFromFollowUp(context.Background(), tenantID, followUpID, transport.QualifyRequest{
		Outcome:         "needs_follow_up",
		NextScheduledAt: &next,
	})
	if err == nil {
		t.Fatalf("expected an error from the failing storage")
	}
	if repo.followUps[followUpID].Completed {
		t.Fatalf("expected the follow-up to stay incomplete after a failed qualification")
	}
	if repo.stages[leadID] != "cold_call" {
		t.Fatalf("expected the lead stage to stay unchanged after a failed qualification")
	}
}
