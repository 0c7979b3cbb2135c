// Package repository implements PostgreSQL data access for follow-ups.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prospection_backend/platform/apperr"
)

const followUpNotFoundMessage = "follow-up not found"

const followUpColumns = `id, tenant_id, lead_id, user_id, scheduled_at, priority, notes,
	completed, completed_notes, completed_at, created_at, updated_at`

// FollowUp is a scheduled reminder tied to a lead and an owning user.
// ScheduledAt is an absolute instant stored in UTC.
type FollowUp struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	LeadID         uuid.UUID
	UserID         uuid.UUID
	ScheduledAt    time.Time
	Priority       string
	Notes          *string
	Completed      bool
	CompletedNotes *string
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateFollowUpParams contains data for creating a follow-up.
type CreateFollowUpParams struct {
	TenantID    uuid.UUID
	LeadID      uuid.UUID
	UserID      uuid.UUID
	ScheduledAt time.Time
	Priority    string
	Notes       *string
}

// QualifyParams describes the combined completion-and-qualification write.
// NextScheduledAt, when set, creates the next follow-up in the same unit of
// work as the completion and the lead stage update.
type QualifyParams struct {
	FollowUpID      uuid.UUID
	Stage           string // empty leaves the pipeline stage alone
	DealValueCents  *int64
	CompletedNotes  *string
	NextScheduledAt *time.Time
	NextPriority    string
	NextNotes       *string
}

// QualifyResult reports what the qualification write produced.
type QualifyResult struct {
	FollowUp LeadStateFollowUp
	Next     *FollowUp
}

// LeadStateFollowUp pairs the completed follow-up with the lead's state
// after qualification.
type LeadStateFollowUp struct {
	FollowUp      FollowUp
	LeadID        uuid.UUID
	PipelineStage string
}

// Repository defines follow-up data access.
type Repository interface {
	Create(ctx context.Context, params CreateFollowUpParams) (FollowUp, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (FollowUp, error)
	ListByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]FollowUp, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]FollowUp, error)
	ListByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]FollowUp, error)
	Reschedule(ctx context.Context, tenantID, id uuid.UUID, newInstant time.Time) (FollowUp, error)
	Complete(ctx context.Context, tenantID, id uuid.UUID, notes *string) (FollowUp, bool, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	CompleteAndQualify(ctx context.Context, tenantID uuid.UUID, params QualifyParams) (QualifyResult, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new follow-up repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts a follow-up after verifying the lead and user belong to the
// tenant.
func (r *Repo) Create(ctx context.Context, params CreateFollowUpParams) (FollowUp, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return FollowUp{}, fmt.Errorf("begin create follow-up: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := verifyLeadInTenant(ctx, tx, params.TenantID, params.LeadID); err != nil {
		return FollowUp{}, err
	}
	if err := verifyUserInTenant(ctx, tx, params.TenantID, params.UserID); err != nil {
		return FollowUp{}, err
	}

	followUp, err := scanFollowUpRow(tx.QueryRow(ctx,
		`INSERT INTO follow_ups (id, tenant_id, lead_id, user_id, scheduled_at, priority, notes,
			completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, false, now(), now())
		 RETURNING `+followUpColumns,
		uuid.New(), params.TenantID, params.LeadID, params.UserID,
		params.ScheduledAt.UTC(), params.Priority, params.Notes,
	))
	if err != nil {
		return FollowUp{}, fmt.Errorf("create follow-up: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return FollowUp{}, fmt.Errorf("commit create follow-up: %w", err)
	}
	return followUp, nil
}

// GetByID retrieves a follow-up within a tenant.
func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (FollowUp, error) {
	followUp, err := scanFollowUpRow(r.pool.QueryRow(ctx,
		`SELECT `+followUpColumns+` FROM follow_ups WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return FollowUp{}, apperr.NotFound(followUpNotFoundMessage)
		}
		return FollowUp{}, fmt.Errorf("get follow-up: %w", err)
	}
	return followUp, nil
}

// ListByUser retrieves the follow-ups assigned to a user.
func (r *Repo) ListByUser(ctx context.Context, tenantID, userID uuid.UUID) ([]FollowUp, error) {
	return r.list(ctx,
		`SELECT `+followUpColumns+` FROM follow_ups
		 WHERE tenant_id = $1 AND user_id = $2 ORDER BY scheduled_at ASC`,
		tenantID, userID,
	)
}

// ListByTenant retrieves all follow-ups of a tenant.
func (r *Repo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]FollowUp, error) {
	return r.list(ctx,
		`SELECT `+followUpColumns+` FROM follow_ups
		 WHERE tenant_id = $1 ORDER BY scheduled_at ASC`,
		tenantID,
	)
}

// ListByLead retrieves the follow-ups tied to a lead.
func (r *Repo) ListByLead(ctx context.Context, tenantID, leadID uuid.UUID) ([]FollowUp, error) {
	return r.list(ctx,
		`SELECT `+followUpColumns+` FROM follow_ups
		 WHERE tenant_id = $1 AND lead_id = $2 ORDER BY scheduled_at ASC`,
		tenantID, leadID,
	)
}

// Reschedule moves an incomplete follow-up to a new instant. Completed
// follow-ups cannot move.
func (r *Repo) Reschedule(ctx context.Context, tenantID, id uuid.UUID, newInstant time.Time) (FollowUp, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return FollowUp{}, fmt.Errorf("begin reschedule: %w", err)
	}
	defer tx.Rollback(ctx)

	completed, err := lockFollowUp(ctx, tx, tenantID, id)
	if err != nil {
		return FollowUp{}, err
	}
	if completed {
		return FollowUp{}, apperr.AlreadyCompleted("follow-up is already completed")
	}

	followUp, err := scanFollowUpRow(tx.QueryRow(ctx,
		`UPDATE follow_ups SET scheduled_at = $1, updated_at = now()
		 WHERE id = $2 AND tenant_id = $3
		 RETURNING `+followUpColumns,
		newInstant.UTC(), id, tenantID,
	))
	if err != nil {
		return FollowUp{}, fmt.Errorf("reschedule follow-up: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return FollowUp{}, fmt.Errorf("commit reschedule: %w", err)
	}
	return followUp, nil
}

// Complete marks a follow-up done. Completing an already-completed follow-up
// returns the existing record unchanged. The boolean reports whether this
// call performed the completion; with the row locked during the check it is
// true for exactly one of any set of concurrent callers.
func (r *Repo) Complete(ctx context.Context, tenantID, id uuid.UUID, notes *string) (FollowUp, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return FollowUp{}, false, fmt.Errorf("begin complete: %w", err)
	}
	defer tx.Rollback(ctx)

	completed, err := lockFollowUp(ctx, tx, tenantID, id)
	if err != nil {
		return FollowUp{}, false, err
	}
	if completed {
		existing, err := scanFollowUpRow(tx.QueryRow(ctx,
			`SELECT `+followUpColumns+` FROM follow_ups WHERE id = $1 AND tenant_id = $2`,
			id, tenantID,
		))
		if err != nil {
			return FollowUp{}, false, fmt.Errorf("load completed follow-up: %w", err)
		}
		return existing, false, tx.Commit(ctx)
	}

	followUp, err := completeLocked(ctx, tx, tenantID, id, notes)
	if err != nil {
		return FollowUp{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return FollowUp{}, false, fmt.Errorf("commit complete: %w", err)
	}
	return followUp, true, nil
}

// Delete removes a follow-up.
func (r *Repo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM follow_ups WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	)
	if err != nil {
		return fmt.Errorf("delete follow-up: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(followUpNotFoundMessage)
	}
	return nil
}

// CompleteAndQualify completes a follow-up, updates the lead's pipeline
// stage, and optionally creates the next follow-up, all in one transaction.
// A failure at any step leaves the original follow-up untouched.
func (r *Repo) CompleteAndQualify(ctx context.Context, tenantID uuid.UUID, params QualifyParams) (QualifyResult, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return QualifyResult{}, fmt.Errorf("begin qualify: %w", err)
	}
	defer tx.Rollback(ctx)

	completed, err := lockFollowUp(ctx, tx, tenantID, params.FollowUpID)
	if err != nil {
		return QualifyResult{}, err
	}
	if completed {
		return QualifyResult{}, apperr.AlreadyCompleted("follow-up is already completed")
	}

	followUp, err := completeLocked(ctx, tx, tenantID, params.FollowUpID, params.CompletedNotes)
	if err != nil {
		return QualifyResult{}, err
	}

	var stage string
	if params.Stage != "" {
		err = tx.QueryRow(ctx,
			`UPDATE leads SET pipeline_stage = $1,
				deal_value_cents = COALESCE($2, deal_value_cents),
				updated_at = now()
			 WHERE id = $3 AND tenant_id = $4
			 RETURNING pipeline_stage`,
			params.Stage, params.DealValueCents, followUp.LeadID, tenantID,
		).Scan(&stage)
	} else {
		err = tx.QueryRow(ctx,
			`UPDATE leads SET deal_value_cents = COALESCE($1, deal_value_cents),
				updated_at = now()
			 WHERE id = $2 AND tenant_id = $3
			 RETURNING pipeline_stage`,
			params.DealValueCents, followUp.LeadID, tenantID,
		).Scan(&stage)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return QualifyResult{}, apperr.NotFound("lead not found")
		}
		return QualifyResult{}, fmt.Errorf("update lead stage: %w", err)
	}

	result := QualifyResult{
		FollowUp: LeadStateFollowUp{
			FollowUp:      followUp,
			LeadID:        followUp.LeadID,
			PipelineStage: stage,
		},
	}

	if params.NextScheduledAt != nil {
		next, err := scanFollowUpRow(tx.QueryRow(ctx,
			`INSERT INTO follow_ups (id, tenant_id, lead_id, user_id, scheduled_at, priority, notes,
				completed, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, false, now(), now())
			 RETURNING `+followUpColumns,
			uuid.New(), tenantID, followUp.LeadID, followUp.UserID,
			params.NextScheduledAt.UTC(), params.NextPriority, params.NextNotes,
		))
		if err != nil {
			return QualifyResult{}, fmt.Errorf("create next follow-up: %w", err)
		}
		result.Next = &next
	}

	if err := tx.Commit(ctx); err != nil {
		return QualifyResult{}, fmt.Errorf("commit qualify: %w", err)
	}
	return result, nil
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]FollowUp, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list follow-ups: %w", err)
	}
	defer rows.Close()

	var followUps []FollowUp
	for rows.Next() {
		var f FollowUp
		if err := rows.Scan(
			&f.ID, &f.TenantID, &f.LeadID, &f.UserID, &f.ScheduledAt, &f.Priority, &f.Notes,
			&f.Completed, &f.CompletedNotes, &f.CompletedAt, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan follow-up: %w", err)
		}
		followUps = append(followUps, f)
	}
	return followUps, rows.Err()
}

// lockFollowUp locks the follow-up row and returns its completed flag.
func lockFollowUp(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID) (bool, error) {
	var completed bool
	err := tx.QueryRow(ctx,
		`SELECT completed FROM follow_ups WHERE id = $1 AND tenant_id = $2 FOR UPDATE`,
		id, tenantID,
	).Scan(&completed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperr.NotFound(followUpNotFoundMessage)
		}
		return false, fmt.Errorf("lock follow-up: %w", err)
	}
	return completed, nil
}

func completeLocked(ctx context.Context, tx pgx.Tx, tenantID, id uuid.UUID, notes *string) (FollowUp, error) {
	followUp, err := scanFollowUpRow(tx.QueryRow(ctx,
		`UPDATE follow_ups SET completed = true, completed_notes = $1, completed_at = now(), updated_at = now()
		 WHERE id = $2 AND tenant_id = $3
		 RETURNING `+followUpColumns,
		notes, id, tenantID,
	))
	if err != nil {
		return FollowUp{}, fmt.Errorf("complete follow-up: %w", err)
	}
	return followUp, nil
}

func verifyLeadInTenant(ctx context.Context, tx pgx.Tx, tenantID, leadID uuid.UUID) error {
	var exists bool
	err := tx.QueryRow(ctx,
		`SELECT true FROM leads WHERE id = $1 AND tenant_id = $2`, leadID, tenantID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("lead not found")
		}
		return fmt.Errorf("verify lead: %w", err)
	}
	return nil
}

func verifyUserInTenant(ctx context.Context, tx pgx.Tx, tenantID, userID uuid.UUID) error {
	var sameTenant bool
	err := tx.QueryRow(ctx,
		`SELECT tenant_id = $2 FROM users WHERE id = $1`, userID, tenantID,
	).Scan(&sameTenant)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("user not found")
		}
		return fmt.Errorf("verify user: %w", err)
	}
	if !sameTenant {
		return apperr.CrossTenant("user belongs to another tenant")
	}
	return nil
}

func scanFollowUpRow(row pgx.Row) (FollowUp, error) {
	var f FollowUp
	err := row.Scan(
		&f.ID, &f.TenantID, &f.LeadID, &f.UserID, &f.ScheduledAt, &f.Priority, &f.Notes,
		&f.Completed, &f.CompletedNotes, &f.CompletedAt, &f.CreatedAt, &f.UpdatedAt,
	)
	return f, err
}
