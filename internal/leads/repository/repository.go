package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prospection_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `id, tenant_id, campaign_id, company_name, contact_name, email, phone,
	assigned_to, pipeline_stage, sector_id, deal_value_cents, archived, created_at, updated_at`

// Repo implements the Repository interface with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new lead registry repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// GetByID retrieves a lead by its ID within a tenant.
func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1 AND tenant_id = $2`

	lead, err := scanLeadRow(r.pool.QueryRow(ctx, query, id, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("get lead by id: %w", err)
	}
	return lead, nil
}

// ListByOwner retrieves all non-archived leads owned by a user.
func (r *Repo) ListByOwner(ctx context.Context, tenantID, ownerID uuid.UUID) ([]Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE tenant_id = $1 AND assigned_to = $2 AND archived = false
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, tenantID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list leads by owner: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// ListByCampaign retrieves all non-archived leads belonging to a campaign.
func (r *Repo) ListByCampaign(ctx context.Context, tenantID, campaignID uuid.UUID) ([]Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE tenant_id = $1 AND campaign_id = $2 AND archived = false
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, tenantID, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list leads by campaign: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// ListOwnedIDsInCampaign retrieves the ids of the leads a user owns within a
// campaign, in creation order so batch planning is reproducible.
func (r *Repo) ListOwnedIDsInCampaign(ctx context.Context, tenantID, campaignID, ownerID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM leads
		WHERE tenant_id = $1 AND campaign_id = $2 AND assigned_to = $3 AND archived = false
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, tenantID, campaignID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list owned lead ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan lead id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListUnassigned retrieves non-archived leads without an owner.
func (r *Repo) ListUnassigned(ctx context.Context, tenantID uuid.UUID) ([]Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE tenant_id = $1 AND assigned_to IS NULL AND archived = false
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list unassigned leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// ListWithSector retrieves non-archived leads that carry a sector reference,
// in creation order so reconciliation batches are reproducible.
func (r *Repo) ListWithSector(ctx context.Context, tenantID uuid.UUID) ([]Lead, error) {
	query := `SELECT ` + leadColumns + `
		FROM leads
		WHERE tenant_id = $1 AND sector_id IS NOT NULL AND archived = false
		ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list leads with sector: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// Create registers a new lead.
func (r *Repo) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	query := `
		INSERT INTO leads (id, tenant_id, campaign_id, company_name, contact_name, email, phone,
			assigned_to, pipeline_stage, sector_id, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'cold_call', $9, false, now(), now())
		RETURNING ` + leadColumns

	lead, err := scanLeadRow(r.pool.QueryRow(ctx, query,
		uuid.New(), params.TenantID, params.CampaignID, params.CompanyName, params.ContactName,
		params.Email, params.Phone, params.AssignedTo, params.SectorID,
	))
	if err != nil {
		return Lead{}, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

// Reassign changes a single lead's owner. The lead row is locked for the
// duration of the transaction so concurrent transfers serialize per lead.
func (r *Repo) Reassign(ctx context.Context, tenantID, leadID, newOwnerID uuid.UUID) (Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Lead{}, fmt.Errorf("begin reassign: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := verifyTenantOwner(ctx, tx, tenantID, newOwnerID); err != nil {
		return Lead{}, err
	}

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT true FROM leads WHERE id = $1 AND tenant_id = $2 AND archived = false FOR UPDATE`,
		leadID, tenantID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("lock lead: %w", err)
	}

	lead, err := scanLeadRow(tx.QueryRow(ctx,
		`UPDATE leads SET assigned_to = $1, updated_at = now()
		 WHERE id = $2 AND tenant_id = $3
		 RETURNING `+leadColumns,
		newOwnerID, leadID, tenantID,
	))
	if err != nil {
		return Lead{}, fmt.Errorf("reassign lead: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, fmt.Errorf("commit reassign: %w", err)
	}
	return lead, nil
}

// BulkReassign moves a set of leads to a new owner atomically: when any
// listed lead is missing from the tenant, nothing is reassigned.
func (r *Repo) BulkReassign(ctx context.Context, tenantID uuid.UUID, leadIDs []uuid.UUID, newOwnerID uuid.UUID) (int, error) {
	if len(leadIDs) == 0 {
		return 0, apperr.Validation("no leads provided")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin bulk reassign: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := verifyTenantOwner(ctx, tx, tenantID, newOwnerID); err != nil {
		return 0, err
	}

	locked, err := lockLeadRows(ctx, tx, tenantID, leadIDs)
	if err != nil {
		return 0, err
	}
	for _, id := range leadIDs {
		if _, ok := locked[id]; !ok {
			return 0, apperr.NotFound(leadNotFoundMessage).WithDetails(id.String())
		}
	}

	tag, err := tx.Exec(ctx,
		`UPDATE leads SET assigned_to = $1, updated_at = now()
		 WHERE tenant_id = $2 AND id = ANY($3)`,
		newOwnerID, tenantID, leadIDs,
	)
	if err != nil {
		return 0, fmt.Errorf("bulk reassign leads: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit bulk reassign: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ReassignBatch applies a planned set of ownership changes as one unit of
// work. Every affected row is locked up front, and each change is applied
// only when the stored owner still matches the owner the planner observed;
// otherwise the whole batch rolls back with a conflict.
func (r *Repo) ReassignBatch(ctx context.Context, tenantID uuid.UUID, changes []OwnerChange) (int, error) {
	if len(changes) == 0 {
		return 0, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin reassign batch: %w", err)
	}
	defer tx.Rollback(ctx)

	owners := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(changes))
	for _, change := range changes {
		ids = append(ids, change.LeadID)
		owners[change.NewOwner] = struct{}{}
	}
	for owner := range owners {
		if err := verifyTenantOwner(ctx, tx, tenantID, owner); err != nil {
			return 0, err
		}
	}

	locked, err := lockLeadRows(ctx, tx, tenantID, ids)
	if err != nil {
		return 0, err
	}

	for _, change := range changes {
		current, ok := locked[change.LeadID]
		if !ok {
			return 0, apperr.NotFound(leadNotFoundMessage).WithDetails(change.LeadID.String())
		}
		if !ownerEqual(current, change.ExpectedOwner) {
			return 0, apperr.Conflict("lead ownership changed concurrently")
		}
	}

	for _, change := range changes {
		if _, err := tx.Exec(ctx,
			`UPDATE leads SET assigned_to = $1, updated_at = now()
			 WHERE id = $2 AND tenant_id = $3`,
			change.NewOwner, change.LeadID, tenantID,
		); err != nil {
			return 0, fmt.Errorf("apply owner change: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit reassign batch: %w", err)
	}
	return len(changes), nil
}

// SetArchived flips the soft lifecycle flag on a lead.
func (r *Repo) SetArchived(ctx context.Context, tenantID, leadID uuid.UUID, archived bool) (Lead, error) {
	lead, err := scanLeadRow(r.pool.QueryRow(ctx,
		`UPDATE leads SET archived = $1, updated_at = now()
		 WHERE id = $2 AND tenant_id = $3
		 RETURNING `+leadColumns,
		archived, leadID, tenantID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return Lead{}, fmt.Errorf("set lead archived: %w", err)
	}
	return lead, nil
}

// lockLeadRows locks the given non-archived lead rows and returns their
// current owners keyed by lead id.
func lockLeadRows(ctx context.Context, tx pgx.Tx, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*uuid.UUID, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, assigned_to FROM leads
		 WHERE tenant_id = $1 AND id = ANY($2) AND archived = false
		 ORDER BY id ASC
		 FOR UPDATE`,
		tenantID, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("lock lead rows: %w", err)
	}
	defer rows.Close()

	locked := make(map[uuid.UUID]*uuid.UUID, len(ids))
	for rows.Next() {
		var id uuid.UUID
		var owner *uuid.UUID
		if err := rows.Scan(&id, &owner); err != nil {
			return nil, fmt.Errorf("scan locked lead: %w", err)
		}
		locked[id] = owner
	}
	return locked, rows.Err()
}

func ownerEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func scanLeadRow(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.TenantID, &lead.CampaignID, &lead.CompanyName, &lead.ContactName,
		&lead.Email, &lead.Phone, &lead.AssignedTo, &lead.PipelineStage, &lead.SectorID,
		&lead.DealValueCents, &lead.Archived, &lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

func scanLeads(rows pgx.Rows) ([]Lead, error) {
	var leads []Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID, &lead.TenantID, &lead.CampaignID, &lead.CompanyName, &lead.ContactName,
			&lead.Email, &lead.Phone, &lead.AssignedTo, &lead.PipelineStage, &lead.SectorID,
			&lead.DealValueCents, &lead.Archived, &lead.CreatedAt, &lead.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
