// Package repository implements PostgreSQL data access for campaigns.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prospection_backend/internal/campaigns/domain"
	"prospection_backend/platform/apperr"
)

const campaignNotFoundMessage = "campaign not found"

const campaignColumns = `id, tenant_id, name, type, status, previous_status,
	sent_count, total_leads, created_at, updated_at`

// Campaign is a prospecting effort over a pool of leads.
type Campaign struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	Name           string
	Type           string
	Status         string
	PreviousStatus *string
	SentCount      int
	TotalLeads     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateCampaignParams contains data for creating a campaign.
type CreateCampaignParams struct {
	TenantID uuid.UUID
	Name     string
	Type     string
}

// Repository defines campaign data access.
type Repository interface {
	Create(ctx context.Context, params CreateCampaignParams) (Campaign, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (Campaign, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]Campaign, error)
	Transition(ctx context.Context, tenantID, id uuid.UUID, op domain.Operation) (Campaign, string, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	AssignUser(ctx context.Context, tenantID, campaignID, userID uuid.UUID) error
	UnassignUser(ctx context.Context, tenantID, campaignID, userID uuid.UUID) error
	ListAssignedUsers(ctx context.Context, tenantID, campaignID uuid.UUID) ([]uuid.UUID, error)
	GetCampaignStatus(ctx context.Context, tenantID, campaignID uuid.UUID) (string, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new campaign repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts a new campaign in draft state.
func (r *Repo) Create(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	query := `
		INSERT INTO campaigns (id, tenant_id, name, type, status, sent_count, total_leads, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'draft', 0, 0, now(), now())
		RETURNING ` + campaignColumns

	campaign, err := scanCampaignRow(r.pool.QueryRow(ctx, query,
		uuid.New(), params.TenantID, params.Name, params.Type,
	))
	if err != nil {
		return Campaign{}, fmt.Errorf("create campaign: %w", err)
	}
	return campaign, nil
}

// GetByID retrieves a campaign within a tenant.
func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (Campaign, error) {
	campaign, err := scanCampaignRow(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, apperr.NotFound(campaignNotFoundMessage)
		}
		return Campaign{}, fmt.Errorf("get campaign: %w", err)
	}
	return campaign, nil
}

// List retrieves all campaigns of a tenant.
func (r *Repo) List(ctx context.Context, tenantID uuid.UUID) ([]Campaign, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE tenant_id = $1 ORDER BY created_at DESC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []Campaign
	for rows.Next() {
		campaign, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

// Transition applies a lifecycle operation under a row lock so concurrent
// actions on the same campaign serialize. The campaign is not mutated when
// the operation is disallowed from its current state. Returns the updated
// campaign and the status it held before the transition.
func (r *Repo) Transition(ctx context.Context, tenantID, id uuid.UUID, op domain.Operation) (Campaign, string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Campaign{}, "", fmt.Errorf("begin transition: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	var previous *string
	err = tx.QueryRow(ctx,
		`SELECT status, previous_status FROM campaigns
		 WHERE id = $1 AND tenant_id = $2 FOR UPDATE`,
		id, tenantID,
	).Scan(&current, &previous)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Campaign{}, "", apperr.NotFound(campaignNotFoundMessage)
		}
		return Campaign{}, "", fmt.Errorf("lock campaign: %w", err)
	}

	var prior *domain.Status
	if previous != nil {
		p := domain.Status(*previous)
		prior = &p
	}

	next, err := domain.Transition(domain.Status(current), prior, op)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownOperation):
			return Campaign{}, "", apperr.Validation("unknown campaign operation")
		case errors.Is(err, domain.ErrNoPriorStatus):
			return Campaign{}, "", apperr.InvalidTransition("no status recorded before archiving")
		default:
			return Campaign{}, "", apperr.InvalidTransition(
				fmt.Sprintf("cannot %s a %s campaign", op, current))
		}
	}

	// Remember where we came from when archiving; clear it when leaving.
	var newPrevious *string
	if op == domain.OpArchive {
		newPrevious = &current
	}

	campaign, err := scanCampaignRow(tx.QueryRow(ctx,
		`UPDATE campaigns SET status = $1, previous_status = $2, updated_at = now()
		 WHERE id = $3 AND tenant_id = $4
		 RETURNING `+campaignColumns,
		string(next), newPrevious, id, tenantID,
	))
	if err != nil {
		return Campaign{}, "", fmt.Errorf("apply transition: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Campaign{}, "", fmt.Errorf("commit transition: %w", err)
	}
	return campaign, current, nil
}

// Delete removes a campaign. Only draft and stopped campaigns may go.
func (r *Repo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete campaign: %w", err)
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx,
		`SELECT status FROM campaigns WHERE id = $1 AND tenant_id = $2 FOR UPDATE`,
		id, tenantID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(campaignNotFoundMessage)
		}
		return fmt.Errorf("lock campaign: %w", err)
	}

	if !domain.CanDelete(domain.Status(status)) {
		return apperr.InvalidTransition("campaign must be stopped before deletion")
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM campaign_users WHERE campaign_id = $1`, id,
	); err != nil {
		return fmt.Errorf("delete campaign users: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`DELETE FROM campaigns WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	); err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete campaign: %w", err)
	}
	return nil
}

// AssignUser adds a user to the campaign's working set.
func (r *Repo) AssignUser(ctx context.Context, tenantID, campaignID, userID uuid.UUID) error {
	if _, err := r.GetByID(ctx, tenantID, campaignID); err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx,
		`INSERT INTO campaign_users (campaign_id, user_id, created_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (campaign_id, user_id) DO NOTHING`,
		campaignID, userID,
	); err != nil {
		return fmt.Errorf("assign campaign user: %w", err)
	}
	return nil
}

// UnassignUser removes a user from the campaign's working set.
func (r *Repo) UnassignUser(ctx context.Context, tenantID, campaignID, userID uuid.UUID) error {
	if _, err := r.GetByID(ctx, tenantID, campaignID); err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx,
		`DELETE FROM campaign_users WHERE campaign_id = $1 AND user_id = $2`,
		campaignID, userID,
	); err != nil {
		return fmt.Errorf("unassign campaign user: %w", err)
	}
	return nil
}

// ListAssignedUsers returns the users working the campaign.
func (r *Repo) ListAssignedUsers(ctx context.Context, tenantID, campaignID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := r.GetByID(ctx, tenantID, campaignID); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM campaign_users WHERE campaign_id = $1 ORDER BY created_at ASC`,
		campaignID,
	)
	if err != nil {
		return nil, fmt.Errorf("list campaign users: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan campaign user: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetCampaignStatus returns only the campaign's current status.
func (r *Repo) GetCampaignStatus(ctx context.Context, tenantID, campaignID uuid.UUID) (string, error) {
	var status string
	err := r.pool.QueryRow(ctx,
		`SELECT status FROM campaigns WHERE id = $1 AND tenant_id = $2`,
		campaignID, tenantID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperr.NotFound(campaignNotFoundMessage)
		}
		return "", fmt.Errorf("get campaign status: %w", err)
	}
	return status, nil
}

func scanCampaignRow(row pgx.Row) (Campaign, error) {
	var c Campaign
	err := row.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Type, &c.Status, &c.PreviousStatus,
		&c.SentCount, &c.TotalLeads, &c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func scanCampaign(rows pgx.Rows) (Campaign, error) {
	var c Campaign
	err := rows.Scan(
		&c.ID, &c.TenantID, &c.Name, &c.Type, &c.Status, &c.PreviousStatus,
		&c.SentCount, &c.TotalLeads, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return Campaign{}, fmt.Errorf("scan campaign: %w", err)
	}
	return c, nil
}
