// Package repository implements PostgreSQL data access for geographic sectors.
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

const sectorNotFoundMessage = "sector not found"

// Sector is a named region with assigned salespeople.
type Sector struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SectorUser is a user working a sector. At most one user per sector carries
// the primary flag.
type SectorUser struct {
	UserID    uuid.UUID
	IsPrimary bool
}

// Zone is a postal-code/city membership entry of a sector.
type Zone struct {
	ID         uuid.UUID
	SectorID   uuid.UUID
	PostalCode string
	City       string
}

// Repository defines sector data access.
type Repository interface {
	Create(ctx context.Context, tenantID uuid.UUID, name string) (Sector, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (Sector, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]Sector, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error

	AssignUser(ctx context.Context, tenantID, sectorID, userID uuid.UUID, isPrimary bool) error
	UnassignUser(ctx context.Context, tenantID, sectorID, userID uuid.UUID) error
	ListUsers(ctx context.Context, tenantID, sectorID uuid.UUID) ([]SectorUser, error)

	AddZone(ctx context.Context, tenantID, sectorID uuid.UUID, postalCode, city string) (Zone, error)
	RemoveZone(ctx context.Context, tenantID, sectorID, zoneID uuid.UUID) error
	ListZones(ctx context.Context, tenantID, sectorID uuid.UUID) ([]Zone, error)
	MatchSector(ctx context.Context, tenantID uuid.UUID, postalCode, city string) (uuid.UUID, bool, error)

	ListAssignedUsers(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	ListPrimaryAssignees(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]uuid.UUID, error)
}

// Repo implements Repository with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new sector repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts a new sector.
func (r *Repo) Create(ctx context.Context, tenantID uuid.UUID, name string) (Sector, error) {
	var sector Sector
	err := r.pool.QueryRow(ctx,
		`INSERT INTO geographic_sectors (id, tenant_id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, now(), now())
		 RETURNING id, tenant_id, name, created_at, updated_at`,
		uuid.New(), tenantID, name,
	).Scan(&sector.ID, &sector.TenantID, &sector.Name, &sector.CreatedAt, &sector.UpdatedAt)
	if err != nil {
		return Sector{}, fmt.Errorf("create sector: %w", err)
	}
	return sector, nil
}

// GetByID retrieves a sector within a tenant.
func (r *Repo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (Sector, error) {
	var sector Sector
	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, created_at, updated_at
		 FROM geographic_sectors WHERE id = $1 AND tenant_id = $2`,
		id, tenantID,
	).Scan(&sector.ID, &sector.TenantID, &sector.Name, &sector.CreatedAt, &sector.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Sector{}, apperr.NotFound(sectorNotFoundMessage)
		}
		return Sector{}, fmt.Errorf("get sector: %w", err)
	}
	return sector, nil
}

// List retrieves all sectors of a tenant.
func (r *Repo) List(ctx context.Context, tenantID uuid.UUID) ([]Sector, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, created_at, updated_at
		 FROM geographic_sectors WHERE tenant_id = $1 ORDER BY name ASC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sectors: %w", err)
	}
	defer rows.Close()

	var sectors []Sector
	for rows.Next() {
		var sector Sector
		if err := rows.Scan(&sector.ID, &sector.TenantID, &sector.Name, &sector.CreatedAt, &sector.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sector: %w", err)
		}
		sectors = append(sectors, sector)
	}
	return sectors, rows.Err()
}

// Delete removes a sector with its memberships and zones.
func (r *Repo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete sector: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`DELETE FROM geographic_sectors WHERE id = $1 AND tenant_id = $2`, id, tenantID,
	)
	if err != nil {
		return fmt.Errorf("delete sector: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(sectorNotFoundMessage)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM sector_users WHERE sector_id = $1`, id); err != nil {
		return fmt.Errorf("delete sector users: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM sector_zones WHERE sector_id = $1`, id); err != nil {
		return fmt.Errorf("delete sector zones: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete sector: %w", err)
	}
	return nil
}

// AssignUser adds a user to a sector. Setting isPrimary demotes any existing
// primary in the same transaction so a sector never has two primaries.
func (r *Repo) AssignUser(ctx context.Context, tenantID, sectorID, userID uuid.UUID, isPrimary bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin assign sector user: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	err = tx.QueryRow(ctx,
		`SELECT true FROM geographic_sectors WHERE id = $1 AND tenant_id = $2 FOR UPDATE`,
		sectorID, tenantID,
	).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound(sectorNotFoundMessage)
		}
		return fmt.Errorf("lock sector: %w", err)
	}

	if isPrimary {
		if _, err := tx.Exec(ctx,
			`UPDATE sector_users SET is_primary = false WHERE sector_id = $1 AND is_primary = true`,
			sectorID,
		); err != nil {
			return fmt.Errorf("demote sector primary: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO sector_users (sector_id, user_id, is_primary, created_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (sector_id, user_id) DO UPDATE SET is_primary = EXCLUDED.is_primary`,
		sectorID, userID, isPrimary,
	); err != nil {
		return fmt.Errorf("assign sector user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit assign sector user: %w", err)
	}
	return nil
}

// UnassignUser removes a user from a sector.
func (r *Repo) UnassignUser(ctx context.Context, tenantID, sectorID, userID uuid.UUID) error {
	if _, err := r.GetByID(ctx, tenantID, sectorID); err != nil {
		return err
	}

	if _, err := r.pool.Exec(ctx,
		`DELETE FROM sector_users WHERE sector_id = $1 AND user_id = $2`,
		sectorID, userID,
	); err != nil {
		return fmt.Errorf("unassign sector user: %w", err)
	}
	return nil
}

// ListUsers returns the users working a sector.
func (r *Repo) ListUsers(ctx context.Context, tenantID, sectorID uuid.UUID) ([]SectorUser, error) {
	if _, err := r.GetByID(ctx, tenantID, sectorID); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT user_id, is_primary FROM sector_users WHERE sector_id = $1 ORDER BY created_at ASC`,
		sectorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sector users: %w", err)
	}
	defer rows.Close()

	var users []SectorUser
	for rows.Next() {
		var user SectorUser
		if err := rows.Scan(&user.UserID, &user.IsPrimary); err != nil {
			return nil, fmt.Errorf("scan sector user: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// AddZone attaches a postal-code/city entry to a sector.
func (r *Repo) AddZone(ctx context.Context, tenantID, sectorID uuid.UUID, postalCode, city string) (Zone, error) {
	if _, err := r.GetByID(ctx, tenantID, sectorID); err != nil {
		return Zone{}, err
	}

	var zone Zone
	err := r.pool.QueryRow(ctx,
		`INSERT INTO sector_zones (id, sector_id, postal_code, city, created_at)
		 VALUES ($1, $2, $3, $4, now())
		 RETURNING id, sector_id, postal_code, city`,
		uuid.New(), sectorID, postalCode, city,
	).Scan(&zone.ID, &zone.SectorID, &zone.PostalCode, &zone.City)
	if err != nil {
		return Zone{}, fmt.Errorf("add sector zone: %w", err)
	}
	return zone, nil
}

// RemoveZone detaches a zone from a sector.
func (r *Repo) RemoveZone(ctx context.Context, tenantID, sectorID, zoneID uuid.UUID) error {
	if _, err := r.GetByID(ctx, tenantID, sectorID); err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM sector_zones WHERE id = $1 AND sector_id = $2`, zoneID, sectorID,
	)
	if err != nil {
		return fmt.Errorf("remove sector zone: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("zone not found")
	}
	return nil
}

// ListZones returns the zones of a sector.
func (r *Repo) ListZones(ctx context.Context, tenantID, sectorID uuid.UUID) ([]Zone, error) {
	if _, err := r.GetByID(ctx, tenantID, sectorID); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, sector_id, postal_code, city FROM sector_zones
		 WHERE sector_id = $1 ORDER BY postal_code ASC, city ASC`,
		sectorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list sector zones: %w", err)
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		var zone Zone
		if err := rows.Scan(&zone.ID, &zone.SectorID, &zone.PostalCode, &zone.City); err != nil {
			return nil, fmt.Errorf("scan sector zone: %w", err)
		}
		zones = append(zones, zone)
	}
	return zones, rows.Err()
}

// MatchSector finds the sector whose zones contain the postal code or city.
// Postal code matches take precedence over city matches.
func (r *Repo) MatchSector(ctx context.Context, tenantID uuid.UUID, postalCode, city string) (uuid.UUID, bool, error) {
	var sectorID uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT z.sector_id FROM sector_zones z
		 JOIN geographic_sectors s ON s.id = z.sector_id
		 WHERE s.tenant_id = $1 AND (z.postal_code = $2 OR lower(z.city) = lower($3))
		 ORDER BY (z.postal_code = $2) DESC
		 LIMIT 1`,
		tenantID, postalCode, city,
	).Scan(&sectorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("match sector: %w", err)
	}
	return sectorID, true, nil
}

// ListAssignedUsers returns, per sector of the tenant, the users working it.
func (r *Repo) ListAssignedUsers(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT su.sector_id, su.user_id FROM sector_users su
		 JOIN geographic_sectors s ON s.id = su.sector_id
		 WHERE s.tenant_id = $1
		 ORDER BY su.sector_id, su.created_at ASC`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assigned users: %w", err)
	}
	defer rows.Close()

	assigned := make(map[uuid.UUID][]uuid.UUID)
	for rows.Next() {
		var sectorID, userID uuid.UUID
		if err := rows.Scan(&sectorID, &userID); err != nil {
			return nil, fmt.Errorf("scan assigned user: %w", err)
		}
		assigned[sectorID] = append(assigned[sectorID], userID)
	}
	return assigned, rows.Err()
}

// ListPrimaryAssignees returns, per sector of the tenant, the primary
// assignee. Sectors without a primary are absent.
func (r *Repo) ListPrimaryAssignees(ctx context.Context, tenantID uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT su.sector_id, su.user_id FROM sector_users su
		 JOIN geographic_sectors s ON s.id = su.sector_id
		 WHERE s.tenant_id = $1 AND su.is_primary = true`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list primary assignees: %w", err)
	}
	defer rows.Close()

	primaries := make(map[uuid.UUID]uuid.UUID)
	for rows.Next() {
		var sectorID, userID uuid.UUID
		if err := rows.Scan(&sectorID, &userID); err != nil {
			return nil, fmt.Errorf("scan primary assignee: %w", err)
		}
		primaries[sectorID] = userID
	}
	return primaries, rows.Err()
}
