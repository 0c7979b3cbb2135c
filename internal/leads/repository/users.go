package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"prospection_backend/platform/apperr"
)

const userColumns = `id, tenant_id, email, full_name, role, active`

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetUser retrieves a user by id without tenant scoping. Callers that hold a
// tenant scope should prefer GetTenantUser.
func (r *Repo) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	return getUser(ctx, r.pool, id)
}

// GetTenantUser retrieves a user and verifies it belongs to the tenant.
// A user that exists in another tenant surfaces as a cross-tenant error.
func (r *Repo) GetTenantUser(ctx context.Context, tenantID, id uuid.UUID) (User, error) {
	user, err := getUser(ctx, r.pool, id)
	if err != nil {
		return User{}, err
	}
	if user.TenantID != tenantID {
		return User{}, apperr.CrossTenant("user belongs to another tenant")
	}
	return user, nil
}

func getUser(ctx context.Context, q queryRower, id uuid.UUID) (User, error) {
	var user User
	err := q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	).Scan(&user.ID, &user.TenantID, &user.Email, &user.FullName, &user.Role, &user.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, apperr.NotFound("user not found")
		}
		return User{}, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// verifyTenantOwner checks that the prospective owner exists, is active, and
// belongs to the tenant. Used inside reassignment transactions.
func verifyTenantOwner(ctx context.Context, q queryRower, tenantID, ownerID uuid.UUID) error {
	user, err := getUser(ctx, q, ownerID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.NotFound("owner not found")
		}
		return err
	}
	if user.TenantID != tenantID {
		return apperr.CrossTenant("owner belongs to another tenant")
	}
	if !user.Active {
		return apperr.Validation("owner is inactive")
	}
	return nil
}
