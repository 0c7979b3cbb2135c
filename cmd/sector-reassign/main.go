package main

import (
	"context"
	"flag"

	campaignrepo "prospection_backend/internal/campaigns/repository"
	campaignservice "prospection_backend/internal/campaigns/service"
	"prospection_backend/internal/events"
	"prospection_backend/internal/leads/assignment"
	leadrepo "prospection_backend/internal/leads/repository"
	sectorrepo "prospection_backend/internal/sectors/repository"
	sectorservice "prospection_backend/internal/sectors/service"
	"prospection_backend/platform/config"
	"prospection_backend/platform/db"
	"prospection_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Realigns lead ownership with the primary assignee of each geographic
// sector, tenant by tenant. Run after reshaping sectors or their teams.
func main() {
	tenantFlag := flag.String("tenant", "", "tenant ID to reconcile (all tenants when empty)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting sector reassignment")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)

	campaignSvc := campaignservice.New(campaignrepo.New(pool), eventBus)
	sectorSvc := sectorservice.New(sectorrepo.New(pool))
	assignmentSvc := assignment.New(leadrepo.New(pool), campaignSvc, sectorSvc, eventBus, log)

	tenantIDs, err := resolveTenants(ctx, pool, *tenantFlag)
	if err != nil {
		log.Error("failed to resolve tenants", "error", err)
		panic("failed to resolve tenants: " + err.Error())
	}

	total := 0
	for _, tenantID := range tenantIDs {
		result, err := assignmentSvc.ReassignAllBySector(ctx, tenantID)
		if err != nil {
			log.Error("sector reassignment failed", "tenantId", tenantID, "error", err)
			continue
		}
		log.Info("tenant reconciled", "tenantId", tenantID, "reassigned", result.Count)
		total += result.Count
	}

	log.Info("sector reassignment finished", "tenants", len(tenantIDs), "reassigned", total)
}

func resolveTenants(ctx context.Context, pool *pgxpool.Pool, tenantFlag string) ([]uuid.UUID, error) {
	if tenantFlag != "" {
		id, err := uuid.Parse(tenantFlag)
		if err != nil {
			return nil, err
		}
		return []uuid.UUID{id}, nil
	}

	rows, err := pool.Query(ctx, `SELECT id FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
