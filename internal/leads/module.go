// Package leads provides the lead registry bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"prospection_backend/internal/events"
	apphttp "prospection_backend/internal/http"
	"prospection_backend/internal/leads/assignment"
	"prospection_backend/internal/leads/handler"
	"prospection_backend/internal/leads/management"
	"prospection_backend/internal/leads/repository"
	"prospection_backend/platform/logger"
	"prospection_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler    *handler.Handler
	management *management.Service
	assignment *assignment.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
// The campaign status reader and sector directory come from the campaigns and
// sectors modules respectively.
func NewModule(pool *pgxpool.Pool, campaigns assignment.CampaignStatusReader, sectors assignment.SectorDirectory, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	// Create shared repository
	repo := repository.New(pool)

	// Create focused services (vertical slices)
	mgmtSvc := management.New(repo, eventBus)
	assignmentSvc := assignment.New(repo, campaigns, sectors, eventBus, log)

	h := handler.New(mgmtSvc, assignmentSvc, val)

	return &Module{
		handler:    h,
		management: mgmtSvc,
		assignment: assignmentSvc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// ManagementService returns the lead management service for external use.
func (m *Module) ManagementService() *management.Service {
	return m.management
}

// AssignmentService returns the assignment service for external use.
func (m *Module) AssignmentService() *assignment.Service {
	return m.assignment
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// All leads routes require authentication
	leadsGroup := ctx.Protected.Group("/leads")
	leadsGroup.POST("", m.handler.Register)
	leadsGroup.GET("", m.handler.List)
	leadsGroup.GET("/:id", m.handler.GetByID)
	leadsGroup.GET("/:id/proposed-owner", m.handler.ProposeOwner)
	leadsGroup.PATCH("/:id/assignee", m.handler.Reassign)
	leadsGroup.POST("/:id/archive", m.handler.Archive)
	leadsGroup.POST("/:id/unarchive", m.handler.Unarchive)
	leadsGroup.POST("/bulk-reassign", m.handler.BulkReassign)
	leadsGroup.POST("/transfers", m.handler.Transfer)
	leadsGroup.POST("/distributions", m.handler.Distribute)

	// Tenant-wide reconciliation is admin-only
	ctx.Admin.POST("/leads/sector-reassignments", m.handler.ReassignAllBySector)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
