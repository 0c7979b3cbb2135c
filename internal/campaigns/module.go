// Package campaigns provides the campaign lifecycle bounded context module.
package campaigns

import (
	"prospection_backend/internal/campaigns/handler"
	"prospection_backend/internal/campaigns/repository"
	"prospection_backend/internal/campaigns/service"
	"prospection_backend/internal/events"
	apphttp "prospection_backend/internal/http"
	"prospection_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the campaigns bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the campaigns module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "campaigns"
}

// Service returns the campaign service for external use. The leads module
// consumes its GetCampaignStatus method through a reader interface.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts campaign routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/campaigns")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/:id", m.handler.GetByID)
	group.POST("/:id/status", m.handler.SetStatus)
	group.DELETE("/:id", m.handler.Delete)
	group.POST("/:id/users", m.handler.AssignUser)
	group.DELETE("/:id/users/:userId", m.handler.UnassignUser)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
