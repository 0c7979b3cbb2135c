// Package sectors provides the geographic sector bounded context module.
package sectors

import (
	apphttp "prospection_backend/internal/http"
	"prospection_backend/internal/sectors/handler"
	"prospection_backend/internal/sectors/repository"
	"prospection_backend/internal/sectors/service"
	"prospection_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the sectors bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the sectors module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "sectors"
}

// Service returns the sector service for external use. The leads module
// consumes it as its sector directory.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts sector routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/sectors")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.List)
	group.GET("/match", m.handler.Match)
	group.GET("/:id", m.handler.GetByID)
	group.DELETE("/:id", m.handler.Delete)
	group.POST("/:id/users", m.handler.AssignUser)
	group.DELETE("/:id/users/:userId", m.handler.UnassignUser)
	group.POST("/:id/zones", m.handler.AddZone)
	group.DELETE("/:id/zones/:zoneId", m.handler.RemoveZone)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
