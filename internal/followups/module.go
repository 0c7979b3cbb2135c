// Package followups provides the follow-up scheduler bounded context module.
package followups

import (
	"time"

	"prospection_backend/internal/events"
	"prospection_backend/internal/followups/handler"
	"prospection_backend/internal/followups/qualification"
	"prospection_backend/internal/followups/repository"
	"prospection_backend/internal/followups/scheduling"
	apphttp "prospection_backend/internal/http"
	"prospection_backend/platform/logger"
	"prospection_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the follow-ups bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	scheduling    *scheduling.Service
	qualification *qualification.Service
	repo          *repository.Repo
}

// NewModule creates and initializes the follow-ups module. reminders enqueues
// delayed reminder tasks and reference is the bucketing time zone.
func NewModule(pool *pgxpool.Pool, reminders scheduling.ReminderScheduler, reference *time.Location, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)

	schedulingSvc := scheduling.New(repo, reminders, reference, eventBus, log)
	qualificationSvc := qualification.New(repo, reminders, eventBus)

	h := handler.New(schedulingSvc, qualificationSvc, val)

	return &Module{
		handler:       h,
		scheduling:    schedulingSvc,
		qualification: qualificationSvc,
		repo:          repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "followups"
}

// SchedulingService returns the scheduling service for external use.
func (m *Module) SchedulingService() *scheduling.Service {
	return m.scheduling
}

// Repository returns the follow-up repository. The scheduler worker loads
// follow-ups through it when reminder tasks fire.
func (m *Module) Repository() *repository.Repo {
	return m.repo
}

// RegisterRoutes mounts follow-up routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/followups")
	group.POST("", m.handler.Create)
	group.GET("", m.handler.ListByLead)
	group.GET("/classified", m.handler.Classify)
	group.GET("/:id", m.handler.GetByID)
	group.PATCH("/:id/schedule", m.handler.Reschedule)
	group.POST("/:id/complete", m.handler.Complete)
	group.POST("/:id/qualify", m.handler.Qualify)
	group.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
