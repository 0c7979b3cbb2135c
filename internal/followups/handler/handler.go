// Package handler contains the HTTP handlers for the follow-ups module.
package handler

import (
	"net/http"
	"time"

	"prospection_backend/internal/followups/qualification"
	"prospection_backend/internal/followups/scheduling"
	"prospection_backend/internal/followups/transport"
	"prospection_backend/platform/httpkit"
	"prospection_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the follow-ups module.
type Handler struct {
	scheduling    *scheduling.Service
	qualification *qualification.Service
	validate      *validator.Validator
}

// New creates a new follow-ups handler.
func New(schedulingSvc *scheduling.Service, qualificationSvc *qualification.Service, validate *validator.Validator) *Handler {
	return &Handler{
		scheduling:    schedulingSvc,
		qualification: qualificationSvc,
		validate:      validate,
	}
}

// Create handles POST /followups.
func (h *Handler) Create(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}

	var req transport.CreateFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	// Assigning someone else's reminder is a team action.
	if req.UserID != nil && *req.UserID != id.UserID() && !id.CanViewTeam() {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}

	resp, err := h.scheduling.Create(c.Request.Context(), tenantID, req, id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// GetByID handles GET /followups/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	followUpID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.scheduling.GetByID(c.Request.Context(), tenantID, followUpID)
	if httpkit.HandleError(c, err) {
		return
	}
	if resp.UserID != id.UserID() && !id.CanViewTeam() {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	httpkit.OK(c, resp)
}

// ListByLead handles GET /followups?leadId=.
func (h *Handler) ListByLead(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}

	leadID, err := uuid.Parse(c.Query("leadId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid leadId", nil)
		return
	}

	resp, err := h.scheduling.ListByLead(c.Request.Context(), tenantID, leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Classify handles GET /followups/classified. A user sees their own buckets;
// managers can pass ?userId= or ?all=true.
func (h *Handler) Classify(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}

	userID := id.UserID()
	target := &userID
	if id.CanViewTeam() {
		if raw := c.Query("userId"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				httpkit.Error(c, http.StatusBadRequest, "invalid userId", nil)
				return
			}
			target = &parsed
		} else if c.Query("all") == "true" {
			target = nil
		}
	}

	resp, err := h.scheduling.Classify(c.Request.Context(), tenantID, target, time.Now())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Reschedule handles PATCH /followups/:id/schedule.
func (h *Handler) Reschedule(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	followUpID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.RescheduleFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.scheduling.Reschedule(c.Request.Context(), tenantID, followUpID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Complete handles POST /followups/:id/complete.
func (h *Handler) Complete(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	followUpID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.CompleteFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.scheduling.Complete(c.Request.Context(), tenantID, followUpID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Qualify handles POST /followups/:id/qualify.
func (h *Handler) Qualify(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	followUpID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.QualifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.qualification.QualifyFromFollowUp(c.Request.Context(), tenantID, followUpID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Delete handles DELETE /followups/:id.
func (h *Handler) Delete(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	followUpID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.scheduling.Delete(c.Request.Context(), tenantID, followUpID)) {
		return
	}
	httpkit.NoContent(c)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return parsed, true
}
