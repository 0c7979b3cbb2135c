// Package handler contains the HTTP handlers for the campaigns module.
package handler

import (
	"net/http"

	"prospection_backend/internal/campaigns/service"
	"prospection_backend/internal/campaigns/transport"
	"prospection_backend/platform/httpkit"
	"prospection_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the campaigns module.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

// New creates a new campaigns handler.
func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

// Create handles POST /campaigns.
func (h *Handler) Create(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	if !id.CanViewTeam() {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}

	var req transport.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.Create(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// List handles GET /campaigns.
func (h *Handler) List(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}

	resp, err := h.svc.List(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// GetByID handles GET /campaigns/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	campaignID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.GetByID(c.Request.Context(), tenantID, campaignID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// SetStatus handles POST /campaigns/:id/status.
func (h *Handler) SetStatus(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	if !id.CanViewTeam() {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	campaignID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.StatusChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.SetStatus(c.Request.Context(), tenantID, campaignID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Delete handles DELETE /campaigns/:id.
func (h *Handler) Delete(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	if !id.CanViewTeam() {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	campaignID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), tenantID, campaignID)) {
		return
	}
	httpkit.NoContent(c)
}

// AssignUser handles POST /campaigns/:id/users.
func (h *Handler) AssignUser(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	if !id.CanViewTeam() {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	campaignID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.AssignUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if httpkit.HandleError(c, h.svc.AssignUser(c.Request.Context(), tenantID, campaignID, req)) {
		return
	}
	httpkit.NoContent(c)
}

// UnassignUser handles DELETE /campaigns/:id/users/:userId.
func (h *Handler) UnassignUser(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	if !id.CanViewTeam() {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	campaignID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.UnassignUser(c.Request.Context(), tenantID, campaignID, userID)) {
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
