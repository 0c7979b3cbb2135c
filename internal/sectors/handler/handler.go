// Package handler contains the HTTP handlers for the sectors module.
package handler

import (
	"net/http"

	"prospection_backend/internal/sectors/service"
	"prospection_backend/internal/sectors/transport"
	"prospection_backend/platform/httpkit"
	"prospection_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the sectors module.
type Handler struct {
	svc      *service.Service
	validate *validator.Validator
}

// New creates a new sectors handler.
func New(svc *service.Service, validate *validator.Validator) *Handler {
	return &Handler{svc: svc, validate: validate}
}

// Create handles POST /sectors.
func (h *Handler) Create(c *gin.Context) {
	tenantID, ok := requireManager(c)
	if !ok {
		return
	}

	var req transport.CreateSectorRequest
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

// List handles GET /sectors.
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

// GetByID handles GET /sectors/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	sectorID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.svc.GetByID(c.Request.Context(), tenantID, sectorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Delete handles DELETE /sectors/:id.
func (h *Handler) Delete(c *gin.Context) {
	tenantID, ok := requireManager(c)
	if !ok {
		return
	}
	sectorID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), tenantID, sectorID)) {
		return
	}
	httpkit.NoContent(c)
}

// AssignUser handles POST /sectors/:id/users.
func (h *Handler) AssignUser(c *gin.Context) {
	tenantID, ok := requireManager(c)
	if !ok {
		return
	}
	sectorID, ok := parseUUIDParam(c, "id")
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

	if httpkit.HandleError(c, h.svc.AssignUser(c.Request.Context(), tenantID, sectorID, req)) {
		return
	}
	httpkit.NoContent(c)
}

// UnassignUser handles DELETE /sectors/:id/users/:userId.
func (h *Handler) UnassignUser(c *gin.Context) {
	tenantID, ok := requireManager(c)
	if !ok {
		return
	}
	sectorID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.UnassignUser(c.Request.Context(), tenantID, sectorID, userID)) {
		return
	}
	httpkit.NoContent(c)
}

// AddZone handles POST /sectors/:id/zones.
func (h *Handler) AddZone(c *gin.Context) {
	tenantID, ok := requireManager(c)
	if !ok {
		return
	}
	sectorID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.AddZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.svc.AddZone(c.Request.Context(), tenantID, sectorID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// RemoveZone handles DELETE /sectors/:id/zones/:zoneId.
func (h *Handler) RemoveZone(c *gin.Context) {
	tenantID, ok := requireManager(c)
	if !ok {
		return
	}
	sectorID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	zoneID, ok := parseUUIDParam(c, "zoneId")
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.svc.RemoveZone(c.Request.Context(), tenantID, sectorID, zoneID)) {
		return
	}
	httpkit.NoContent(c)
}

// Match handles GET /sectors/match?postalCode=&city=.
func (h *Handler) Match(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}

	postalCode := c.Query("postalCode")
	city := c.Query("city")
	if postalCode == "" && city == "" {
		httpkit.Error(c, http.StatusBadRequest, "postalCode or city required", nil)
		return
	}

	resp, err := h.svc.Match(c.Request.Context(), tenantID, postalCode, city)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// requireManager extracts the tenant scope and rejects non-managers.
func requireManager(c *gin.Context) (uuid.UUID, bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return uuid.Nil, false
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return uuid.Nil, false
	}
	if !id.CanViewTeam() {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return uuid.Nil, false
	}
	return tenantID, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return parsed, true
}
