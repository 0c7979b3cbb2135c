// Package handler contains the HTTP handlers for the leads module.
package handler

import (
	"net/http"

	"prospection_backend/internal/leads/assignment"
	"prospection_backend/internal/leads/management"
	"prospection_backend/internal/leads/transport"
	"prospection_backend/platform/httpkit"
	"prospection_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the leads module.
type Handler struct {
	management *management.Service
	assignment *assignment.Service
	validate   *validator.Validator
}

// New creates a new leads handler.
func New(managementSvc *management.Service, assignmentSvc *assignment.Service, validate *validator.Validator) *Handler {
	return &Handler{
		management: managementSvc,
		assignment: assignmentSvc,
		validate:   validate,
	}
}

// Register handles POST /leads.
func (h *Handler) Register(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}

	var req transport.RegisterLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.management.Register(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, resp)
}

// GetByID handles GET /leads/:id.
func (h *Handler) GetByID(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	leadID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.management.GetByID(c.Request.Context(), tenantID, leadID)
	if httpkit.HandleError(c, err) {
		return
	}

	if !id.CanViewTeam() && (resp.AssignedTo == nil || *resp.AssignedTo != id.UserID()) {
		httpkit.Error(c, http.StatusForbidden, "forbidden", nil)
		return
	}
	httpkit.OK(c, resp)
}

// List handles GET /leads. Commercials see their own leads; managers and
// admins can filter by owner, campaign, or the unassigned pool.
func (h *Handler) List(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if !id.CanViewTeam() {
		resp, err := h.management.ListByOwner(ctx, tenantID, id.UserID())
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, resp)
		return
	}

	switch {
	case c.Query("unassigned") == "true":
		resp, err := h.management.ListUnassigned(ctx, tenantID)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, resp)
	case c.Query("campaignId") != "":
		campaignID, err := uuid.Parse(c.Query("campaignId"))
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid campaignId", nil)
			return
		}
		resp, err := h.management.ListByCampaign(ctx, tenantID, campaignID)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, resp)
	default:
		ownerID := id.UserID()
		if raw := c.Query("ownerId"); raw != "" {
			parsed, err := uuid.Parse(raw)
			if err != nil {
				httpkit.Error(c, http.StatusBadRequest, "invalid ownerId", nil)
				return
			}
			ownerID = parsed
		}
		resp, err := h.management.ListByOwner(ctx, tenantID, ownerID)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, resp)
	}
}

// Reassign handles PATCH /leads/:id/assignee.
func (h *Handler) Reassign(c *gin.Context) {
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
	leadID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req transport.ReassignLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.management.Reassign(c.Request.Context(), tenantID, leadID, req, id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// BulkReassign handles POST /leads/bulk-reassign.
func (h *Handler) BulkReassign(c *gin.Context) {
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

	var req transport.BulkReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.management.BulkReassign(c.Request.Context(), tenantID, req, id.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Transfer handles POST /leads/transfers.
func (h *Handler) Transfer(c *gin.Context) {
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

	var req transport.TransferLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.assignment.TransferLeads(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Distribute handles POST /leads/distributions.
func (h *Handler) Distribute(c *gin.Context) {
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

	var req transport.DistributeLeadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	resp, err := h.assignment.DistributeLeads(c.Request.Context(), tenantID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ProposeOwner handles GET /leads/:id/proposed-owner.
func (h *Handler) ProposeOwner(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	leadID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := h.assignment.ProposeOwner(c.Request.Context(), tenantID, leadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// ReassignAllBySector handles POST /admin/leads/sector-reassignments.
func (h *Handler) ReassignAllBySector(c *gin.Context) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}

	resp, err := h.assignment.ReassignAllBySector(c.Request.Context(), tenantID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

// Archive handles POST /leads/:id/archive.
func (h *Handler) Archive(c *gin.Context) {
	h.setArchived(c, true)
}

// Unarchive handles POST /leads/:id/unarchive.
func (h *Handler) Unarchive(c *gin.Context) {
	h.setArchived(c, false)
}

func (h *Handler) setArchived(c *gin.Context, archived bool) {
	id := httpkit.MustGetIdentity(c)
	if id == nil {
		return
	}
	tenantID, ok := httpkit.MustGetTenantID(c, id)
	if !ok {
		return
	}
	leadID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var (
		resp transport.LeadResponse
		err  error
	)
	if archived {
		resp, err = h.management.Archive(c.Request.Context(), tenantID, leadID)
	} else {
		resp, err = h.management.Unarchive(c.Request.Context(), tenantID, leadID)
	}
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return parsed, true
}
