package management

import (
	"prospection_backend/internal/leads/repository"
	"prospection_backend/internal/leads/transport"
)

// ToLeadResponse converts a repository lead to its API representation.
func ToLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:             lead.ID,
		CampaignID:     lead.CampaignID,
		CompanyName:    lead.CompanyName,
		ContactName:    lead.ContactName,
		Email:          lead.Email,
		Phone:          lead.Phone,
		AssignedTo:     lead.AssignedTo,
		PipelineStage:  lead.PipelineStage,
		SectorID:       lead.SectorID,
		DealValueCents: lead.DealValueCents,
		Archived:       lead.Archived,
		CreatedAt:      lead.CreatedAt,
		UpdatedAt:      lead.UpdatedAt,
	}
}

// ToLeadListResponse converts a slice of repository leads.
func ToLeadListResponse(leads []repository.Lead) transport.LeadListResponse {
	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, ToLeadResponse(lead))
	}
	return transport.LeadListResponse{Items: items, Total: len(items)}
}
