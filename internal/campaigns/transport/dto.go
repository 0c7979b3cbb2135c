package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateCampaignRequest contains data for creating a campaign.
type CreateCampaignRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	Type string `json:"type" validate:"required,oneof=email phoning sms whatsapp"`
}

// StatusChangeRequest asks for a lifecycle operation on a campaign.
type StatusChangeRequest struct {
	Operation string `json:"operation" validate:"required,oneof=start pause resume stop archive unarchive"`
}

// AssignUserRequest adds a user to the campaign's working set.
type AssignUserRequest struct {
	UserID uuid.UUID `json:"userId" validate:"required"`
}

// CampaignResponse represents a campaign in API responses.
type CampaignResponse struct {
	ID            uuid.UUID   `json:"id"`
	Name          string      `json:"name"`
	Type          string      `json:"type"`
	Status        string      `json:"status"`
	SentCount     int         `json:"sentCount"`
	TotalLeads    int         `json:"totalLeads"`
	AssignedUsers []uuid.UUID `json:"assignedUsers,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// CampaignListResponse wraps a list of campaigns.
type CampaignListResponse struct {
	Items []CampaignResponse `json:"items"`
	Total int                `json:"total"`
}
