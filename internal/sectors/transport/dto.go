package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateSectorRequest contains data for creating a geographic sector.
type CreateSectorRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// AssignUserRequest adds a user to a sector's working set.
type AssignUserRequest struct {
	UserID    uuid.UUID `json:"userId" validate:"required"`
	IsPrimary bool      `json:"isPrimary"`
}

// AddZoneRequest attaches a postal-code/city entry to a sector.
type AddZoneRequest struct {
	PostalCode string `json:"postalCode" validate:"required_without=City,omitempty,max=10"`
	City       string `json:"city" validate:"required_without=PostalCode,omitempty,max=100"`
}

// SectorUserResponse is a user assignment within a sector.
type SectorUserResponse struct {
	UserID    uuid.UUID `json:"userId"`
	IsPrimary bool      `json:"isPrimary"`
}

// ZoneResponse is a zone entry of a sector.
type ZoneResponse struct {
	ID         uuid.UUID `json:"id"`
	PostalCode string    `json:"postalCode,omitempty"`
	City       string    `json:"city,omitempty"`
}

// SectorResponse represents a sector in API responses.
type SectorResponse struct {
	ID        uuid.UUID            `json:"id"`
	Name      string               `json:"name"`
	Users     []SectorUserResponse `json:"users,omitempty"`
	Zones     []ZoneResponse       `json:"zones,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// SectorListResponse wraps a list of sectors.
type SectorListResponse struct {
	Items []SectorResponse `json:"items"`
	Total int              `json:"total"`
}

// MatchResponse is the result of resolving a location to a sector.
type MatchResponse struct {
	SectorID *uuid.UUID `json:"sectorId,omitempty"`
	Matched  bool       `json:"matched"`
}
