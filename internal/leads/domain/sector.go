package domain

import "github.com/google/uuid"

// SectorAssignment is the set of users working a geographic sector, with an
// optional primary assignee who receives defaulted leads.
type SectorAssignment struct {
	Users   []uuid.UUID
	Primary *uuid.UUID
}

// LeadOwnership is the minimal view of a lead needed for sector reconciliation.
type LeadOwnership struct {
	LeadID   uuid.UUID
	OwnerID  *uuid.UUID
	SectorID *uuid.UUID
}

// Reassignment is a single planned ownership change.
type Reassignment struct {
	LeadID     uuid.UUID
	NewOwnerID uuid.UUID
}

// PlanSectorReassignment computes the ownership changes needed so that every
// lead with a sector is owned by a user assigned to that sector. Leads whose
// owner is already in the sector's user set are left alone, which makes a
// second run over unchanged data plan zero changes.
func PlanSectorReassignment(leads []LeadOwnership, sectors map[uuid.UUID]SectorAssignment) []Reassignment {
	var plan []Reassignment

	for _, lead := range leads {
		if lead.SectorID == nil {
			continue
		}
		sector, ok := sectors[*lead.SectorID]
		if !ok || sector.Primary == nil {
			continue
		}

		if lead.OwnerID != nil && containsUser(sector.Users, *lead.OwnerID) {
			continue
		}
		if lead.OwnerID != nil && *lead.OwnerID == *sector.Primary {
			continue
		}

		plan = append(plan, Reassignment{LeadID: lead.LeadID, NewOwnerID: *sector.Primary})
	}

	return plan
}

func containsUser(users []uuid.UUID, id uuid.UUID) bool {
	for _, u := range users {
		if u == id {
			return true
		}
	}
	return false
}
