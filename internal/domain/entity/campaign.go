package entity

import (
	"time"

	"github.com/google/uuid"
)

// Campaign is a marketing campaign owned by a business entity. Campaign links
// must reference an existing campaign.
type Campaign struct {
	ID        uuid.UUID
	EntityID  uuid.UUID
	Name      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Intake is an enrollment window/offering that enquiries are submitted
// against. The intake resolves the owning entity scope for a lead.
type Intake struct {
	ID         uuid.UUID
	EntityID   uuid.UUID
	CampaignID *uuid.UUID
	Name       string
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
