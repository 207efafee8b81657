package model

import (
	"time"

	"github.com/google/uuid"
)

// LeadModel mirrors the 'leads' table. Attribution, click summary and
// documents are stored as JSONB blobs; they are read and written whole with
// the lead, never queried field-by-field.
type LeadModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	EntityID uuid.UUID `gorm:"type:uuid;not null;index"`
	PersonID uuid.UUID `gorm:"type:uuid;not null;index"`
	IntakeID uuid.UUID `gorm:"type:uuid;not null;index"`

	Status string `gorm:"type:varchar(16);not null"`
	Stage  string `gorm:"type:varchar(64);not null"`

	Attribution []byte `gorm:"type:jsonb"`
	Clicks      []byte `gorm:"type:jsonb"`

	Score             int    `gorm:"not null;default:0"`
	ContactPreference string `gorm:"type:varchar(32)"`
	Notes             string `gorm:"type:text"`

	DropReason string `gorm:"type:varchar(128)"`
	DropNotes  string `gorm:"type:text"`

	OwnerID   *uuid.UUID `gorm:"type:uuid;index"`
	Documents []byte     `gorm:"type:jsonb"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (LeadModel) TableName() string {
	return "leads"
}

// LeadEventModel mirrors the append-only 'lead_events' table.
type LeadEventModel struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	LeadID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	PersonID uuid.UUID  `gorm:"type:uuid;not null;index"`
	Type     string     `gorm:"type:varchar(32);not null"`
	ActorID  *uuid.UUID `gorm:"type:uuid"`
	Payload  []byte     `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (LeadEventModel) TableName() string {
	return "lead_events"
}
