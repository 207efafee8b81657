package model

import (
	"time"

	"github.com/google/uuid"
)

// CampaignModel mirrors the 'campaigns' table.
type CampaignModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	EntityID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(128);not null"`
	Status   string    `gorm:"type:varchar(16);not null;default:'active'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CampaignModel) TableName() string {
	return "campaigns"
}

// IntakeModel mirrors the 'intakes' table.
type IntakeModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	EntityID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	CampaignID *uuid.UUID `gorm:"type:uuid;index"`
	Name       string     `gorm:"type:varchar(128);not null"`
	Status     string     `gorm:"type:varchar(16);not null;default:'open'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (IntakeModel) TableName() string {
	return "intakes"
}
