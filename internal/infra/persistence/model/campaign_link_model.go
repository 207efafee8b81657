package model

import (
	"time"

	"github.com/google/uuid"
)

// CampaignLinkModel mirrors the 'campaign_links' table.
type CampaignLinkModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Code     string    `gorm:"type:varchar(16);not null;uniqueIndex"`
	EntityID uuid.UUID `gorm:"type:uuid;not null;index"`

	CampaignID uuid.UUID `gorm:"type:uuid;not null;index"`
	IntakeID   uuid.UUID `gorm:"type:uuid;not null;index"`

	Label     string     `gorm:"type:varchar(128)"`
	Channel   string     `gorm:"type:varchar(32)"`
	QRVariant string     `gorm:"type:varchar(32)"`
	BDUserID  *uuid.UUID `gorm:"type:uuid;index"`

	UTMDefaults []byte `gorm:"type:jsonb"`

	State string `gorm:"type:varchar(16);not null;default:'active'"`

	Clicks      int64 `gorm:"not null;default:0"`
	Enquiries   int64 `gorm:"not null;default:0"`
	Enrollments int64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CampaignLinkModel) TableName() string {
	return "campaign_links"
}

// LinkCodeModel mirrors the 'link_codes' table. The code string is the primary
// key; inserting an existing code fails, which is how allocation detects a
// collision.
type LinkCodeModel struct {
	Code           string    `gorm:"type:varchar(16);primary_key"`
	CampaignLinkID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (LinkCodeModel) TableName() string {
	return "link_codes"
}

// ClickEventModel mirrors the append-only 'click_events' table. The
// attribution columns hold the link's values as they were at click time.
type ClickEventModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Code           string     `gorm:"type:varchar(16);not null;index"`
	CampaignLinkID uuid.UUID  `gorm:"type:uuid;not null;index"`
	EntityID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	CampaignID     uuid.UUID  `gorm:"type:uuid;not null"`
	IntakeID       uuid.UUID  `gorm:"type:uuid;not null"`
	Channel        string     `gorm:"type:varchar(32)"`
	QRVariant      string     `gorm:"type:varchar(32)"`
	BDUserID       *uuid.UUID `gorm:"type:uuid"`
	UTM            []byte     `gorm:"type:jsonb"`
	Source         string     `gorm:"type:varchar(16);not null"`
	IPHash         string     `gorm:"type:varchar(64)"`
	UAHash         string     `gorm:"type:varchar(64)"`
	Referrer       string     `gorm:"type:text"`

	CreatedAt time.Time `gorm:"index"`
}

// TableName explicitly sets the table name for GORM.
func (ClickEventModel) TableName() string {
	return "click_events"
}
