package model

import (
	"time"

	"github.com/google/uuid"
)

// PersonModel mirrors the 'persons' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type PersonModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	FirstName string    `gorm:"type:varchar(100)"`
	LastName  string    `gorm:"type:varchar(100)"`

	Email string `gorm:"type:varchar(255);index"`
	Phone string `gorm:"type:varchar(32);index"`
	DOB   string `gorm:"type:varchar(10)"`

	RawEmail string `gorm:"type:varchar(255)"`
	RawPhone string `gorm:"type:varchar(64)"`

	Status     string     `gorm:"type:varchar(16);not null;default:'active'"`
	MergedInto *uuid.UUID `gorm:"type:uuid"`

	MarketingConsent    bool `gorm:"not null;default:false"`
	ConsentToContact    bool `gorm:"not null;default:false"`
	KnownToBusinessLine bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	IdentityKeys []IdentityKeyModel `gorm:"foreignKey:PersonID"`
}

// TableName explicitly sets the table name for GORM.
func (PersonModel) TableName() string {
	return "persons"
}

// IdentityKeyModel mirrors the 'identity_keys' table. The key string is the
// primary key, so two persons can never own the same identity key.
type IdentityKeyModel struct {
	Key       string    `gorm:"type:varchar(80);primary_key"`
	PersonID  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (IdentityKeyModel) TableName() string {
	return "identity_keys"
}
