// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// PersonStatus tracks the merge state of a Person record.
type PersonStatus string

const (
	// PersonActive is the normal state of a deduplicated identity.
	PersonActive PersonStatus = "active"
	// PersonMerged marks a record folded into another Person; MergedInto
	// carries the surviving id.
	PersonMerged PersonStatus = "merged"
)

// Person is a deduplicated identity record. It is created exactly once per
// distinct identity: the identity-key index guarantees that concurrent
// submissions with overlapping contact signals converge on one Person.
type Person struct {
	ID        uuid.UUID
	FirstName string
	LastName  string

	// Normalized contact fields used for key derivation.
	Email string
	Phone string
	DOB   string // date of birth as submitted, YYYY-MM-DD

	// Contact fields exactly as originally submitted.
	RawEmail string
	RawPhone string

	// IdentityKeys is the full key set derived at creation time. The set is
	// fixed at creation: keys are never removed and never extended by later
	// backfills, only looked up.
	IdentityKeys []string

	Status     PersonStatus
	MergedInto *uuid.UUID

	MarketingConsent bool
	ConsentToContact bool

	// KnownToBusinessLine is set once a public enquiry has linked this person
	// to the enquiry business line; it is never unset by later submissions.
	KnownToBusinessLine bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IdentityKey is one entry of the one-way index from a derived key string to
// its owning Person. Key strings are globally unique: creating an entry for an
// existing key fails the enclosing transaction instead of overwriting.
type IdentityKey struct {
	Key       string
	PersonID  uuid.UUID
	CreatedAt time.Time
}
