// Package usecase defines the application service interfaces and their
// input/output types.
package usecase

import (
	"context"

	"leadtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// EnquiryInput is one public enquiry submission. Contact fields arrive raw;
// normalization happens inside the usecase.
type EnquiryInput struct {
	IntakeID uuid.UUID

	FirstName string
	LastName  string
	Email     string
	Phone     string
	DOB       string // YYYY-MM-DD

	ContactPreference string
	Notes             string

	MarketingConsent bool
	ConsentToContact bool

	// Attribution is taken verbatim from the submitting client.
	Attribution entity.Attribution

	// Submitter request metadata, used to seed the lead's click summary. The
	// user agent is hashed before storage; the referrer is kept raw.
	UserAgent string
	Referrer  string
}

// EnquiryResult reports the lead created for a submission and the person it
// resolved to.
type EnquiryResult struct {
	Lead   *entity.Lead
	Person *entity.Person

	// PersonCreated is true when this submission created the person record
	// rather than matching an existing identity.
	PersonCreated bool
}

// EnquiryUsecase handles public enquiry submissions: identity resolution,
// person dedup, lead creation and attribution capture in one transaction.
type EnquiryUsecase interface {
	// SubmitEnquiry processes one submission. It always creates exactly one
	// lead; the person is created only when no identity key matches.
	SubmitEnquiry(ctx context.Context, input EnquiryInput) (*EnquiryResult, error)
}
