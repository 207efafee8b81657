package entity

import (
	"time"

	"github.com/google/uuid"
)

// LeadStatus is the lifecycle status of a Lead. CLOSED and CONVERTED are
// terminal business states; later stage writes are re-audited, not rejected.
type LeadStatus string

const (
	LeadOpen      LeadStatus = "OPEN"
	LeadConverted LeadStatus = "CONVERTED"
	LeadClosed    LeadStatus = "CLOSED"
)

// Stage values are free-form progression labels. These three are reserved:
// ENQUIRY is the initial stage; DROPPED forces status CLOSED; COMPLETED forces
// status CONVERTED.
const (
	StageEnquiry   = "ENQUIRY"
	StageDropped   = "DROPPED"
	StageCompleted = "COMPLETED"
)

// ClickSummary aggregates click observations onto the Lead itself.
type ClickSummary struct {
	FirstClickAt time.Time `json:"firstClickAt"`
	LastClickAt  time.Time `json:"lastClickAt"`
	Count        int       `json:"count"`
	UAHash       string    `json:"uaHash,omitempty"`
	Referrer     string    `json:"referrer,omitempty"`
}

// LeadDocument describes one uploaded file attached to a Lead.
type LeadDocument struct {
	ID          uuid.UUID  `json:"id"`
	FileName    string     `json:"fileName"`
	ContentType string     `json:"contentType,omitempty"`
	StoragePath string     `json:"storagePath"`
	Size        int64      `json:"size"`
	UploadedBy  *uuid.UUID `json:"uploadedBy,omitempty"`
	UploadedAt  time.Time  `json:"uploadedAt"`
}

// Lead is one enquiry/engagement instance tied to a Person and an intake.
// Exactly one Lead is created per enquiry submission; leads are never deleted.
type Lead struct {
	ID       uuid.UUID
	EntityID uuid.UUID // owning business unit, resolved from the intake
	PersonID uuid.UUID
	IntakeID uuid.UUID

	Status LeadStatus
	Stage  string

	Attribution Attribution
	Clicks      ClickSummary

	Score             int
	ContactPreference string
	Notes             string

	// Populated when the lead is dropped.
	DropReason string
	DropNotes  string

	OwnerID   *uuid.UUID // assigned BD owner, if any
	Documents []LeadDocument

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether the lead has reached a terminal business state.
func (l *Lead) Terminal() bool {
	return l.Status == LeadClosed || l.Status == LeadConverted
}

// LeadEventType enumerates the audit trail event kinds.
type LeadEventType string

const (
	LeadEventCreated          LeadEventType = "lead_created"
	LeadEventStageChanged     LeadEventType = "stage_changed"
	LeadEventDocumentUploaded LeadEventType = "document_uploaded"
)

// LeadEvent is one append-only audit trail entry for a Lead. Events are
// immutable once written and are created in the same transaction as the state
// change they document. ActorID is nil for public-originated events.
type LeadEvent struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	PersonID  uuid.UUID
	Type      LeadEventType
	ActorID   *uuid.UUID
	Payload   map[string]any
	CreatedAt time.Time
}
