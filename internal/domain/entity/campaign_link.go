package entity

import (
	"time"

	"github.com/google/uuid"
)

// LinkState is the lifecycle state of a CampaignLink.
type LinkState string

const (
	LinkActive   LinkState = "active"
	LinkPaused   LinkState = "paused"
	LinkArchived LinkState = "archived"
)

// CampaignLink is a trackable short link bound to a campaign, intake, channel
// and owning BD user. The short code is unique across the whole link
// namespace, not just per campaign. The click counter is best-effort
// eventually-consistent; the enquiry and enrollment counters are updated
// inside the transactions that create the corresponding records.
type CampaignLink struct {
	ID       uuid.UUID
	Code     string
	EntityID uuid.UUID

	CampaignID uuid.UUID
	IntakeID   uuid.UUID

	Label     string
	Channel   string
	QRVariant string
	BDUserID  *uuid.UUID

	UTMDefaults UTMParams

	State LinkState

	Clicks      int64
	Enquiries   int64
	Enrollments int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// LinkCode is the reservation record binding a short code string to its
// CampaignLink. Its existence is the sole proof of code allocation; allocation
// is transactionally create-if-absent.
type LinkCode struct {
	Code           string
	CampaignLinkID uuid.UUID
	CreatedAt      time.Time
}

// ClickSource distinguishes server-observed clicks from client-reported ones.
type ClickSource string

const (
	ClickSourceServer ClickSource = "server"
	ClickSourceClient ClickSource = "client"
)

// ClickEvent is one append-only record of a short-code resolution. IP and
// user agent are stored only as one-way hashes; the referrer is kept raw.
// The attribution fields are snapshotted from the link at click time, so the
// log stays a reconciliation source of truth even after the link is edited.
type ClickEvent struct {
	ID             uuid.UUID
	Code           string
	CampaignLinkID uuid.UUID
	EntityID       uuid.UUID
	CampaignID     uuid.UUID
	IntakeID       uuid.UUID
	Channel        string
	QRVariant      string
	BDUserID       *uuid.UUID
	UTM            UTMParams
	Source         ClickSource
	IPHash         string
	UAHash         string
	Referrer       string
	CreatedAt      time.Time
}
