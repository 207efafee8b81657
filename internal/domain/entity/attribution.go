package entity

import "github.com/google/uuid"

// UTMParams carries the standard UTM marketing parameters. Empty fields are
// omitted from redirect query strings and JSON payloads.
type UTMParams struct {
	Source   string `json:"source,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Term     string `json:"term,omitempty"`
	Content  string `json:"content,omitempty"`
}

// IsZero reports whether no UTM field is set.
func (u UTMParams) IsZero() bool {
	return u == UTMParams{}
}

// Attribution is the marketing-context snapshot attached to a Lead at enquiry
// time, taken verbatim from the submitting client's payload.
type Attribution struct {
	CampaignID     *uuid.UUID `json:"campaignId,omitempty"`
	CampaignLinkID *uuid.UUID `json:"campaignLinkId,omitempty"`
	Channel        string     `json:"channel,omitempty"`
	BDUserID       *uuid.UUID `json:"bdUserId,omitempty"`
	QRVariant      string     `json:"qrVariant,omitempty"`
	UTM            UTMParams  `json:"utm,omitempty"`
	Client         string     `json:"client,omitempty"` // submitting client platform hint
}
