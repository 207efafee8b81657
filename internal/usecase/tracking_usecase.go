package usecase

import (
	"context"

	"leadtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ClickContext carries per-request metadata for click logging. IP and user
// agent are hashed before storage.
type ClickContext struct {
	IP        string
	UserAgent string
	Referrer  string
}

// LinkResolution is the attribution payload resolved from a short code. The
// enquiry site uses it to prefill the attribution of a later submission.
type LinkResolution struct {
	Code           string           `json:"code"`
	CampaignLinkID uuid.UUID        `json:"campaignLinkId"`
	EntityID       uuid.UUID        `json:"entityId"`
	CampaignID     uuid.UUID        `json:"campaignId"`
	IntakeID       uuid.UUID        `json:"intakeId"`
	Channel        string           `json:"channel,omitempty"`
	QRVariant      string           `json:"qrVariant,omitempty"`
	BDUserID       *uuid.UUID       `json:"bdUserId,omitempty"`
	UTM            entity.UTMParams `json:"utm,omitempty"`
	EnquiryURL     string           `json:"enquiryUrl"`
}

// TrackingUsecase resolves short codes for visitors. Both operations log a
// click event; only the counter bump is best-effort.
type TrackingUsecase interface {
	// ResolveRedirect resolves a code for the server-side redirect path and
	// returns the destination URL with attribution query parameters.
	ResolveRedirect(ctx context.Context, code string, click ClickContext) (string, error)

	// ResolveCode resolves a code for a client-side integration and returns
	// the attribution payload instead of redirecting.
	ResolveCode(ctx context.Context, code string, click ClickContext) (*LinkResolution, error)
}
