package usecase

import (
	"context"

	"leadtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateLinkInput describes a new trackable campaign link.
type CreateLinkInput struct {
	EntityID   uuid.UUID
	CampaignID uuid.UUID
	IntakeID   uuid.UUID

	Label     string
	Channel   string
	QRVariant string
	BDUserID  *uuid.UUID

	UTMDefaults entity.UTMParams
}

// LinkUsecase manages trackable campaign links and their QR codes.
type LinkUsecase interface {
	// CreateLink allocates a unique short code and creates the link. The code
	// reservation and the link row commit in one transaction.
	CreateLink(ctx context.Context, actor entity.Actor, input CreateLinkInput) (*entity.CampaignLink, error)

	// GetLinkQR renders the link's short URL as a QR code PNG.
	GetLinkQR(ctx context.Context, actor entity.Actor, linkID uuid.UUID) ([]byte, error)
}
